package aircraft

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnknownAircraft is returned by New for names with no table.
var ErrUnknownAircraft = errors.New("aircraft not supported")

type model struct {
	names []string
	build func(name string, opts Options) Aircraft
}

var catalogue = []model{
	{names: []string{"FA-18C_hornet"}, build: func(n string, o Options) Aircraft { return NewHornet(n, o) }},
	{names: []string{"F-16C_50"}, build: func(n string, o Options) Aircraft { return NewViper(n, o) }},
	{names: []string{"Ka-50", "Ka-50_3"}, build: func(n string, o Options) Aircraft { return NewBlackShark(n, o) }},
	{names: []string{"AH-64D_BLK_II"}, build: func(n string, o Options) Aircraft { return NewApache(n, o) }},
	{names: []string{"A-10C", "A-10C_2"}, build: func(n string, o Options) Aircraft { return NewWarthog(n, o) }},
	{names: []string{"F-14B", "F-14A-135-GR"}, build: func(n string, o Options) Aircraft { return NewTomcat(n, o) }},
	{names: []string{"AV8BNA"}, build: func(n string, o Options) Aircraft { return NewHarrier(n, o) }},
}

// normalize drops everything but letters and digits and folds case, so
// "FA-18C_hornet", "fa18chornet" and "FA18Chornet" are the same aircraft.
func normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// New builds a fresh aircraft state for name.
func New(name string, opts Options) (Aircraft, error) {
	key := normalize(name)
	for _, m := range catalogue {
		for _, n := range m.names {
			if normalize(n) == key {
				return m.build(n, opts), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAircraft, name)
}

// Supported lists every aircraft name New accepts, in catalogue order.
func Supported() []string {
	var out []string
	for _, m := range catalogue {
		out = append(out, m.names...)
	}
	return out
}
