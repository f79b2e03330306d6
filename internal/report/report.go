// Package report summarises a replayed capture session.
package report

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"example.com/dcspy/internal/common"
	"example.com/dcspy/internal/dcsbios"
)

// SelectorSummary is the outcome of one selector over a session.
type SelectorSummary struct {
	Aircraft string `json:"aircraft"`
	Selector string `json:"selector"`
	Kind     string `json:"kind"`
	Final    string `json:"final"`
	Changes  int    `json:"changes"`
}

// Session is everything a report shows.
type Session struct {
	Capture   string                 `json:"capture"`
	Digest    common.Digest          `json:"digest"`
	Aircraft  []string               `json:"aircraft"`
	Generated time.Time              `json:"generated"`
	Metrics   common.MetricsSnapshot `json:"metrics"`
	Selectors []SelectorSummary      `json:"selectors"`
}

// TotalChanges sums the change counts of every selector.
func (s Session) TotalChanges() int {
	n := 0
	for _, sel := range s.Selectors {
		n += sel.Changes
	}
	return n
}

type selectorKey struct {
	aircraft string
	selector string
}

// Collector records value changes; its Observe method fits
// dispatch.ChangeHook.
type Collector struct {
	summaries map[selectorKey]*SelectorSummary
	aircraft  []string
}

func NewCollector() *Collector {
	return &Collector{summaries: make(map[selectorKey]*SelectorSummary)}
}

func (c *Collector) Observe(aircraftName, selector string, v dcsbios.Value) {
	key := selectorKey{aircraftName, selector}
	s, ok := c.summaries[key]
	if !ok {
		s = &SelectorSummary{Aircraft: aircraftName, Selector: selector, Kind: v.Kind.String()}
		c.summaries[key] = s
		if len(c.aircraft) == 0 || c.aircraft[len(c.aircraft)-1] != aircraftName {
			c.aircraft = append(c.aircraft, aircraftName)
		}
	}
	s.Final = v.String()
	s.Changes++
}

// Build assembles the report. Selectors are ordered by aircraft then name.
func (c *Collector) Build(capture string, digest common.Digest, metrics common.MetricsSnapshot) Session {
	rep := Session{
		Capture:   capture,
		Digest:    digest,
		Aircraft:  append([]string(nil), c.aircraft...),
		Generated: time.Now().UTC(),
		Metrics:   metrics,
	}
	for _, s := range c.summaries {
		rep.Selectors = append(rep.Selectors, *s)
	}
	sort.Slice(rep.Selectors, func(i, j int) bool {
		a, b := rep.Selectors[i], rep.Selectors[j]
		if a.Aircraft != b.Aircraft {
			return a.Aircraft < b.Aircraft
		}
		return a.Selector < b.Selector
	})
	return rep
}

func SaveSessionJSON(rep Session, out string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadSessionJSON(path string) (Session, error) {
	var rep Session
	b, err := os.ReadFile(path)
	if err != nil {
		return rep, err
	}
	err = json.Unmarshal(b, &rep)
	return rep, err
}
