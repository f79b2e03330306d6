package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"example.com/dcspy/internal/aircraft"
)

func newAircraftCmd() *cobra.Command {
	var selectors bool
	cmd := &cobra.Command{
		Use:   "aircraft [name]",
		Short: "List supported aircraft, or the selectors of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range aircraft.Supported() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			a, err := aircraft.New(args[0], aircraft.Options{})
			if err != nil {
				return err
			}
			for _, sel := range aircraft.SelectorNames(a) {
				spec := a.Specs()[sel]
				if !selectors {
					fmt.Fprintln(out, sel)
					continue
				}
				fmt.Fprintf(out, "%-34s %-7s 0x%04x %s\n", sel, spec.Kind, spec.Address, specDetail(spec.Kind.String(), spec.MaxLength, spec.Mask, spec.Shift))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&selectors, "detail", false, "show address and layout of each selector")
	return cmd
}

func specDetail(kind string, maxLen int, mask uint16, shift uint8) string {
	if strings.EqualFold(kind, "text") {
		return fmt.Sprintf("len=%d", maxLen)
	}
	return fmt.Sprintf("mask=0x%04x shift=%d", mask, shift)
}
