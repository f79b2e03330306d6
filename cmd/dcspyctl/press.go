package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"example.com/dcspy/internal/aircraft"
)

func newPressCmd() *cobra.Command {
	var (
		name   string
		button int
		repeat int
	)
	cmd := &cobra.Command{
		Use:   "press",
		Short: "Print the commands a button press sends",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := aircraft.New(name, aircraft.Options{})
			if err != nil {
				return err
			}
			if repeat <= 0 {
				repeat = 1
			}
			out := cmd.OutOrStdout()
			for i := 0; i < repeat; i++ {
				req := a.ButtonRequest(aircraft.Button(button))
				fmt.Fprintln(out, strings.TrimRight(strings.ReplaceAll(req, "\n", " | "), " |"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "aircraft", "", "aircraft name (required)")
	cmd.Flags().IntVar(&button, "button", 1, "button number (1-4, or 9-15 on the G19)")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of presses")
	if err := cmd.MarkFlagRequired("aircraft"); err != nil {
		panic(err)
	}
	return cmd
}
