package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/dcspy/internal/common"
	"example.com/dcspy/internal/report"
	"example.com/dcspy/internal/transport"
)

func newReportCmd() *cobra.Command {
	var (
		opts     replayOptions
		pdfPath  string
		jsonOut  string
		fromJSON string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Replay a capture and write a session report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromJSON != "" {
				return rerenderReport(cmd, fromJSON, pdfPath)
			}
			digest, err := common.DigestFile(opts.in)
			if err != nil {
				return fmt.Errorf("digest capture: %w", err)
			}
			collector := report.NewCollector()
			snap, err := replay(cmd.Context(), opts, cmd.ErrOrStderr(), collector.Observe)
			if err != nil {
				return err
			}
			rep := collector.Build(opts.in, digest, snap)
			out := cmd.OutOrStdout()
			if pdfPath != "" {
				if err := report.SaveSessionPDF(rep, pdfPath); err != nil {
					return fmt.Errorf("write pdf: %w", err)
				}
				fmt.Fprintln(out, "Wrote PDF:", pdfPath)
			}
			if jsonOut != "" {
				if err := report.SaveSessionJSON(rep, jsonOut); err != nil {
					return fmt.Errorf("write json: %w", err)
				}
				fmt.Fprintln(out, "Wrote JSON:", jsonOut)
			}
			fmt.Fprintf(out, "%d selectors, %d changes\n", len(rep.Selectors), rep.TotalChanges())
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.in, "in", "", "capture file")
	cmd.Flags().StringVar(&opts.aircraft, "aircraft", "", "aircraft to load before replay (default: detect from the capture)")
	cmd.Flags().IntVar(&opts.chunk, "chunk", transport.DefaultChunk, "bytes fed to the parser per step")
	cmd.Flags().StringVar(&pdfPath, "out", "report.pdf", "output PDF (empty to skip)")
	cmd.Flags().StringVar(&jsonOut, "json", "", "also write the report as JSON")
	cmd.Flags().StringVar(&fromJSON, "from-json", "", "render the PDF from a saved JSON report instead of replaying")
	cmd.MarkFlagsOneRequired("in", "from-json")
	cmd.MarkFlagsMutuallyExclusive("in", "from-json")
	cmd.MarkFlagsMutuallyExclusive("json", "from-json")
	return cmd
}

func rerenderReport(cmd *cobra.Command, jsonPath, pdfPath string) error {
	if pdfPath == "" {
		return fmt.Errorf("--from-json needs --out")
	}
	rep, err := report.LoadSessionJSON(jsonPath)
	if err != nil {
		return fmt.Errorf("read json: %w", err)
	}
	if err := report.SaveSessionPDF(rep, pdfPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Wrote PDF:", pdfPath)
	fmt.Fprintf(out, "%d selectors, %d changes\n", len(rep.Selectors), rep.TotalChanges())
	return nil
}
