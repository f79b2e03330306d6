package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"example.com/dcspy/internal/common"
	"example.com/dcspy/internal/dcsbios"
	"example.com/dcspy/internal/dispatch"
	"example.com/dcspy/internal/display"
	"example.com/dcspy/internal/transport"
)

type replayOptions struct {
	in       string
	aircraft string
	chunk    int
	progress bool
	pngDir   string
}

// replay feeds a capture through a dispatch loop and returns the parser
// counters.
func replay(ctx context.Context, opts replayOptions, progress io.Writer, hook dispatch.ChangeHook) (common.MetricsSnapshot, error) {
	src, err := transport.OpenFileSource(opts.in, opts.chunk)
	if err != nil {
		return common.MetricsSnapshot{}, err
	}
	defer src.Close()

	metrics := common.NewMetrics()
	if info, err := os.Stat(opts.in); err == nil {
		metrics.SetTotalBytes(info.Size())
	}
	var disp display.Display = display.Discard{}
	if opts.pngDir != "" {
		if disp, err = display.NewPNGDir(opts.pngDir, "replay", nil); err != nil {
			return common.MetricsSnapshot{}, err
		}
	}
	loop := dispatch.NewLoop(src, dispatch.Options{
		Display:  disp,
		Metrics:  metrics,
		OnChange: hook,
		Aircraft: opts.aircraft,
		Version:  version,
	})
	if opts.progress {
		stop := common.StartProgressPrinter(progress, metrics, 200*time.Millisecond)
		defer stop()
	}
	if err := loop.Run(ctx); err != nil {
		return metrics.Snapshot(), err
	}
	metrics.Stop()
	return metrics.Snapshot(), nil
}

func newReplayCmd() *cobra.Command {
	var opts replayOptions
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a capture and print every value change",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			snap, err := replay(cmd.Context(), opts, cmd.ErrOrStderr(), func(a, sel string, v dcsbios.Value) {
				fmt.Fprintf(out, "%-16s %-34s %q\n", a, sel, v.String())
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d datagrams, %d writes, %d resyncs (%s)\n", snap.Datagrams, snap.Writes, snap.Resyncs, common.FormatBytes(snap.Bytes))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.in, "in", "", "capture file (required)")
	cmd.Flags().StringVar(&opts.aircraft, "aircraft", "", "aircraft to load before replay (default: detect from the capture)")
	cmd.Flags().IntVar(&opts.chunk, "chunk", transport.DefaultChunk, "bytes fed to the parser per step")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "print replay progress to stderr")
	cmd.Flags().StringVar(&opts.pngDir, "png-dir", "", "write rendered frames into this directory")
	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(err)
	}
	return cmd
}
