package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"example.com/dcspy/internal/common"
	"example.com/dcspy/internal/config"
	"example.com/dcspy/internal/transport"
)

func newRecordCmd() *cobra.Command {
	var (
		out        string
		duration   time.Duration
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the live export stream into a capture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			src, err := transport.NewMulticast(transport.MulticastConfig{
				Group:     cfg.Multicast.Group,
				Port:      cfg.Multicast.Port,
				Interface: cfg.Multicast.Interface,
				Timeout:   cfg.ReceiveTimeout,
			}, nil)
			if err != nil {
				return err
			}
			defer src.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create capture: %w", err)
			}
			defer f.Close()
			hasher := common.NewHasher()
			rec := transport.NewRecorder(src, io.MultiWriter(f, hasher))

			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			if err := record(ctx, rec); err != nil {
				return err
			}
			if err := f.Sync(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s to %s\nsha256 %s\n", common.FormatBytes(rec.Written()), out, hasher.Sum())
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "capture.dcsb", "capture file")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (default: until interrupted)")
	cmd.Flags().StringVar(&configPath, "config", "", "daemon configuration to take the multicast settings from")
	return cmd
}

// record pulls datagrams until ctx ends. Timeouts are expected while the
// simulator is not running.
func record(ctx context.Context, src transport.Source) error {
	for {
		_, err := src.Receive(ctx)
		switch {
		case err == nil, errors.Is(err, transport.ErrTimeout):
		case ctx.Err() != nil, errors.Is(err, io.EOF):
			return nil
		default:
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
