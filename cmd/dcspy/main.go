package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"

	"example.com/dcspy/internal/common"
	"example.com/dcspy/internal/config"
	"example.com/dcspy/internal/dispatch"
	"example.com/dcspy/internal/display"
	"example.com/dcspy/internal/transport"
)

var version = "dev"

func newDisplay(cfg config.Config, logger hclog.Logger) (display.Display, error) {
	switch cfg.Display.Kind {
	case "discard":
		return display.Discard{}, nil
	default:
		return display.NewPNGDir(cfg.Display.Dir, cfg.Keyboard, logger)
	}
}

func run(ctx context.Context, cfg config.Config, keys io.Reader, logger hclog.Logger) error {
	src, err := transport.NewMulticast(transport.MulticastConfig{
		Group:     cfg.Multicast.Group,
		Port:      cfg.Multicast.Port,
		Interface: cfg.Multicast.Interface,
		Timeout:   cfg.ReceiveTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("export stream: %w", err)
	}
	defer src.Close()

	sender, err := transport.NewCommandSender(cfg.Command.Host, cfg.Command.Port, logger)
	if err != nil {
		return err
	}
	defer sender.Close()

	disp, err := newDisplay(cfg, logger)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}

	loop := dispatch.NewLoop(src, dispatch.Options{
		LCD:      cfg.LCD(),
		Display:  disp,
		Sender:   sender,
		Keypad:   dispatch.NewLineKeypad(keys, logger),
		Metrics:  common.NewMetrics(),
		Logger:   logger,
		Aircraft: cfg.Aircraft,
		Version:  "DCSpy " + version,
	})
	logger.Info("dcspy started", "version", version, "keyboard", cfg.Keyboard,
		"group", cfg.Multicast.Group, "port", cfg.Multicast.Port)
	return loop.Run(ctx)
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println("dcspy", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if errors.Is(err, config.ErrNoConfig) {
		common.Logf("%v, using defaults", err)
		cfg, err = config.Default(), nil
	}
	if err != nil {
		common.Fatalf("load config: %v", err)
	}
	logger, closer, err := common.SetupLogging(common.LogOptions{
		Name:       "dcspy",
		Level:      cfg.LogLevel,
		Directory:  cfg.Logs.Directory,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	})
	if err != nil {
		common.Fatalf("setup logging: %v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, os.Stdin, logger); err != nil {
		logger.Error("dcspy stopped with error", "error", err)
		closer.Close()
		os.Exit(1)
	}
	logger.Info("dcspy stopped")
}
