package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/Dicklesworthstone/osmonitor/internal/battery"
	"github.com/Dicklesworthstone/osmonitor/internal/config"
	"github.com/Dicklesworthstone/osmonitor/internal/names"
	"github.com/Dicklesworthstone/osmonitor/internal/platform"
	"github.com/Dicklesworthstone/osmonitor/internal/poller"
	"github.com/Dicklesworthstone/osmonitor/internal/provider"
	"github.com/Dicklesworthstone/osmonitor/internal/ui"
	"github.com/Dicklesworthstone/osmonitor/internal/wire"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "osmonitor: %v\n", err)
		os.Exit(2)
	}

	interactive := !cfg.JSON && !cfg.JSONStream && term.IsTerminal(int(os.Stdout.Fd()))

	closeLog, logPath, err := setupLogging(interactive)
	if err != nil {
		log.Fatalf("setting up logging: %v", err)
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()
	log.Printf("osmonitor starting, interval %s, log %s", cfg.Interval, logPath)

	if err := run(cfg, interactive); err != nil {
		log.Printf("osmonitor: %v", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg config.Config, interactive bool) error {
	if !cfg.CPUMeter {
		log.Printf("cpu meter disabled, nothing to poll")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := config.NewStore(cfg)
	codec := wire.JSONCodec{}
	sampler := provider.NewSampler(codec)

	ctrl := poller.New(poller.Config{
		Provider: provider.NewLocal(sampler, sampler),
		Settings: settings,
		Codec:    codec,
		Labeler:  names.NewCache(names.NewUserResolver(), platform.SelfUID(), cfg.HelperMarker),
		Battery:  battery.NewSysfsSource(cfg.BatteryPoll),
		Kill:     platform.KillProcess,
	})

	go func() {
		if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("poller stopped: %v", err)
		}
	}()
	defer func() {
		if err := ctrl.Close(); err != nil && !errors.Is(err, poller.ErrClosed) {
			log.Printf("closing poller: %v", err)
		}
	}()

	go reloadOnHangup(ctx, settings)

	if err := ctrl.Wake(); err != nil {
		return fmt.Errorf("starting poller: %w", err)
	}

	prefs := ui.Prefs{
		UseCelsius: cfg.UseCelsius,
		FontColor:  cfg.FontColor,
		IconColor:  cfg.IconColor,
		OnTop:      cfg.OnTop,
	}
	if interactive {
		return ui.RunTUI(ctrl, prefs)
	}

	err := ui.StreamJSON(ctx, os.Stdout, ctrl.Store().Updates(), ctrl, prefs, cfg.JSON)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// reloadOnHangup re-reads the settings file on SIGHUP. The new interval takes
// effect at the next reschedule.
func reloadOnHangup(ctx context.Context, settings *config.Store) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			if err := settings.Reload(); err != nil {
				log.Printf("warning: reloading settings: %v", err)
				continue
			}
			log.Printf("settings reloaded, interval %s", settings.Interval())
		}
	}
}
