package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"pagesim/config"
	"pagesim/console"
	"pagesim/logger"
	"pagesim/server"
	"pagesim/system"
)

func main() {
	configPath := flag.String("config", "", "JSON configuration file")
	simple := flag.Bool("simple", false, "line console instead of the terminal UI")
	httpMode := flag.Bool("http", false, "serve the JSON API, no terminal UI")
	demo := flag.Bool("demo", false, "run the demonstration at start")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalln(err)
	}

	switch {
	case *httpMode:
		err = runHTTP(cfg, *demo)
	case *simple:
		err = runSimple(cfg, *demo)
	default:
		err = runGui(cfg, *demo)
	}
	if err != nil {
		log.Fatalln(err)
	}
}

const banner = "Paging simulator, type help for the commands"

// options of the simulator from the configuration
func options(cfg *config.Config) system.Options {
	return system.Options{
		Geometry:    cfg.Geometry(),
		Seed:        cfg.Seed,
		Delay:       time.Duration(cfg.StepDelay) * time.Millisecond,
		HistorySize: cfg.HistorySize,
	}
}

// runSimple reads commands from stdin, output goes to stdout, logs to the log file
func runSimple(cfg *config.Config, demo bool) error {
	lg, closer, err := logger.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	c := console.NewSimple(os.Stdout)
	sim, err := system.New(options(cfg), c, lg)
	if err != nil {
		return err
	}
	interp := console.NewInterpreter(sim, c, cfg.DumpPath, lg)
	if err := c.WriteConsole(banner); err != nil {
		return err
	}
	if demo {
		if err := interp.Execute("demo"); err != nil {
			lg.Error("demo failed", "error", err)
		}
	}
	return c.Loop(os.Stdin, interp)
}

// runHTTP serves the API until SIGINT or SIGTERM. Logs go to stdout.
func runHTTP(cfg *config.Config, demo bool) error {
	lg, closer, err := logger.New("", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	sim, err := system.New(options(cfg), console.NewSimple(os.Stdout), lg)
	if err != nil {
		return err
	}
	if demo {
		go func() {
			if err := sim.RunDemo(); err != nil {
				lg.Error("demo failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return errors.Wrap(server.New(sim, lg).ListenAndServe(ctx, cfg.HTTPAddr), "http api")
}
