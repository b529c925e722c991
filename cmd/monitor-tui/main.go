package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"sales-monitor/internal/client"
	"sales-monitor/internal/config"
	"sales-monitor/internal/service"
	"sales-monitor/internal/storage"
	"sales-monitor/internal/tui"
)

func main() {
	dataPath := flag.String("data", "", "path to a JSON dump of deals (skips the upstream API)")
	targetsPath := flag.String("targets", "", "path to a TOML file of monthly targets per unit")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	cfg := config.Load()

	// The alt screen owns stdout, so logs go to a file or nowhere.
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	if *targetsPath == "" {
		*targetsPath = cfg.TargetsFile
	}
	targets, err := config.LoadTargets(*targetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load targets: %v\n", err)
		os.Exit(1)
	}

	var upstream service.Upstream
	if *dataPath != "" {
		static, err := service.LoadStaticUpstream(*dataPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load deals: %v\n", err)
			os.Exit(1)
		}
		upstream = static
	} else {
		upstream = client.NewHTTPClient(cfg, logger)
	}

	svc := service.New(upstream, storage.NewMemoryStore(), logger, service.Options{
		DealsStaleAfter: cfg.DealsStaleAfter,
		UnitsStaleAfter: cfg.UnitsStaleAfter,
		TargetOverrides: targets,
		Location:        cfg.Location,
	})

	if _, err := tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
