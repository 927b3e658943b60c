// Package main is the entry point for the hilite viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/hilite/internal/config"
	"github.com/dshills/hilite/internal/config/watcher"
	"github.com/dshills/hilite/internal/diag"
	"github.com/dshills/hilite/internal/highlight/schedule"
	"github.com/dshills/hilite/internal/text"
	"github.com/dshills/hilite/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var rulesPath string
	var logPath string
	var showVersion bool

	flag.StringVar(&rulesPath, "rules", "", "Path to rule file (toml, yaml, or json)")
	flag.StringVar(&rulesPath, "r", "", "Path to rule file (shorthand)")
	flag.StringVar(&logPath, "log", "", "Write debug diagnostics to this file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("hilite %s (%s)\n", version, commit)
		return 0
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: hilite [-rules FILE] [-log FILE] DOCUMENT")
		return 2
	}
	docPath := flag.Arg(0)

	if logPath != "" {
		closeLog, err := attachLog(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
			return 1
		}
		defer closeLog()
	}

	cfg := config.Default()
	if rulesPath != "" {
		loaded, err := config.Load(rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load rules: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read document: %v\n", err)
		return 1
	}

	buf := text.NewBuffer(string(data))
	v := view.New(filepath.Base(docPath), buf, cfg)
	sched := schedule.New(v, v, cfg.RuleSet(), cfg.Selection)
	v.SetScheduler(sched)

	// Live rule reload feeds the scheduler's reconfiguration entry point.
	if rulesPath != "" {
		w, err := watcher.New(func(path string) {
			reloaded, err := config.Load(path)
			if err != nil {
				diag.Warnf(diag.CatConfig, "reload %s: %v", path, err)
				return
			}
			v.Reload(reloaded)
			sched.Reconfigure(reloaded.RuleSet(), reloaded.Selection)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create watcher: %v\n", err)
			return 1
		}
		defer w.Close()
		if err := w.Watch(rulesPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to watch rules: %v\n", err)
			return 1
		}
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		v.Quit()
	}()

	if err := v.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// attachLog routes the diagnostic channel to a file.
func attachLog(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	diag.Subscribe(func(rec diag.Record) {
		fmt.Fprintf(f, "%s [%s] %s: %s\n",
			rec.Time.Format("15:04:05.000"), rec.Level, rec.Category, rec.Message)
	})
	return func() { _ = f.Close() }, nil
}
