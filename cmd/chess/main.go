// FILE: cmd/chess/main.go
// Package main runs an interactive terminal game against the rules engine
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/engine"
	"chessrules/internal/prefs"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	clitransport "chessrules/internal/transport/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		seed        = flag.Int64("seed", 0, "Seed for the computer player and color draw (0 uses the clock)")
		theme       = flag.String("theme", "brown", "Board theme: off, brown, green, gray")
		logPath     = flag.String("log", "", "Write service logs to this file (discarded if empty)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		enginePath  = flag.String("engine", "", "UCI engine binary for computer players (random mover if empty)")
		moveTime    = flag.Duration("move-time", 500*time.Millisecond, "Engine search time per move")
		history     = flag.String("history", ".chess_history", "Readline history file")
		prefsDir    = flag.String("prefs-dir", "", "Directory for saved settings and results (platform data dir if empty)")
		noPrefs     = flag.Bool("no-prefs", false, "Do not load or save settings and results")
	)
	flag.Parse()

	themeSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "theme" {
			themeSet = true
		}
	})

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	logFile, err := cli.InitLog(*logPath, "[chess] ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	var store *storage.Store
	if *storagePath != "" {
		store, err = storage.NewStore(*storagePath, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		if err := store.InitDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize schema: %v\n", err)
			os.Exit(1)
		}
	}

	var opts []service.Option
	if *enginePath != "" {
		uci, err := engine.New(*enginePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start engine: %v\n", err)
			os.Exit(1)
		}
		defer uci.Close()
		opts = append(opts, service.WithEngine(uci, *moveTime))
	}

	svc, err := service.New(store, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	var input cli.LineReader
	if interactive {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     *history,
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start readline: %v\n", err)
			os.Exit(1)
		}
		defer rl.Close()
		input = rl
	} else {
		input = cli.NewScanner(os.Stdin)
	}

	var (
		prefStore *prefs.Store
		settings  = prefs.DefaultPreferences()
	)
	if !*noPrefs {
		dir := *prefsDir
		if dir == "" {
			dir, err = prefs.DataDir()
		}
		if err == nil {
			prefStore, err = prefs.Open(dir)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Preferences unavailable: %v\n", err)
		} else {
			defer prefStore.Close()
			if settings, err = prefStore.LoadPreferences(); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to load preferences: %v\n", err)
			}
			if !themeSet {
				*theme = settings.Theme
			}
		}
	}

	view := cli.New(input, os.Stdout)
	if !interactive {
		*theme = string(cli.ThemeOff)
	}
	if err := view.SetTheme(cli.ColorTheme(*theme)); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if settings.Verbose != view.IsVerbose() {
		view.ToggleVerbose()
	}

	handler := clitransport.New(svc, view, *seed)
	if prefStore != nil {
		handler.UsePreferences(prefStore, settings)
	}

	view.ShowWelcome()
	handler.Run() // All game loop logic is in the handler
}
