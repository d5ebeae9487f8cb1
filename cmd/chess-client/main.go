// FILE: cmd/chess-client/main.go
// Package main implements an interactive debugging client for the chess server API
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/commands"
	"chessrules/internal/client/display"
	"chessrules/internal/client/session"
	"chessrules/internal/core"

	"github.com/chzyer/readline"
)

func main() {
	var (
		apiURL  = flag.String("api", "http://localhost:8080", "Chess API base URL")
		history = flag.String("history", ".chess_client_history", "Readline history file")
	)
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		display.Println(os.Stderr, display.Failure, "%v", err)
		os.Exit(1)
	}
	defer rl.Close()

	s := session.New(*apiURL, api.New(*apiURL, rl.Stdout()))

	display.Println(os.Stdout, display.Info, "Chess Debug Client")
	display.Println(os.Stdout, display.Info, "API: %s", s.APIBaseURL)
	fmt.Println("Type 'help' for commands")
	fmt.Println()

	registry := commands.NewRegistry(s, rl, rl.Stdout())

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		if registry.Execute(line) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	prompt := "chess"
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		prompt += " [" + id + "]"
	}

	if s.State != nil {
		if s.State.State != core.StateOngoing.String() {
			prompt += " " + s.State.State
		} else if next := s.NextPlayer(); next != nil {
			kind := "h"
			if next.Type == core.PlayerComputer {
				kind = "c"
			}
			prompt += " " + display.ColorForTurn(s.State.Turn) + "(" + kind + ")"
		}
	}

	return display.Prompt(prompt)
}
