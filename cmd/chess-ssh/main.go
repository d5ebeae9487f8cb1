// FILE: cmd/chess-ssh/main.go
// Package main serves the interactive terminal game over SSH, one game per
// session, all sessions sharing one service
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/engine"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	clitransport "chessrules/internal/transport/cli"

	"github.com/chzyer/readline"
	"github.com/gliderlabs/ssh"
)

const (
	defaultIdleTimeout = 5 * time.Minute
)

func main() {
	var (
		addr        = flag.String("ssh-addr", ":2222", "SSH listen address")
		hostKey     = flag.String("host-key", "", "Host key file (a fresh key is generated if empty)")
		seed        = flag.Int64("seed", 0, "Base seed for computer players (0 uses the clock)")
		theme       = flag.String("theme", "brown", "Board theme for PTY sessions")
		idleTimeout = flag.Duration("idle-timeout", defaultIdleTimeout, "Disconnect idle sessions after this long")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		enginePath  = flag.String("engine", "", "UCI engine binary for computer players (random mover if empty)")
		moveTime    = flag.Duration("move-time", 500*time.Millisecond, "Engine search time per move")
	)
	flag.Parse()

	var store *storage.Store
	if *storagePath != "" {
		var err error
		store, err = storage.NewStore(*storagePath, false)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	var opts []service.Option
	if *enginePath != "" {
		uci, err := engine.New(*enginePath)
		if err != nil {
			log.Fatalf("Failed to start engine: %v", err)
		}
		defer uci.Close()
		opts = append(opts, service.WithEngine(uci, *moveTime))
	}

	svc, err := service.New(store, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	defer svc.Close()

	var sessions atomic.Int64
	server := &ssh.Server{
		Addr:        *addr,
		IdleTimeout: *idleTimeout,
		Handler: func(s ssh.Session) {
			n := sessions.Add(1)
			sessionSeed := *seed
			if sessionSeed == 0 {
				sessionSeed = time.Now().UnixNano()
			} else {
				sessionSeed += n
			}
			log.Printf("Session %d opened by %s from %s", n, s.User(), s.RemoteAddr())
			serveSession(s, svc, sessionSeed, cli.ColorTheme(*theme))
			log.Printf("Session %d closed", n)
		},
	}

	if *hostKey != "" {
		if err := server.SetOption(ssh.HostKeyFile(*hostKey)); err != nil {
			log.Fatalf("Failed to load host key: %v", err)
		}
	}

	log.Printf("Chess SSH server listening on %s", *addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("SSH server error: %v", err)
	}
}

// serveSession runs one CLI game loop over the session
func serveSession(s ssh.Session, svc *service.Service, seed int64, theme cli.ColorTheme) {
	_, winCh, isPty := s.Pty()

	var (
		input  cli.LineReader
		output io.Writer = s
	)

	if isPty {
		var width atomic.Int64
		width.Store(80)
		var onWidth atomic.Value

		go func() {
			for win := range winCh {
				width.Store(int64(win.Width))
				if f, ok := onWidth.Load().(func()); ok {
					f()
				}
			}
		}()

		rl, err := readline.NewEx(&readline.Config{
			Prompt:                 "> ",
			Stdin:                  io.NopCloser(s),
			Stdout:                 s,
			Stderr:                 s.Stderr(),
			FuncIsTerminal:         func() bool { return true },
			FuncMakeRaw:            func() error { return nil },
			FuncExitRaw:            func() error { return nil },
			FuncGetWidth:           func() int { return int(width.Load()) },
			FuncOnWidthChanged:     func(f func()) { onWidth.Store(f) },
			InterruptPrompt:        "^C",
			EOFPrompt:              "quit",
			DisableAutoSaveHistory: true,
		})
		if err != nil {
			fmt.Fprintf(s, "failed to start session: %v\n", err)
			s.Exit(1)
			return
		}
		defer rl.Close()
		input = rl
		// The remote terminal is raw, so line feeds need a carriage return
		output = crlfWriter{w: s}
	} else {
		input = cli.NewScanner(s)
		theme = cli.ThemeOff
	}

	view := cli.New(input, output)
	if err := view.SetTheme(theme); err != nil {
		view.ShowError(err)
	}

	handler := clitransport.New(svc, view, seed)
	view.ShowWelcome()
	handler.Run()

	s.Exit(0)
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == '\n' {
			buf = append(buf, '\r')
		}
		buf = append(buf, b)
	}
	if _, err := c.w.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
