// FILE: internal/engine/engine.go
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultPath is the engine binary looked up on PATH when none is given
const DefaultPath = "stockfish"

const handshakeTimeout = 5 * time.Second

// ErrClosed reports that the engine process has exited
var ErrClosed = errors.New("engine closed unexpectedly")

// UCI drives an external engine over the UCI text protocol. Calls are
// serialized; a single goroutine reads the engine's output.
type UCI struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string
	mu    sync.Mutex
}

type SearchResult struct {
	BestMove string
	Score    int // Centipawns from the side to move, mate folded into ±100000
	Depth    int
	IsMate   bool
	MateIn   int
}

// New starts path (DefaultPath if empty) and completes the uci/isready
// handshake
func New(path string, args ...string) (*UCI, error) {
	if path == "" {
		path = DefaultPath
	}
	cmd := exec.Command(path, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}

	u := &UCI{
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan string, 64),
	}
	go u.readLoop(stdout)

	ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
	defer cancel()
	if err := u.initialize(ctx); err != nil {
		u.Close()
		return nil, err
	}

	return u, nil
}

func (u *UCI) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		u.lines <- scanner.Text()
	}
	close(u.lines)
}

// await consumes output until a line satisfies match
func (u *UCI) await(ctx context.Context, what string, match func(string) bool) (string, error) {
	for {
		select {
		case line, ok := <-u.lines:
			if !ok {
				return "", ErrClosed
			}
			if match(line) {
				return line, nil
			}
		case <-ctx.Done():
			return "", fmt.Errorf("timeout waiting for %s", what)
		}
	}
}

func (u *UCI) initialize(ctx context.Context) error {
	if err := u.send("uci"); err != nil {
		return err
	}
	if _, err := u.await(ctx, "uciok", func(l string) bool { return l == "uciok" }); err != nil {
		return err
	}
	return u.ready(ctx)
}

func (u *UCI) ready(ctx context.Context) error {
	if err := u.send("isready"); err != nil {
		return err
	}
	_, err := u.await(ctx, "readyok", func(l string) bool { return l == "readyok" })
	return err
}

func (u *UCI) send(cmd string) error {
	_, err := fmt.Fprintln(u.stdin, cmd)
	return err
}

// SetSkillLevel sets the engine's skill level (0-20)
func (u *UCI) SetSkillLevel(level int) error {
	level = max(0, min(level, 20))

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.send(fmt.Sprintf("setoption name Skill Level value %d", level))
}

func (u *UCI) NewGame(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.send("ucinewgame"); err != nil {
		return err
	}
	return u.ready(ctx)
}

// BestMove searches fen for moveTime and returns the engine's choice
func (u *UCI) BestMove(ctx context.Context, fen string, moveTime time.Duration) (*SearchResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.send("position fen " + fen); err != nil {
		return nil, err
	}
	if err := u.send(fmt.Sprintf("go movetime %d", moveTime.Milliseconds())); err != nil {
		return nil, err
	}

	result := &SearchResult{}
	line, err := u.await(ctx, "bestmove", func(l string) bool {
		if strings.HasPrefix(l, "info ") {
			parseInfo(l, result)
		}
		return strings.HasPrefix(l, "bestmove ")
	})
	if err != nil {
		if !errors.Is(err, ErrClosed) {
			u.abort()
		}
		return nil, err
	}

	parts := strings.Fields(line)
	if len(parts) < 2 || parts[1] == "(none)" {
		return nil, fmt.Errorf("engine returned no move")
	}
	result.BestMove = parts[1]
	return result, nil
}

// abort stops a running search and discards its late bestmove
func (u *UCI) abort() {
	if u.send("stop") != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u.await(ctx, "bestmove", func(l string) bool { return strings.HasPrefix(l, "bestmove ") })
}

func parseInfo(line string, result *SearchResult) {
	fields := strings.Fields(line)
	for i := 0; i < len(fields)-1; i++ {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			continue
		}
		switch fields[i] {
		case "depth":
			result.Depth = n
		case "cp":
			result.Score = n
			result.IsMate = false
		case "mate":
			result.MateIn = n
			result.IsMate = true
			if n > 0 {
				result.Score = 100000 - n
			} else {
				result.Score = -100000 - n
			}
		}
	}
}

func (u *UCI) Close() error {
	u.mu.Lock()
	u.send("quit")
	u.stdin.Close()
	u.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- u.cmd.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-time.After(1 * time.Second):
		// Force kill if doesn't exit gracefully
		return u.cmd.Process.Kill()
	}
}
