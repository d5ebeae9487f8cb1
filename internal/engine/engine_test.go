package engine

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

// TestMain doubles as a scripted UCI engine when re-executed by the tests
func TestMain(m *testing.M) {
	if mode := os.Getenv("FAKE_UCI_ENGINE"); mode != "" {
		fakeEngine(mode)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func fakeEngine(mode string) {
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		cmd := strings.Fields(in.Text())
		if len(cmd) == 0 {
			continue
		}
		switch cmd[0] {
		case "uci":
			fmt.Println("id name fake")
			fmt.Println("uciok")
		case "isready":
			fmt.Println("readyok")
		case "go":
			switch mode {
			case "mate":
				fmt.Println("info depth 5 score mate 2 pv d1h5")
				fmt.Println("bestmove d1h5")
			case "none":
				fmt.Println("bestmove (none)")
			case "silent":
				// Only answers once told to stop
			default:
				fmt.Println("info depth 1 score cp 10")
				fmt.Println("info depth 12 score cp 35 nodes 1000 pv e2e4 e7e5")
				fmt.Println("bestmove e2e4 ponder e7e5")
			}
		case "stop":
			fmt.Println("bestmove a2a3")
		case "quit":
			return
		}
	}
}

func startFake(t *testing.T, mode string) *UCI {
	t.Helper()
	t.Setenv("FAKE_UCI_ENGINE", mode)
	u, err := New(os.Args[0], "-test.run=^$")
	if err != nil {
		t.Fatalf("start fake engine: %v", err)
	}
	t.Cleanup(func() { u.Close() })
	return u
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

func TestBestMove(t *testing.T) {
	u := startFake(t, "cp")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := u.NewGame(ctx); err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := u.SetSkillLevel(25); err != nil {
		t.Fatalf("skill: %v", err)
	}

	res, err := u.BestMove(ctx, startFEN, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.BestMove != "e2e4" || res.Depth != 12 || res.Score != 35 || res.IsMate {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestMateScore(t *testing.T) {
	u := startFake(t, "mate")
	res, err := u.BestMove(context.Background(), startFEN, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !res.IsMate || res.MateIn != 2 || res.Score != 99998 {
		t.Fatalf("unexpected mate result %+v", res)
	}
}

func TestNoMove(t *testing.T) {
	u := startFake(t, "none")
	if _, err := u.BestMove(context.Background(), startFEN, 10*time.Millisecond); err == nil {
		t.Fatal("expected an error when the engine has no move")
	}
}

func TestSearchTimeoutDrainsLateMove(t *testing.T) {
	u := startFake(t, "silent")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := u.BestMove(ctx, startFEN, 10*time.Millisecond); err == nil {
		t.Fatal("expected timeout")
	}

	// The late bestmove from "stop" must not leak into the next search
	ctx2, cancel2 := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel2()
	if res, err := u.BestMove(ctx2, startFEN, 10*time.Millisecond); err == nil {
		t.Fatalf("stale move %q returned", res.BestMove)
	}
}

func TestStartFailure(t *testing.T) {
	if _, err := New("/nonexistent/engine-binary"); err == nil {
		t.Fatal("expected start failure")
	}
}
