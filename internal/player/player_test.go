package player

import (
	"errors"
	"math/rand"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
)

func TestRandomPicksLegalMove(t *testing.T) {
	b := board.NewStandard()
	r := NewRandom(rand.New(rand.NewSource(1)))

	for i := 0; i < 20; i++ {
		m, err := r.SelectMove(b.Copy(), core.ColorWhite)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if !b.IsLegal(m.Start, m.End) {
			t.Fatalf("random chose illegal move %s", m)
		}
	}
}

func TestRandomIsReproducible(t *testing.T) {
	a := NewRandom(rand.New(rand.NewSource(42)))
	b := NewRandom(rand.New(rand.NewSource(42)))
	for i := 0; i < 10; i++ {
		ma, _ := a.SelectMove(board.NewStandard(), core.ColorBlack)
		mb, _ := b.SelectMove(board.NewStandard(), core.ColorBlack)
		if ma != mb {
			t.Fatalf("draw %d differs: %s vs %s", i, ma, mb)
		}
	}
}

func TestRandomResignsWithoutMoves(t *testing.T) {
	b := board.New()
	b.PlacePiece(board.NewPiece(board.King, core.ColorBlack), board.At(0, 7))
	b.PlacePiece(board.NewPiece(board.King, core.ColorWhite), board.At(1, 5))
	b.PlacePiece(board.NewPiece(board.Queen, core.ColorWhite), board.At(2, 6))

	_, err := NewRandom(rand.New(rand.NewSource(3))).SelectMove(b, core.ColorBlack)
	if !errors.Is(err, game.ErrResign) {
		t.Fatalf("expected ErrResign, got %v", err)
	}
}

func TestRandomPromotesToQueen(t *testing.T) {
	pawn := board.NewPiece(board.Pawn, core.ColorBlack)
	p, err := NewRandom(nil).SelectPromotion(board.New(), pawn, board.At(3, 0))
	if err != nil || p.Kind != board.Queen || p.Color != core.ColorBlack {
		t.Fatalf("expected black queen, got %v %v", p, err)
	}
}

func TestQueued(t *testing.T) {
	q := NewQueued()
	if _, err := q.SelectMove(board.NewStandard(), core.ColorWhite); !errors.Is(err, ErrNoMove) {
		t.Fatalf("expected ErrNoMove, got %v", err)
	}

	e2e4 := board.Move{Start: board.At(4, 1), End: board.At(4, 3)}
	a7a8 := board.Move{Start: board.At(0, 6), End: board.At(0, 7)}
	q.Push(e2e4, board.NoKind)
	q.Push(a7a8, board.Knight)
	if q.Len() != 2 {
		t.Fatalf("expected two queued moves")
	}

	m, _ := q.SelectMove(nil, core.ColorWhite)
	if m != e2e4 {
		t.Fatalf("expected e2e4, got %s", m)
	}
	pawn := board.NewPiece(board.Pawn, core.ColorWhite)
	if p, _ := q.SelectPromotion(nil, pawn, board.At(4, 7)); p.Kind != board.Queen {
		t.Fatalf("expected default queen, got %s", p.Kind)
	}

	m, _ = q.SelectMove(nil, core.ColorWhite)
	if m != a7a8 {
		t.Fatalf("expected a7a8, got %s", m)
	}
	if p, _ := q.SelectPromotion(nil, pawn, board.At(0, 7)); p.Kind != board.Knight || p.Color != core.ColorWhite {
		t.Fatalf("expected white knight, got %v", p)
	}

	q.Push(e2e4, board.NoKind)
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("clear left moves queued")
	}
}

// Replays a bot-versus-bot game move by move to confirm every recorded
// move was legal in the position it was played from.
func TestRandomGameReplays(t *testing.T) {
	for seed := int64(0); seed < 4; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := game.New(NewRandom(rng), NewRandom(rng), rng)
		results := g.Run(400)
		if len(results) == 0 {
			t.Fatalf("seed %d: no turns played", seed)
		}

		replay := board.NewStandard()
		for i, mv := range g.Moves() {
			m, promo, err := board.ParseMove(mv)
			if err != nil {
				t.Fatalf("seed %d move %d: %v", seed, i, err)
			}
			if _, err := replay.MovePiece(m.Start, m.End); err != nil {
				t.Fatalf("seed %d move %d %s: %v", seed, i, mv, err)
			}
			if promo != board.NoKind {
				p, _ := replay.PieceAt(m.End)
				replay.PlacePiece(board.Piece{Kind: promo, Color: p.Color, Moved: true}, m.End)
			}
		}
		if !replay.Equal(g.Board()) {
			t.Fatalf("seed %d: replayed board differs\n%s\nvs\n%s", seed, replay, g.Board())
		}

		last := results[len(results)-1]
		if last.State.IsOver() && last.Reason == core.ReasonIllegalMove {
			t.Fatalf("seed %d: random player forfeited by illegal move", seed)
		}
	}
}
