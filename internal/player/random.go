// FILE: internal/player/random.go
package player

import (
	"math/rand"
	"sync"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
)

// Random plays a uniformly shuffled legal move and always promotes to queen
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random mover; a nil rng is seeded from the clock
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Random{rng: rng}
}

func (r *Random) SelectMove(b *board.Board, color core.Color) (board.Move, error) {
	// Every own piece against every square, in board order so a seed replays
	var candidates []board.Move
	for _, pl := range b.Pieces() {
		if pl.Piece.Color != color {
			continue
		}
		for rank := 0; rank < board.Size; rank++ {
			for file := 0; file < board.Size; file++ {
				candidates = append(candidates, board.Move{Start: pl.At, End: board.At(file, rank)})
			}
		}
	}

	r.mu.Lock()
	r.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	r.mu.Unlock()

	for _, m := range candidates {
		if b.IsLegal(m.Start, m.End) {
			return m, nil
		}
	}
	return board.Move{}, game.ErrResign
}

func (r *Random) SelectPromotion(b *board.Board, pawn board.Piece, at board.Coordinate) (board.Piece, error) {
	return board.NewPiece(board.Queen, pawn.Color), nil
}
