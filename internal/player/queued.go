// FILE: internal/player/queued.go
package player

import (
	"errors"
	"sync"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

var ErrNoMove = errors.New("no move queued")

// Pending is a move submitted by a remote or interactive human
type Pending struct {
	Move      board.Move
	Promotion board.Kind // NoKind defaults to queen
}

// Queued replays moves pushed by a transport, one per turn
type Queued struct {
	mu        sync.Mutex
	pending   []Pending
	promotion board.Kind
}

func NewQueued() *Queued {
	return &Queued{}
}

func (q *Queued) Push(m board.Move, promotion board.Kind) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, Pending{Move: m, Promotion: promotion})
}

// Len reports how many moves are waiting
func (q *Queued) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Clear drops queued moves, used when a submitted move could not be played
func (q *Queued) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}

func (q *Queued) SelectMove(b *board.Board, color core.Color) (board.Move, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return board.Move{}, ErrNoMove
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.promotion = next.Promotion
	return next.Move, nil
}

func (q *Queued) SelectPromotion(b *board.Board, pawn board.Piece, at board.Coordinate) (board.Piece, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kind := q.promotion
	if kind == board.NoKind {
		kind = board.Queen
	}
	return board.NewPiece(kind, pawn.Color), nil
}
