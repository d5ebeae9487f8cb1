// FILE: internal/player/engine.go
package player

import (
	"context"
	"log"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
	"chessrules/internal/game"
)

// Searcher is the part of a UCI engine an Engine player needs
type Searcher interface {
	BestMove(ctx context.Context, fen string, moveTime time.Duration) (*engine.SearchResult, error)
}

// Engine asks an external engine for each move. When the engine fails or
// proposes a move these rules reject, the fallback player moves instead.
type Engine struct {
	uci       Searcher
	moveTime  time.Duration
	fallback  game.Player
	promotion board.Kind
}

func NewEngine(uci Searcher, moveTime time.Duration, fallback game.Player) *Engine {
	return &Engine{uci: uci, moveTime: moveTime, fallback: fallback}
}

func (e *Engine) SelectMove(b *board.Board, color core.Color) (board.Move, error) {
	e.promotion = board.NoKind

	ctx, cancel := context.WithTimeout(context.Background(), 2*e.moveTime+time.Second)
	defer cancel()

	// Castling and en passant are not part of these rules, so the FEN
	// never offers them and every engine move is playable here
	res, err := e.uci.BestMove(ctx, b.FEN(color, 1), e.moveTime)
	if err != nil {
		log.Printf("Engine search failed, falling back: %v", err)
		return e.fallback.SelectMove(b, color)
	}

	m, promo, err := board.ParseMove(res.BestMove)
	if err != nil || !b.IsLegal(m.Start, m.End) {
		log.Printf("Engine move %q rejected, falling back", res.BestMove)
		return e.fallback.SelectMove(b, color)
	}

	e.promotion = promo
	return m, nil
}

func (e *Engine) SelectPromotion(b *board.Board, pawn board.Piece, at board.Coordinate) (board.Piece, error) {
	if e.promotion == board.NoKind {
		return e.fallback.SelectPromotion(b, pawn, at)
	}
	return board.NewPiece(e.promotion, pawn.Color), nil
}
