// FILE: internal/game/player.go
package game

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Player is the contract a move-selection strategy fulfils. Both calls
// receive a private copy of the board which the player may freely modify.
type Player interface {
	// SelectMove returns the move to play for color, or ErrResign
	SelectMove(b *board.Board, color core.Color) (board.Move, error)
	// SelectPromotion returns the piece replacing pawn on at. It must be a
	// knight, bishop, rook or queen of the pawn's color.
	SelectPromotion(b *board.Board, pawn board.Piece, at board.Coordinate) (board.Piece, error)
}

func validatePromotion(pawn, replacement board.Piece) string {
	switch {
	case replacement.IsZero():
		return "no promotion piece supplied"
	case replacement.Color != pawn.Color:
		return "promotion piece has the wrong color"
	case replacement.Kind == board.Pawn, replacement.Kind == board.King:
		return "cannot promote to " + replacement.Kind.String()
	}
	return ""
}
