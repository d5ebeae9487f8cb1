// FILE: internal/board/fen.go
package board

import (
	"fmt"
	"strings"

	"chessrules/internal/core"

	"github.com/notnil/chess"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
)

var kindByType = map[chess.PieceType]Kind{
	chess.Pawn:   Pawn,
	chess.Knight: Knight,
	chess.Bishop: Bishop,
	chess.Rook:   Rook,
	chess.Queen:  Queen,
	chess.King:   King,
}

// ParseFEN decodes a FEN string into a board and the side to move. A bare
// piece-placement field is accepted and treated as White to move. Castling
// and en passant fields are parsed for validity but otherwise ignored.
func ParseFEN(fen string) (*Board, core.Color, error) {
	fen = strings.TrimSpace(fen)
	if len(strings.Fields(fen)) == 1 {
		fen += " w - - 0 1"
	}

	// Position only, no move generation, so king-less boards decode too
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return nil, 0, fmt.Errorf("invalid FEN: %w", err)
	}

	b := New()
	for sq, pc := range pos.Board().SquareMap() {
		kind, ok := kindByType[pc.Type()]
		if !ok {
			continue
		}
		color := core.ColorWhite
		if pc.Color() == chess.Black {
			color = core.ColorBlack
		}

		at := At(int(sq.File()), int(sq.Rank()))
		p := NewPiece(kind, color)
		// A pawn off its home rank has necessarily moved
		if kind == Pawn {
			home := 1
			if color == core.ColorBlack {
				home = Size - 2
			}
			p.Moved = at.Rank != home
		}
		b.squares[at] = p
	}

	turn := core.ColorWhite
	if pos.Turn() == chess.Black {
		turn = core.ColorBlack
	}
	return b, turn, nil
}

// Placement returns the FEN piece-placement field
func (b *Board) Placement() string {
	var sb strings.Builder
	for r := Size - 1; r >= 0; r-- {
		empty := 0
		for f := 0; f < Size; f++ {
			p, ok := b.squares[At(f, r)]
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.FENLetter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// FEN returns a full FEN string for the position with turn to move. Castling
// and en passant are not modelled and always render as "-".
func (b *Board) FEN(turn core.Color, fullmove int) string {
	if fullmove < 1 {
		fullmove = 1
	}
	return fmt.Sprintf("%s %s - - 0 %d", b.Placement(), turn, fullmove)
}
