// FILE: internal/board/piece.go
package board

import (
	"chessrules/internal/core"
)

// Kind identifies the movement rule a piece follows. The zero value means
// "no piece" so an unset Piece is never mistaken for a pawn.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Letter returns the lowercase FEN letter for the kind
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return '?'
	}
}

// KindFromLetter accepts FEN letters in either case
func KindFromLetter(ch byte) (Kind, bool) {
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	switch ch {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	default:
		return NoKind, false
	}
}

// Piece is a value type; the board stores copies, so copying a board never
// aliases pieces. Moved only affects the pawn double step.
type Piece struct {
	Kind  Kind
	Color core.Color
	Moved bool
}

func NewPiece(kind Kind, color core.Color) Piece {
	return Piece{Kind: kind, Color: color}
}

func (p Piece) IsZero() bool {
	return p.Kind == NoKind
}

// FENLetter returns the FEN letter, uppercase for White
func (p Piece) FENLetter() byte {
	ch := p.Kind.Letter()
	if p.Color == core.ColorWhite {
		ch -= 'a' - 'A'
	}
	return ch
}

// String renders the color-prefixed form used by Board.String, e.g. "wN"
func (p Piece) String() string {
	letter := p.Kind.Letter() - ('a' - 'A')
	return p.Color.String() + string(letter)
}
