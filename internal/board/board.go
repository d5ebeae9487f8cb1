// FILE: internal/board/board.go
package board

import (
	"fmt"
	"sort"
	"strings"

	"chessrules/internal/core"
)

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is a sparse occupancy store; empty squares are simply absent
type Board struct {
	squares map[Coordinate]Piece
}

// Placement pairs a piece with the square it occupies
type Placement struct {
	Piece Piece
	At    Coordinate
}

// New returns an empty board
func New() *Board {
	return &Board{squares: make(map[Coordinate]Piece, Size*Size)}
}

// NewStandard returns the 32-piece starting position
func NewStandard() *Board {
	b := New()
	for file, kind := range backRank {
		b.squares[At(file, 0)] = NewPiece(kind, core.ColorWhite)
		b.squares[At(file, 1)] = NewPiece(Pawn, core.ColorWhite)
		b.squares[At(file, 6)] = NewPiece(Pawn, core.ColorBlack)
		b.squares[At(file, 7)] = NewPiece(kind, core.ColorBlack)
	}
	return b
}

func (b *Board) PieceAt(c Coordinate) (Piece, bool) {
	p, ok := b.squares[c]
	return p, ok
}

// Len returns the number of occupied squares
func (b *Board) Len() int {
	return len(b.squares)
}

// Pieces lists every occupied square ordered by rank then file, so callers
// that enumerate moves get a reproducible order
func (b *Board) Pieces() []Placement {
	out := make([]Placement, 0, len(b.squares))
	for at, p := range b.squares {
		out = append(out, Placement{Piece: p, At: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Rank != out[j].At.Rank {
			return out[i].At.Rank < out[j].At.Rank
		}
		return out[i].At.File < out[j].At.File
	})
	return out
}

// PlacePiece puts p on at, returning whatever was there before
func (b *Board) PlacePiece(p Piece, at Coordinate) (*Piece, error) {
	if !at.InBounds() {
		return nil, fmt.Errorf("cannot place %s at %s: out of bounds", p, at)
	}
	if p.IsZero() {
		return nil, fmt.Errorf("cannot place empty piece at %s", at)
	}

	var previous *Piece
	if prev, ok := b.squares[at]; ok {
		previous = &prev
	}
	b.squares[at] = p
	return previous, nil
}

// RemovePiece clears at and returns the piece that stood there
func (b *Board) RemovePiece(at Coordinate) (Piece, bool) {
	p, ok := b.squares[at]
	if ok {
		delete(b.squares, at)
	}
	return p, ok
}

// Copy returns a deep, independent snapshot
func (b *Board) Copy() *Board {
	c := &Board{squares: make(map[Coordinate]Piece, len(b.squares))}
	for at, p := range b.squares {
		c.squares[at] = p
	}
	return c
}

// Equal reports whether both boards hold identical pieces on identical squares
func (b *Board) Equal(o *Board) bool {
	if len(b.squares) != len(o.squares) {
		return false
	}
	for at, p := range b.squares {
		if q, ok := o.squares[at]; !ok || q != p {
			return false
		}
	}
	return true
}

// validate runs every check MovePiece performs except the self-check test
func (b *Board) validate(start, end Coordinate) (Piece, error) {
	if !start.InBounds() || !end.InBounds() {
		return Piece{}, illegal(start, end, "out of bounds")
	}
	if start == end {
		return Piece{}, illegal(start, end, "start and end are the same square")
	}

	piece, ok := b.squares[start]
	if !ok {
		return Piece{}, illegal(start, end, "no piece on start square")
	}
	if !piece.CanMove(start, end, b) {
		return Piece{}, illegal(start, end, fmt.Sprintf("%s cannot move that way", piece.Kind))
	}
	return piece, nil
}

// MovePiece validates and applies a move. Self check is evaluated on a
// scratch copy first, so a rejected move never touches this board.
func (b *Board) MovePiece(start, end Coordinate) (*Piece, error) {
	piece, err := b.validate(start, end)
	if err != nil {
		return nil, err
	}

	trial := b.Copy()
	trial.apply(start, end)
	if trial.InCheck(piece.Color) {
		return nil, illegal(start, end, "move leaves own king in check")
	}

	return b.apply(start, end), nil
}

// apply relocates the piece unconditionally and marks it moved
func (b *Board) apply(start, end Coordinate) *Piece {
	piece := b.squares[start]
	delete(b.squares, start)

	var captured *Piece
	if prev, ok := b.squares[end]; ok {
		captured = &prev
	}

	piece.Moved = true
	b.squares[end] = piece
	return captured
}

// IsLegal reports whether MovePiece would accept the move
func (b *Board) IsLegal(start, end Coordinate) bool {
	piece, err := b.validate(start, end)
	if err != nil {
		return false
	}
	trial := b.Copy()
	trial.apply(start, end)
	return !trial.InCheck(piece.Color)
}

// InCheck scans every opposing piece for one that reaches the king at kingPos
func (p Piece) InCheck(kingPos Coordinate, b *Board) bool {
	for at, other := range b.squares {
		if other.Color != p.Color && other.CanMove(at, kingPos, b) {
			return true
		}
	}
	return false
}

// InCheck reports whether any king of the given color is attacked
func (b *Board) InCheck(color core.Color) bool {
	for at, p := range b.squares {
		if p.Kind == King && p.Color == color && p.InCheck(at, b) {
			return true
		}
	}
	return false
}

// PlayersInCheck returns the colors whose king is attacked, White first
func (b *Board) PlayersInCheck() []core.Color {
	var colors []core.Color
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if b.InCheck(c) {
			colors = append(colors, c)
		}
	}
	return colors
}

// PlayerInCheckmate is the brute-force test: true iff no piece of color has
// any destination its movement rule allows. It does not look at check, so a
// stalemated side is reported too; see HasLegalMove for the stricter test.
func (b *Board) PlayerInCheckmate(color core.Color) bool {
	for at, p := range b.squares {
		if p.Color != color {
			continue
		}
		for file := 0; file < Size; file++ {
			for rank := 0; rank < Size; rank++ {
				if p.CanMove(at, At(file, rank), b) {
					return false
				}
			}
		}
	}
	return true
}

// LegalMoves enumerates every move MovePiece would accept for color
func (b *Board) LegalMoves(color core.Color) []Move {
	var moves []Move
	for _, pl := range b.Pieces() {
		if pl.Piece.Color != color {
			continue
		}
		for rank := 0; rank < Size; rank++ {
			for file := 0; file < Size; file++ {
				end := At(file, rank)
				if b.IsLegal(pl.At, end) {
					moves = append(moves, Move{Start: pl.At, End: end})
				}
			}
		}
	}
	return moves
}

// HasLegalMove stops at the first move MovePiece would accept
func (b *Board) HasLegalMove(color core.Color) bool {
	for at, p := range b.squares {
		if p.Color != color {
			continue
		}
		for file := 0; file < Size; file++ {
			for rank := 0; rank < Size; rank++ {
				if b.IsLegal(at, At(file, rank)) {
					return true
				}
			}
		}
	}
	return false
}

// OnlyKings reports whether nothing but kings remain
func (b *Board) OnlyKings() bool {
	for _, p := range b.squares {
		if p.Kind != King {
			return false
		}
	}
	return true
}

// PromotionSquares lists pawns standing on their farthest rank
func (b *Board) PromotionSquares() []Placement {
	var out []Placement
	for _, pl := range b.Pieces() {
		if pl.Piece.Kind != Pawn {
			continue
		}
		if (pl.Piece.Color == core.ColorWhite && pl.At.Rank == Size-1) ||
			(pl.Piece.Color == core.ColorBlack && pl.At.Rank == 0) {
			out = append(out, pl)
		}
	}
	return out
}

// String renders rank 8 down to rank 1 with color-prefixed piece letters
func (b *Board) String() string {
	var sb strings.Builder
	for rank := Size - 1; rank >= 0; rank-- {
		sb.WriteString(fmt.Sprintf("%d ", rank+1))
		for file := 0; file < Size; file++ {
			if p, ok := b.squares[At(file, rank)]; ok {
				sb.WriteString(p.String())
			} else {
				sb.WriteString(" .")
			}
			if file < Size-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a  b  c  d  e  f  g  h")
	return sb.String()
}

// ToASCII creates an ASCII representation of the board using FEN letters
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := Size - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < Size; f++ {
			if p, ok := b.squares[At(f, r)]; ok {
				sb.WriteString(fmt.Sprintf("%c ", p.FENLetter()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
