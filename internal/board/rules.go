// FILE: internal/board/rules.go
package board

import "chessrules/internal/core"

// Occupancy is the read-only view of a board the movement rules need
type Occupancy interface {
	PieceAt(c Coordinate) (Piece, bool)
}

var knightVectors = [...]Coordinate{
	{-1, 2}, {1, 2}, {2, 1}, {2, -1},
	{1, -2}, {-1, -2}, {-2, -1}, {-2, 1},
}

// CanMove reports whether p may travel from start to end under its own
// movement rule. It never checks whose turn it is or whether the move
// exposes the mover's king; Board.MovePiece does that.
func (p Piece) CanMove(start, end Coordinate, b Occupancy) bool {
	if _, ok := b.PieceAt(start); !ok {
		return false
	}

	switch p.Kind {
	case Pawn:
		return p.pawnCanMove(start, end, b)
	case Knight:
		return p.knightCanMove(start, end, b)
	case Bishop:
		return p.bishopCanMove(start, end, b)
	case Rook:
		return p.rookCanMove(start, end, b)
	case Queen:
		return p.rookCanMove(start, end, b) || p.bishopCanMove(start, end, b)
	case King:
		return p.kingCanMove(start, end, b)
	default:
		return false
	}
}

// forward is the single-step pawn vector for the piece's color
func (p Piece) forward() Coordinate {
	if p.Color == core.ColorWhite {
		return Coordinate{0, 1}
	}
	return Coordinate{0, -1}
}

func (p Piece) pawnCanMove(start, end Coordinate, b Occupancy) bool {
	fwd := p.forward()
	rel := end.Sub(start)
	target, occupied := b.PieceAt(end)

	switch rel {
	case fwd:
		return !occupied
	case fwd.Add(Coordinate{-1, 0}), fwd.Add(Coordinate{1, 0}):
		return occupied && target.Color != p.Color
	case fwd.Add(fwd):
		if p.Moved || occupied {
			return false
		}
		_, blocked := b.PieceAt(start.Add(fwd))
		return !blocked
	}
	return false
}

func (p Piece) knightCanMove(start, end Coordinate, b Occupancy) bool {
	rel := end.Sub(start)
	for _, v := range knightVectors {
		if rel == v {
			return p.canLandOn(end, b)
		}
	}
	return false
}

func (p Piece) bishopCanMove(start, end Coordinate, b Occupancy) bool {
	rel := end.Sub(start)
	if rel.File == 0 || abs(rel.File) != abs(rel.Rank) {
		return false
	}
	return pathClear(start, end, b) && p.canLandOn(end, b)
}

func (p Piece) rookCanMove(start, end Coordinate, b Occupancy) bool {
	rel := end.Sub(start)
	if (rel.File == 0) == (rel.Rank == 0) {
		return false
	}
	return pathClear(start, end, b) && p.canLandOn(end, b)
}

func (p Piece) kingCanMove(start, end Coordinate, b Occupancy) bool {
	rel := end.Sub(start)
	if abs(rel.File) > 1 || abs(rel.Rank) > 1 || rel == (Coordinate{}) {
		return false
	}
	return p.canLandOn(end, b)
}

// canLandOn reports whether end is empty or holds an opposing piece
func (p Piece) canLandOn(end Coordinate, b Occupancy) bool {
	target, occupied := b.PieceAt(end)
	return !occupied || target.Color != p.Color
}

// pathClear walks the straight or diagonal ray from start towards end and
// reports whether every square strictly between them is empty
func pathClear(start, end Coordinate, b Occupancy) bool {
	rel := end.Sub(start)
	step := Coordinate{sign(rel.File), sign(rel.Rank)}

	for c := start.Add(step); c != end; c = c.Add(step) {
		if _, occupied := b.PieceAt(c); occupied {
			return false
		}
	}
	return true
}
