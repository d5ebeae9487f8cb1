// FILE: internal/board/coordinate.go
package board

import "fmt"

// Size is the number of files and ranks on the board
const Size = 8

// Coordinate is a (file, rank) pair. File 0 is the a-file and rank 0 is
// White's back rank. Coordinates double as relative move vectors.
type Coordinate struct {
	File int
	Rank int
}

// At is shorthand for Coordinate{File: file, Rank: rank}
func At(file, rank int) Coordinate {
	return Coordinate{File: file, Rank: rank}
}

func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{File: c.File + o.File, Rank: c.Rank + o.Rank}
}

func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{File: c.File - o.File, Rank: c.Rank - o.Rank}
}

// InBounds reports whether c lies on the 8x8 grid
func (c Coordinate) InBounds() bool {
	return c.File >= 0 && c.File < Size && c.Rank >= 0 && c.Rank < Size
}

// String renders the algebraic label, e.g. "e4". Off-board coordinates
// fall back to the raw pair so error messages stay unambiguous.
func (c Coordinate) String() string {
	if !c.InBounds() {
		return fmt.Sprintf("(%d,%d)", c.File, c.Rank)
	}
	return fmt.Sprintf("%c%c", 'a'+c.File, '1'+c.Rank)
}

// ParseSquare parses an algebraic label such as "e4"
func ParseSquare(s string) (Coordinate, error) {
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("invalid square %q: expected 2 characters", s)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Coordinate{}, fmt.Errorf("invalid square %q", s)
	}
	return Coordinate{File: int(s[0] - 'a'), Rank: int(s[1] - '1')}, nil
}

// Move is a start/end pair as chosen by a player
type Move struct {
	Start Coordinate
	End   Coordinate
}

func (m Move) String() string {
	return m.Start.String() + m.End.String()
}

// ParseMove parses coordinate notation like "e2e4". A fifth character, if
// present, names a promotion piece and is returned separately.
func ParseMove(s string) (Move, Kind, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, NoKind, fmt.Errorf("invalid move %q: expected 4-5 characters", s)
	}

	start, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, NoKind, err
	}
	end, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, NoKind, err
	}

	promotion := NoKind
	if len(s) == 5 {
		kind, ok := KindFromLetter(s[4])
		if !ok || kind == Pawn || kind == King {
			return Move{}, NoKind, fmt.Errorf("invalid promotion piece %q", s[4])
		}
		promotion = kind
	}

	return Move{Start: start, End: end}, promotion, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
