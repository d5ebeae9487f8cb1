package board

import (
	"errors"
	"testing"

	"chessrules/internal/core"
)

func place(t *testing.T, b *Board, kind Kind, color core.Color, file, rank int) {
	t.Helper()
	if _, err := b.PlacePiece(NewPiece(kind, color), At(file, rank)); err != nil {
		t.Fatalf("place %s at (%d,%d): %v", kind, file, rank, err)
	}
}

func TestCoordinate(t *testing.T) {
	c := At(4, 1)
	if got := c.String(); got != "e2" {
		t.Fatalf("expected e2, got %s", got)
	}
	if got := c.Add(At(0, 2)); got != At(4, 3) {
		t.Fatalf("add: got %v", got)
	}
	if got := At(4, 3).Sub(c); got != At(0, 2) {
		t.Fatalf("sub: got %v", got)
	}
	if At(8, 0).InBounds() || At(0, -1).InBounds() || !At(7, 7).InBounds() {
		t.Fatalf("bounds check wrong")
	}

	sq, err := ParseSquare("h8")
	if err != nil || sq != At(7, 7) {
		t.Fatalf("parse h8: %v %v", sq, err)
	}
	for _, bad := range []string{"", "i1", "a9", "a", "a10"} {
		if _, err := ParseSquare(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseMove(t *testing.T) {
	m, promo, err := ParseMove("e7e8q")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Start != At(4, 6) || m.End != At(4, 7) || promo != Queen {
		t.Fatalf("unexpected parse result %v %v", m, promo)
	}
	if m.String() != "e7e8" {
		t.Fatalf("expected e7e8, got %s", m)
	}
	for _, bad := range []string{"e2", "e2e9", "e7e8k", "e7e8p", "e2e4qq"} {
		if _, _, err := ParseMove(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

// allowed returns the destinations a lone piece at start may reach on an
// otherwise empty board
func allowed(kind Kind, color core.Color, moved bool, start Coordinate) map[Coordinate]bool {
	out := make(map[Coordinate]bool)
	for f := 0; f < Size; f++ {
		for r := 0; r < Size; r++ {
			end := At(f, r)
			rel := end.Sub(start)
			df, dr := abs(rel.File), abs(rel.Rank)
			if rel == (Coordinate{}) {
				continue
			}
			ok := false
			switch kind {
			case Knight:
				ok = (df == 1 && dr == 2) || (df == 2 && dr == 1)
			case Bishop:
				ok = df == dr
			case Rook:
				ok = df == 0 || dr == 0
			case Queen:
				ok = df == dr || df == 0 || dr == 0
			case King:
				ok = df <= 1 && dr <= 1
			case Pawn:
				dir := 1
				if color == core.ColorBlack {
					dir = -1
				}
				ok = rel.File == 0 && (rel.Rank == dir || (!moved && rel.Rank == 2*dir))
			}
			if ok {
				out[end] = true
			}
		}
	}
	return out
}

func TestCanMoveVectorTables(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		color core.Color
		moved bool
		start Coordinate
	}{
		{"Knight", Knight, core.ColorWhite, false, At(3, 3)},
		{"KnightCorner", Knight, core.ColorBlack, false, At(0, 0)},
		{"Bishop", Bishop, core.ColorWhite, false, At(2, 5)},
		{"Rook", Rook, core.ColorBlack, false, At(0, 7)},
		{"Queen", Queen, core.ColorWhite, false, At(3, 4)},
		{"King", King, core.ColorBlack, false, At(4, 4)},
		{"KingEdge", King, core.ColorWhite, false, At(7, 0)},
		{"WhitePawnUnmoved", Pawn, core.ColorWhite, false, At(1, 1)},
		{"WhitePawnMoved", Pawn, core.ColorWhite, true, At(1, 3)},
		{"BlackPawnUnmoved", Pawn, core.ColorBlack, false, At(6, 6)},
		{"BlackPawnMoved", Pawn, core.ColorBlack, true, At(6, 4)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			p := Piece{Kind: tt.kind, Color: tt.color, Moved: tt.moved}
			if _, err := b.PlacePiece(p, tt.start); err != nil {
				t.Fatalf("place: %v", err)
			}
			want := allowed(tt.kind, tt.color, tt.moved, tt.start)

			for f := 0; f < Size; f++ {
				for r := 0; r < Size; r++ {
					end := At(f, r)
					if got := p.CanMove(tt.start, end, b); got != want[end] {
						t.Errorf("%s -> %s: expected %v, got %v", tt.start, end, want[end], got)
					}
				}
			}
		})
	}
}

func TestCanMoveEmptyStart(t *testing.T) {
	b := New()
	for _, kind := range []Kind{Pawn, Knight, Bishop, Rook, Queen, King} {
		p := NewPiece(kind, core.ColorWhite)
		if p.CanMove(At(3, 3), At(3, 4), b) {
			t.Errorf("%s moved from an empty square", kind)
		}
	}
}

func TestPawnCaptureRules(t *testing.T) {
	b := New()
	place(t, b, Pawn, core.ColorWhite, 3, 3)
	place(t, b, Pawn, core.ColorBlack, 4, 4)
	place(t, b, Knight, core.ColorWhite, 2, 4)
	place(t, b, Rook, core.ColorBlack, 3, 4)

	pawn, _ := b.PieceAt(At(3, 3))
	if !pawn.CanMove(At(3, 3), At(4, 4), b) {
		t.Errorf("expected diagonal capture of opposing pawn")
	}
	if pawn.CanMove(At(3, 3), At(2, 4), b) {
		t.Errorf("captured own knight")
	}
	if pawn.CanMove(At(3, 3), At(3, 4), b) {
		t.Errorf("moved straight into an occupied square")
	}

	black, _ := b.PieceAt(At(4, 4))
	if !black.CanMove(At(4, 4), At(3, 3), b) {
		t.Errorf("expected black pawn to capture downwards")
	}
	if black.CanMove(At(4, 4), At(5, 5), b) {
		t.Errorf("black pawn moved backwards")
	}
}

func TestPawnDoubleStepBlocked(t *testing.T) {
	b := NewStandard()
	place(t, b, Knight, core.ColorBlack, 0, 2)

	if _, err := b.MovePiece(At(0, 1), At(0, 3)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected double step over a piece to fail, got %v", err)
	}
}

func TestSlidingObstruction(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		start   Coordinate
		end     Coordinate
		blocker Coordinate
	}{
		{"RookFile", Rook, At(0, 0), At(0, 6), At(0, 3)},
		{"RookRank", Rook, At(7, 4), At(1, 4), At(5, 4)},
		{"BishopDiagonal", Bishop, At(2, 0), At(7, 5), At(4, 2)},
		{"BishopAnti", Bishop, At(6, 6), At(1, 1), At(3, 3)},
		{"QueenStraight", Queen, At(3, 0), At(3, 7), At(3, 6)},
		{"QueenDiagonal", Queen, At(0, 7), At(6, 1), At(1, 6)},
	}

	for _, tt := range tests {
		tt := tt
		for _, blockerColor := range []core.Color{core.ColorWhite, core.ColorBlack} {
			blockerColor := blockerColor
			t.Run(tt.name+"/"+blockerColor.Name(), func(t *testing.T) {
				b := New()
				place(t, b, tt.kind, core.ColorWhite, tt.start.File, tt.start.Rank)
				place(t, b, Pawn, blockerColor, tt.blocker.File, tt.blocker.Rank)

				p, _ := b.PieceAt(tt.start)
				if p.CanMove(tt.start, tt.end, b) {
					t.Fatalf("expected %s blocked by piece at %s", tt.kind, tt.blocker)
				}

				b.RemovePiece(tt.blocker)
				if !p.CanMove(tt.start, tt.end, b) {
					t.Fatalf("expected %s free once %s is cleared", tt.kind, tt.blocker)
				}
				if _, err := b.MovePiece(tt.start, tt.end); err != nil {
					t.Fatalf("move after clearing: %v", err)
				}
			})
		}
	}
}

func TestOpeningPawnMoves(t *testing.T) {
	b := NewStandard()
	if b.IsLegal(At(0, 1), At(0, 4)) {
		t.Fatalf("a2-a5 must be illegal")
	}
	if _, err := b.MovePiece(At(0, 1), At(0, 4)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected illegal move error, got %v", err)
	}

	captured, err := b.MovePiece(At(0, 1), At(0, 3))
	if err != nil {
		t.Fatalf("a2-a4: %v", err)
	}
	if captured != nil {
		t.Fatalf("expected no capture, got %v", captured)
	}

	p, ok := b.PieceAt(At(0, 3))
	if !ok || p.Kind != Pawn || !p.Moved {
		t.Fatalf("expected moved pawn on a4, got %+v", p)
	}
	if b.IsLegal(At(0, 3), At(0, 5)) {
		t.Fatalf("moved pawn may not double step")
	}
}

func TestMovePieceRejectsAndLeavesBoardUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		start Coordinate
		end   Coordinate
	}{
		{"OutOfBoundsStart", At(-1, 0), At(0, 0)},
		{"OutOfBoundsEnd", At(1, 0), At(1, 8)},
		{"SameSquare", At(1, 0), At(1, 0)},
		{"EmptyStart", At(4, 4), At(4, 5)},
		{"RuleViolation", At(1, 0), At(1, 2)},
		{"OwnPieceCapture", At(0, 0), At(0, 1)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := NewStandard()
			before := b.Copy()

			captured, err := b.MovePiece(tt.start, tt.end)
			if err == nil {
				t.Fatalf("expected failure")
			}
			var ime *IllegalMoveError
			if !errors.As(err, &ime) || ime.Start != tt.start || ime.End != tt.end {
				t.Fatalf("expected IllegalMoveError with coordinates, got %v", err)
			}
			if captured != nil {
				t.Fatalf("unexpected capture %v", captured)
			}
			if !b.Equal(before) || b.Len() != 32 {
				t.Fatalf("board changed after rejected move")
			}
		})
	}
}

func TestSelfCheckRejected(t *testing.T) {
	b := New()
	place(t, b, King, core.ColorWhite, 4, 0)
	place(t, b, Rook, core.ColorWhite, 4, 1)
	place(t, b, Rook, core.ColorBlack, 4, 7)
	place(t, b, Knight, core.ColorBlack, 0, 1)
	place(t, b, King, core.ColorBlack, 0, 7)
	before := b.Copy()

	// Pinned rook captures sideways, exposing its king along the e-file
	_, err := b.MovePiece(At(4, 1), At(0, 1))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected self-check rejection, got %v", err)
	}
	if !b.Equal(before) {
		t.Fatalf("board not restored")
	}
	knight, ok := b.PieceAt(At(0, 1))
	if !ok || knight.Kind != Knight || knight.Color != core.ColorBlack {
		t.Fatalf("captured knight not restored, got %+v", knight)
	}

	// Capturing along the pin line stays legal
	captured, err := b.MovePiece(At(4, 1), At(4, 7))
	if err != nil {
		t.Fatalf("capture along pin: %v", err)
	}
	if captured == nil || captured.Kind != Rook || captured.Color != core.ColorBlack {
		t.Fatalf("expected black rook captured, got %v", captured)
	}
}

func TestKingMayNotStepIntoCheck(t *testing.T) {
	b := New()
	place(t, b, King, core.ColorWhite, 4, 0)
	place(t, b, Rook, core.ColorBlack, 3, 7)

	if b.IsLegal(At(4, 0), At(3, 0)) {
		t.Fatalf("king stepped onto an attacked file")
	}
	if !b.IsLegal(At(4, 0), At(5, 1)) {
		t.Fatalf("expected f2 to be safe")
	}
}

func TestPlayersInCheck(t *testing.T) {
	b := New()
	place(t, b, King, core.ColorWhite, 6, 6)
	place(t, b, Rook, core.ColorBlack, 6, 0)

	got := b.PlayersInCheck()
	if len(got) != 1 || got[0] != core.ColorWhite {
		t.Fatalf("expected white in check, got %v", got)
	}

	place(t, b, Pawn, core.ColorWhite, 6, 3)
	if got := b.PlayersInCheck(); len(got) != 0 {
		t.Fatalf("expected blocked check, got %v", got)
	}

	// Contrived position with both kings attacked
	b = New()
	place(t, b, King, core.ColorWhite, 0, 0)
	place(t, b, Rook, core.ColorBlack, 0, 5)
	place(t, b, King, core.ColorBlack, 7, 7)
	place(t, b, Bishop, core.ColorWhite, 4, 4)
	if got := b.PlayersInCheck(); len(got) != 2 {
		t.Fatalf("expected both colors in check, got %v", got)
	}
}

func TestMixedPositionCaptures(t *testing.T) {
	b := New()
	place(t, b, Pawn, core.ColorBlack, 0, 2)
	place(t, b, Pawn, core.ColorWhite, 1, 1)
	place(t, b, Knight, core.ColorBlack, 1, 4)
	place(t, b, Bishop, core.ColorWhite, 3, 5)
	place(t, b, Rook, core.ColorBlack, 0, 5)
	place(t, b, Queen, core.ColorBlack, 5, 2)
	place(t, b, Queen, core.ColorWhite, 2, 0)
	place(t, b, King, core.ColorWhite, 6, 6)

	if got := b.PlayersInCheck(); len(got) != 0 {
		t.Fatalf("expected nobody in check, got %v", got)
	}

	captured, err := b.MovePiece(At(1, 1), At(0, 2))
	if err != nil {
		t.Fatalf("pawn capture: %v", err)
	}
	if captured == nil || captured.Kind != Pawn {
		t.Fatalf("expected pawn captured, got %v", captured)
	}

	if _, err := b.MovePiece(At(1, 4), At(0, 2)); err != nil {
		t.Fatalf("knight recapture: %v", err)
	}
	if _, err := b.MovePiece(At(3, 5), At(0, 2)); err != nil {
		t.Fatalf("bishop recapture: %v", err)
	}
	if _, err := b.MovePiece(At(0, 5), At(0, 2)); err != nil {
		t.Fatalf("rook recapture: %v", err)
	}

	// Queen on c1 to a3 is a diagonal with b2 now empty
	if _, err := b.MovePiece(At(2, 0), At(0, 2)); err != nil {
		t.Fatalf("queen recapture: %v", err)
	}
	// f3 to a3 runs along the third rank
	if _, err := b.MovePiece(At(5, 2), At(0, 2)); err != nil {
		t.Fatalf("black queen recapture: %v", err)
	}

	if b.Len() != 2 {
		t.Fatalf("expected two pieces left, got %d", b.Len())
	}
}

func TestPlayerInCheckmateMatchesBruteForce(t *testing.T) {
	boards := map[string]*Board{
		"Standard": NewStandard(),
	}

	// Black king boxed in the corner by its own pawns and a rook on the back rank
	mate := New()
	mate.PlacePiece(NewPiece(King, core.ColorBlack), At(7, 7))
	mate.PlacePiece(Piece{Kind: Pawn, Color: core.ColorBlack, Moved: true}, At(6, 6))
	mate.PlacePiece(Piece{Kind: Pawn, Color: core.ColorBlack, Moved: true}, At(7, 6))
	mate.PlacePiece(Piece{Kind: Pawn, Color: core.ColorWhite, Moved: true}, At(6, 5))
	mate.PlacePiece(Piece{Kind: Pawn, Color: core.ColorWhite, Moved: true}, At(7, 5))
	mate.PlacePiece(NewPiece(Rook, core.ColorWhite), At(0, 7))
	mate.PlacePiece(NewPiece(King, core.ColorWhite), At(0, 0))
	boards["Mate"] = mate

	for name, b := range boards {
		for _, color := range []core.Color{core.ColorWhite, core.ColorBlack} {
			any := false
			for _, pl := range b.Pieces() {
				if pl.Piece.Color != color {
					continue
				}
				for f := 0; f < Size; f++ {
					for r := 0; r < Size; r++ {
						if pl.Piece.CanMove(pl.At, At(f, r), b) {
							any = true
						}
					}
				}
			}
			if got := b.PlayerInCheckmate(color); got != !any {
				t.Errorf("%s/%s: PlayerInCheckmate=%v, brute force says any-move=%v", name, color.Name(), got, any)
			}
		}
	}

	if !mate.InCheck(core.ColorBlack) {
		t.Fatalf("expected black in check")
	}
	if mate.HasLegalMove(core.ColorBlack) {
		t.Fatalf("expected no legal move for black")
	}
}

func TestStalemateDistinguishedFromCheck(t *testing.T) {
	b := New()
	place(t, b, King, core.ColorBlack, 7, 7)
	place(t, b, Queen, core.ColorWhite, 5, 6)
	place(t, b, King, core.ColorWhite, 5, 5)

	if b.InCheck(core.ColorBlack) {
		t.Fatalf("black must not be in check")
	}
	if b.HasLegalMove(core.ColorBlack) {
		t.Fatalf("black must have no legal move")
	}
	// The raw rule scan still finds king steps that walk into check
	if b.PlayerInCheckmate(core.ColorBlack) {
		t.Fatalf("rule-only scan should see pseudo-legal king moves")
	}
}

func TestLegalMovesFromStart(t *testing.T) {
	b := NewStandard()
	moves := b.LegalMoves(core.ColorWhite)
	if len(moves) != 20 {
		t.Fatalf("expected 20 opening moves, got %d", len(moves))
	}
	again := b.LegalMoves(core.ColorWhite)
	for i := range moves {
		if moves[i] != again[i] {
			t.Fatalf("move order not stable at %d", i)
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b := NewStandard()
	c := b.Copy()

	if _, err := c.MovePiece(At(4, 1), At(4, 3)); err != nil {
		t.Fatalf("move on copy: %v", err)
	}
	if p, _ := b.PieceAt(At(4, 1)); p.Kind != Pawn || p.Moved {
		t.Fatalf("original board changed through copy")
	}
	if b.Equal(c) {
		t.Fatalf("expected boards to differ")
	}
}

func TestOnlyKingsAndPromotionSquares(t *testing.T) {
	b := New()
	place(t, b, King, core.ColorWhite, 0, 0)
	place(t, b, King, core.ColorBlack, 7, 7)
	if !b.OnlyKings() {
		t.Fatalf("expected only kings")
	}

	b.PlacePiece(Piece{Kind: Pawn, Color: core.ColorWhite, Moved: true}, At(3, 7))
	b.PlacePiece(Piece{Kind: Pawn, Color: core.ColorBlack, Moved: true}, At(4, 0))
	b.PlacePiece(Piece{Kind: Pawn, Color: core.ColorBlack, Moved: true}, At(5, 7))
	if b.OnlyKings() {
		t.Fatalf("pawns present")
	}

	promos := b.PromotionSquares()
	if len(promos) != 2 {
		t.Fatalf("expected 2 promotion squares, got %v", promos)
	}
	if promos[0].At != At(4, 0) || promos[1].At != At(3, 7) {
		t.Fatalf("unexpected promotion order %v", promos)
	}
}

func TestPlacePieceBounds(t *testing.T) {
	b := New()
	if _, err := b.PlacePiece(NewPiece(Rook, core.ColorWhite), At(8, 8)); err == nil {
		t.Fatalf("expected out of bounds error")
	}
	if _, err := b.PlacePiece(Piece{}, At(0, 0)); err == nil {
		t.Fatalf("expected error for empty piece")
	}
	prev, err := b.PlacePiece(NewPiece(Rook, core.ColorWhite), At(0, 0))
	if err != nil || prev != nil {
		t.Fatalf("first placement: %v %v", prev, err)
	}
	prev, err = b.PlacePiece(NewPiece(Queen, core.ColorBlack), At(0, 0))
	if err != nil || prev == nil || prev.Kind != Rook {
		t.Fatalf("expected previous rook, got %v %v", prev, err)
	}
}

func TestBoardString(t *testing.T) {
	b := New()
	place(t, b, King, core.ColorWhite, 0, 0)
	place(t, b, Pawn, core.ColorBlack, 7, 7)

	want := "" +
		"8  .  .  .  .  .  .  . bP\n" +
		"7  .  .  .  .  .  .  .  .\n" +
		"6  .  .  .  .  .  .  .  .\n" +
		"5  .  .  .  .  .  .  .  .\n" +
		"4  .  .  .  .  .  .  .  .\n" +
		"3  .  .  .  .  .  .  .  .\n" +
		"2  .  .  .  .  .  .  .  .\n" +
		"1 wK  .  .  .  .  .  .  .\n" +
		"   a  b  c  d  e  f  g  h"
	if got := b.String(); got != want {
		t.Fatalf("unexpected rendering:\n%s\nwant:\n%s", got, want)
	}
}
