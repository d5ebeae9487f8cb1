// FILE: internal/game/game.go
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

type Snapshot struct {
	Board     *board.Board // Position after the move
	Move      string       // Move that created this position (empty for initial)
	Color     core.Color   // Side that played Move
	Captured  board.Kind
	MoveCount int
}

// Promotion records a pawn replaced during a turn
type Promotion struct {
	At    board.Coordinate
	Piece board.Piece
}

// MoveResult tracks the outcome of a turn
type MoveResult struct {
	Move       board.Move
	Color      core.Color
	Captured   *board.Piece
	Promotions []Promotion
	State      core.State
	Reason     core.Reason
	Err        error // Cause of a forfeit, nil otherwise
}

// Notation renders the move in coordinate notation with promotion suffix
func (r *MoveResult) Notation() string {
	s := r.Move.String()
	for _, p := range r.Promotions {
		if p.At == r.Move.End {
			s += string(p.Piece.Kind.Letter())
		}
	}
	return s
}

type Game struct {
	board      *board.Board
	moveCount  int
	players    map[core.Color]Player
	state      core.State
	reason     core.Reason
	snapshots  []Snapshot
	lastResult *MoveResult
}

// New starts a game from the standard position, binding first and second to
// White and Black by a coin flip drawn from rng
func New(first, second Player, rng *rand.Rand) *Game {
	return NewFromPosition(board.NewStandard(), core.ColorWhite, first, second, rng)
}

// NewFromPosition starts a game from an arbitrary board with turn to move
func NewFromPosition(b *board.Board, turn core.Color, first, second Player, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	white, black := first, second
	if rng.Intn(2) == 1 {
		white, black = second, first
	}
	return NewWithColors(b, turn, white, black)
}

// NewWithColors starts a game with a fixed color binding
func NewWithColors(b *board.Board, turn core.Color, white, black Player) *Game {
	g := &Game{
		board: b,
		players: map[core.Color]Player{
			core.ColorWhite: white,
			core.ColorBlack: black,
		},
		state: core.StateOngoing,
	}
	if turn == core.ColorBlack {
		g.moveCount = 1
	}
	g.snapshots = []Snapshot{{Board: b.Copy(), MoveCount: g.moveCount}}
	return g
}

// ActiveColor is the side to move, selected by move-count parity
func (g *Game) ActiveColor() core.Color {
	if g.moveCount%2 == 0 {
		return core.ColorWhite
	}
	return core.ColorBlack
}

// Turn plays one turn for the active color. Every player-caused problem
// concludes the game and is reported through the MoveResult; the only error
// returned is ErrGameOver for a game that has already ended.
func (g *Game) Turn() (*MoveResult, error) {
	if g.state.IsOver() {
		return nil, ErrGameOver
	}

	color := g.ActiveColor()
	opponent := color.Opposite()
	result := &MoveResult{Color: color}

	if g.board.OnlyKings() {
		return g.conclude(result, core.StateDraw, core.ReasonInsufficientMaterial, nil), nil
	}

	g.moveCount++

	move, err := g.players[color].SelectMove(g.board.Copy(), color)
	if err != nil {
		if !errors.Is(err, ErrResign) {
			err = fmt.Errorf("%w: %v", ErrResign, err)
		}
		return g.conclude(result, core.WinFor(opponent), core.ReasonResignation, err), nil
	}
	result.Move = move

	if piece, ok := g.board.PieceAt(move.Start); ok && piece.Color != color {
		err := &ProtocolViolationError{Color: color, Reason: fmt.Sprintf("%s holds a %s piece", move.Start, piece.Color.Name())}
		return g.conclude(result, core.WinFor(opponent), core.ReasonProtocolViolation, err), nil
	}

	captured, err := g.board.MovePiece(move.Start, move.End)
	if err != nil {
		return g.conclude(result, core.WinFor(opponent), core.ReasonIllegalMove, err), nil
	}
	result.Captured = captured

	// Promotion precedes the terminal checks; a bad choice forfeits the side
	// that just moved, whoever owns the pawn
	for _, pl := range g.board.PromotionSquares() {
		replacement, err := g.players[pl.Piece.Color].SelectPromotion(g.board.Copy(), pl.Piece, pl.At)
		if err == nil {
			if reason := validatePromotion(pl.Piece, replacement); reason != "" {
				err = &ProtocolViolationError{Color: color, Reason: reason}
			}
		} else {
			err = &ProtocolViolationError{Color: color, Reason: err.Error()}
		}
		if err != nil {
			g.record(result)
			return g.conclude(result, core.WinFor(opponent), core.ReasonProtocolViolation, err), nil
		}

		replacement.Moved = true
		g.board.PlacePiece(replacement, pl.At)
		result.Promotions = append(result.Promotions, Promotion{At: pl.At, Piece: replacement})
	}

	g.record(result)

	switch {
	case g.board.OnlyKings():
		g.conclude(result, core.StateDraw, core.ReasonInsufficientMaterial, nil)
	case !g.board.HasLegalMove(opponent):
		if g.board.InCheck(opponent) {
			g.conclude(result, core.WinFor(color), core.ReasonCheckmate, nil)
		} else {
			g.conclude(result, core.StateDraw, core.ReasonStalemate, nil)
		}
	default:
		result.State = g.state
		g.lastResult = result
	}

	return result, nil
}

// Run plays turns until the game ends or limit turns have been played.
// A limit of zero or less means no limit.
func (g *Game) Run(limit int) []*MoveResult {
	var results []*MoveResult
	for i := 0; limit <= 0 || i < limit; i++ {
		result, err := g.Turn()
		if err != nil {
			break
		}
		results = append(results, result)
		if result.State.IsOver() {
			break
		}
	}
	return results
}

func (g *Game) conclude(result *MoveResult, state core.State, reason core.Reason, err error) *MoveResult {
	g.state = state
	g.reason = reason
	result.State = state
	result.Reason = reason
	result.Err = err
	g.lastResult = result
	return result
}

func (g *Game) record(result *MoveResult) {
	var captured board.Kind
	if result.Captured != nil {
		captured = result.Captured.Kind
	}
	g.snapshots = append(g.snapshots, Snapshot{
		Board:     g.board.Copy(),
		Move:      result.Notation(),
		Color:     result.Color,
		Captured:  captured,
		MoveCount: g.moveCount,
	})
}

// UndoMoves rewinds count recorded moves and reopens the game
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	current := g.snapshots[len(g.snapshots)-1]
	g.board = current.Board.Copy()
	g.moveCount = current.MoveCount
	g.state = core.StateOngoing
	g.reason = core.ReasonNone
	g.lastResult = nil
	return nil
}

// Board returns a copy of the authoritative board
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) Reason() core.Reason {
	return g.reason
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) Player(c core.Color) Player {
	return g.players[c]
}

// ColorOf returns the color p was bound to, or zero if p is not playing
func (g *Game) ColorOf(p Player) core.Color {
	for c, bound := range g.players {
		if bound == p {
			return c
		}
	}
	return 0
}

func (g *Game) Snapshots() []Snapshot {
	return append([]Snapshot(nil), g.snapshots...)
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].Move != "" {
			moves = append(moves, g.snapshots[i].Move)
		}
	}
	return moves
}

// FEN describes the current position with the active color to move
func (g *Game) FEN() string {
	return g.board.FEN(g.ActiveColor(), g.moveCount/2+1)
}

func (g *Game) InitialFEN() string {
	first := g.snapshots[0]
	turn := core.ColorWhite
	if first.MoveCount%2 == 1 {
		turn = core.ColorBlack
	}
	return first.Board.FEN(turn, first.MoveCount/2+1)
}
