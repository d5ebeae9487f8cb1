// FILE: internal/service/service.go
package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/player"
	"chessrules/internal/storage"

	"github.com/google/uuid"
)

// Service owns every running game with optional persistence
type Service struct {
	games  map[string]*session
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry

	engine   player.Searcher // nil plays random computer moves
	moveTime time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithEngine lets computer players ask uci for their moves, searching
// moveTime per move. The caller owns the engine process.
func WithEngine(uci player.Searcher, moveTime time.Duration) Option {
	return func(s *Service) {
		s.engine = uci
		s.moveTime = moveTime
	}
}

// GameOptions describes a game to create
type GameOptions struct {
	First  core.PlayerConfig
	Second core.PlayerConfig
	FEN    string // Empty for the standard position
	Seed   int64  // 0 picks a clock seed
	// RandomColors flips a coin for sides; otherwise First plays White
	RandomColors bool
}

// New creates a new service instance with optional storage
func New(store *storage.Store, opts ...Option) (*Service, error) {
	s := &Service{
		games:  make(map[string]*session),
		store:  store,
		waiter: NewWaitRegistry(WaitTimeout),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateGame sets up the board, binds players to colors and registers the game
func (s *Service) CreateGame(opts GameOptions) (*GameView, error) {
	b := board.NewStandard()
	turn := core.ColorWhite
	if opts.FEN != "" {
		var err error
		b, turn, err = board.ParseFEN(opts.FEN)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
		}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	first, firstMover, firstQueue := s.newPlayer(opts.First, rng)
	second, secondMover, secondQueue := s.newPlayer(opts.Second, rng)

	var g *game.Game
	if opts.RandomColors {
		g = game.NewFromPosition(b, turn, firstMover, secondMover, rng)
	} else {
		g = game.NewWithColors(b, turn, firstMover, secondMover)
	}
	first.Color = g.ColorOf(firstMover)
	second.Color = g.ColorOf(secondMover)

	sess := &session{
		game:    g,
		seed:    seed,
		players: map[core.Color]*core.Player{first.Color: first, second.Color: second},
		humans:  make(map[core.Color]*player.Queued),
	}
	if firstQueue != nil {
		sess.humans[first.Color] = firstQueue
	}
	if secondQueue != nil {
		sess.humans[second.Color] = secondQueue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess.id = s.newID()
	sess.current = sess.view()
	s.games[sess.id] = sess

	white, black := sess.players[core.ColorWhite], sess.players[core.ColorBlack]
	log.Printf("Game %s created: %s (%s) vs %s (%s), seed %d",
		sess.id, white.Name, white.Type, black.Name, black.Type, seed)

	// Persist if storage enabled
	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        sess.id,
			InitialFEN:    g.InitialFEN(),
			WhitePlayerID: white.ID,
			WhiteName:     white.Name,
			WhiteType:     int(white.Type),
			BlackPlayerID: black.ID,
			BlackName:     black.Name,
			BlackType:     int(black.Type),
			Seed:          seed,
			StartTimeUTC:  time.Now().UTC(),
		})
	}

	return sess.current.clone(), nil
}

func (s *Service) newPlayer(config core.PlayerConfig, rng *rand.Rand) (*core.Player, game.Player, *player.Queued) {
	identity := core.NewPlayer(config)
	if config.Type == core.PlayerComputer {
		if s.engine != nil {
			return identity, player.NewEngine(s.engine, s.moveTime, player.NewRandom(rng)), nil
		}
		return identity, player.NewRandom(rng), nil
	}
	q := player.NewQueued()
	return identity, q, q
}

// newID creates a unique game ID; caller holds the lock
func (s *Service) newID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// lookup finds a registered session without holding the lock afterwards
func (s *Service) lookup(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return sess, nil
}

// GetGame returns a copy of the game's last published state. It does not
// wait for a turn in progress.
func (s *Service) GetGame(gameID string) (*GameView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return sess.current.clone(), nil
}

// WaitForUpdate blocks until the game's version differs from version, the
// wait times out, or ctx ends, then returns the current state
func (s *Service) WaitForUpdate(ctx context.Context, gameID string, version int) (*GameView, error) {
	s.mu.RLock()
	sess, ok := s.games[gameID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if sess.version != version {
		defer s.mu.RUnlock()
		return sess.current.clone(), nil
	}
	// Registered under the lock so no notification slips in before waiting
	w := s.waiter.Register(gameID, version)
	s.mu.RUnlock()

	s.waiter.Wait(ctx, w)
	return s.GetGame(gameID)
}

// SubmitMove plays a human move given in coordinate notation ("e2e4",
// "e7e8n"). Moves that fail the rules are rejected without being played.
func (s *Service) SubmitMove(gameID, moveText string) (*game.MoveResult, error) {
	sess, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	sess.turn.Lock()
	defer sess.turn.Unlock()

	g := sess.game
	if g.State().IsOver() {
		return nil, game.ErrGameOver
	}

	color := g.ActiveColor()
	human, ok := sess.humans[color]
	if !ok {
		return nil, ErrNotHumanTurn
	}

	move, promotion, err := board.ParseMove(moveText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	// Check against a copy first so a mistyped move is not a forfeit
	b := g.Board()
	if piece, ok := b.PieceAt(move.Start); ok && piece.Color != color {
		return nil, fmt.Errorf("%w: %s holds a %s piece", ErrInvalidMove, move.Start, piece.Color.Name())
	}
	if !b.OnlyKings() {
		if _, err := b.MovePiece(move.Start, move.End); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
	}

	human.Push(move, promotion)
	defer human.Clear()
	return s.runTurn(sess)
}

// PlayComputerTurn lets the computer player on move choose and play
func (s *Service) PlayComputerTurn(gameID string) (*game.MoveResult, error) {
	sess, err := s.lookup(gameID)
	if err != nil {
		return nil, err
	}
	sess.turn.Lock()
	defer sess.turn.Unlock()

	if sess.game.State().IsOver() {
		return nil, game.ErrGameOver
	}
	if sess.activeType() != core.PlayerComputer {
		return nil, ErrNotComputerTurn
	}
	return s.runTurn(sess)
}

// runTurn plays one turn and publishes its effects. The caller holds
// sess.turn; the service lock is taken only after the players have chosen.
func (s *Service) runTurn(sess *session) (*game.MoveResult, error) {
	g := sess.game
	before := len(g.Moves())

	result, err := g.Turn()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.publish(sess) {
		return result, nil
	}

	moves := g.Moves()
	if s.store != nil && len(moves) > before {
		var captured string
		if result.Captured != nil {
			captured = result.Captured.Kind.String()
		}
		s.store.RecordMove(storage.MoveRecord{
			GameID:       sess.id,
			MoveNumber:   len(moves),
			Move:         moves[len(moves)-1],
			FENAfterMove: g.FEN(),
			PlayerColor:  result.Color.String(),
			Captured:     captured,
			MoveTimeUTC:  time.Now().UTC(),
		})
	}

	if result.State.IsOver() {
		if result.Err != nil {
			log.Printf("Game %s over: %s by %s (%v)", sess.id, result.State, result.Reason, result.Err)
		} else {
			log.Printf("Game %s over: %s by %s", sess.id, result.State, result.Reason)
		}
		if s.store != nil {
			s.store.RecordResult(sess.id, result.State.String(), result.Reason.String(), time.Now().UTC())
		}
	}

	return result, nil
}

// publish bumps the version, refreshes the shared view and wakes pollers.
// It reports false when the game was deleted while its turn ran. Caller
// holds both sess.turn and the service lock.
func (s *Service) publish(sess *session) bool {
	if s.games[sess.id] != sess {
		return false
	}
	sess.version++
	sess.current = sess.view()
	s.waiter.NotifyGame(sess.id, sess.version)
	return true
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	sess, err := s.lookup(gameID)
	if err != nil {
		return err
	}
	sess.turn.Lock()
	defer sess.turn.Unlock()

	g := sess.game
	wasOver := g.State().IsOver()
	originalMoveCount := len(g.Moves())

	if err := g.UndoMoves(count); err != nil {
		return err
	}
	for _, q := range sess.humans {
		q.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.publish(sess) {
		return nil
	}

	// Delete undone moves from storage if enabled
	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, originalMoveCount-count)
		if wasOver {
			s.store.ReopenGame(gameID)
		}
	}

	return nil
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	// Wake all waiters before deletion
	s.waiter.RemoveGame(gameID)

	delete(s.games, gameID)
	return nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases waiters then closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	if err := s.waiter.Shutdown(timeout); err != nil {
		log.Printf("Warning: %v", err)
	}
	return s.Close()
}

// Close cleans up resources
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear all games
	s.games = make(map[string]*session)

	// Close storage if enabled
	if s.store != nil {
		return s.store.Close()
	}

	return nil
}
