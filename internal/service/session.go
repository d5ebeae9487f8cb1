// FILE: internal/service/session.go
package service

import (
	"sync"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/player"
)

// session binds a running game to the identities and input queues of its
// players. turn guards game and humans; version and current are guarded by
// the service lock. Lock order is turn, then the service lock.
type session struct {
	id      string
	seed    int64
	players map[core.Color]*core.Player

	turn   sync.Mutex
	game   *game.Game
	humans map[core.Color]*player.Queued

	version int       // Bumped on every change, drives long polls
	current *GameView // Published after every change
}

// GameView is a consistent copy of a session at one version
type GameView struct {
	ID         string
	Board      *board.Board
	FEN        string
	InitialFEN string
	Turn       core.Color
	State      core.State
	Reason     core.Reason
	Moves      []string
	Captures   []board.Kind // Parallel to Moves, NoKind when nothing was taken
	InCheck    []core.Color
	White      core.Player
	Black      core.Player
	Seed       int64
	LastResult *game.MoveResult
	Version    int
}

// NextPlayer returns the identity of the side to move
func (v *GameView) NextPlayer() core.Player {
	if v.Turn == core.ColorBlack {
		return v.Black
	}
	return v.White
}

// clone hands out a view the caller may keep or modify
func (v *GameView) clone() *GameView {
	c := *v
	c.Board = v.Board.Copy()
	c.Moves = append([]string(nil), v.Moves...)
	c.Captures = append([]board.Kind(nil), v.Captures...)
	c.InCheck = append([]core.Color(nil), v.InCheck...)
	return &c
}

func (s *session) view() *GameView {
	g := s.game
	b := g.Board()
	var captures []board.Kind
	for _, snap := range g.Snapshots() {
		if snap.Move != "" {
			captures = append(captures, snap.Captured)
		}
	}
	return &GameView{
		ID:         s.id,
		Board:      b,
		FEN:        g.FEN(),
		InitialFEN: g.InitialFEN(),
		Turn:       g.ActiveColor(),
		State:      g.State(),
		Reason:     g.Reason(),
		Moves:      g.Moves(),
		Captures:   captures,
		InCheck:    b.PlayersInCheck(),
		White:      *s.players[core.ColorWhite],
		Black:      *s.players[core.ColorBlack],
		Seed:       s.seed,
		LastResult: g.LastResult(),
		Version:    s.version,
	}
}

func (s *session) activeType() core.PlayerType {
	return s.players[s.game.ActiveColor()].Type
}
