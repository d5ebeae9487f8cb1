// FILE: internal/client/session/session.go
package session

import (
	"chessrules/internal/client/api"
	"chessrules/internal/core"
)

// Session is the debug client's view of the server: which game it follows and
// the last state it saw
type Session struct {
	APIBaseURL  string
	Client      *api.Client
	CurrentGame string
	Version     int // Last seen game version, the long poll cursor
	State       *core.GameResponse
	Verbose     bool
}

func New(baseURL string, client *api.Client) *Session {
	return &Session{APIBaseURL: baseURL, Client: client}
}

// Track makes resp the current game state
func (s *Session) Track(resp *core.GameResponse) {
	s.CurrentGame = resp.GameID
	s.Version = resp.Version
	s.State = resp
}

// Forget drops the current game
func (s *Session) Forget() {
	s.CurrentGame = ""
	s.Version = 0
	s.State = nil
}

// NextPlayer returns the player whose turn it is in the last seen state
func (s *Session) NextPlayer() *core.Player {
	if s.State == nil {
		return nil
	}
	if s.State.Turn == core.ColorWhite.String() {
		return s.State.Players.White
	}
	return s.State.Players.Black
}
