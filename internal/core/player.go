// FILE: internal/core/player.go
package core

import (
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerComputer
)

func (t PlayerType) String() string {
	switch t {
	case PlayerHuman:
		return "human"
	case PlayerComputer:
		return "computer"
	default:
		return "unknown"
	}
}

// Player is the identity bound to one side of a game. The color is only known
// once the game has flipped for sides, so it is set by the service afterwards.
type Player struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Color Color      `json:"color"`
	Type  PlayerType `json:"type"`
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Type PlayerType `json:"type" validate:"required,oneof=1 2"`
	Name string     `json:"name,omitempty" validate:"omitempty,max=40"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates a Player from PlayerConfig. Unnamed players get a
// generated pet name so logs and history stay readable.
func NewPlayer(config PlayerConfig) *Player {
	name := config.Name
	if name == "" {
		name = petname.Generate(2, "-")
	}

	return &Player{
		ID:   uuid.New().String(),
		Name: name,
		Type: config.Type,
	}
}
