// FILE: internal/game/errors.go
package game

import (
	"errors"
	"fmt"

	"chessrules/internal/core"
)

var (
	// ErrResign is returned by a player that has no move or chooses to stop
	ErrResign            = errors.New("player resigned")
	ErrGameOver          = errors.New("game is over")
	ErrProtocolViolation = errors.New("protocol violation")
)

// ProtocolViolationError reports a player breaking the selection contract,
// such as picking an opponent's piece or returning an invalid promotion
type ProtocolViolationError struct {
	Color  core.Color
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("protocol violation by %s: %s", e.Color.Name(), e.Reason)
}

func (e *ProtocolViolationError) Is(target error) bool {
	return target == ErrProtocolViolation
}
