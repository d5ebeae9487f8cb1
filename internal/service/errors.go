// FILE: internal/service/errors.go
package service

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrNotHumanTurn    = errors.New("not a human player's turn")
	ErrNotComputerTurn = errors.New("not a computer player's turn")
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidFEN      = errors.New("invalid FEN")
)
