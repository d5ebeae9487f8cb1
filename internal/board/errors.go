// FILE: internal/board/errors.go
package board

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

// IllegalMoveError carries the rejected coordinates. The board is unchanged
// whenever one is returned.
type IllegalMoveError struct {
	Start  Coordinate
	End    Coordinate
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s-%s: %s", e.Start, e.End, e.Reason)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

func illegal(start, end Coordinate, reason string) error {
	return &IllegalMoveError{Start: start, End: end, Reason: reason}
}
