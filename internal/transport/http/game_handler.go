// FILE: internal/transport/http/game_handler.go
package http

import (
	"errors"
	"strconv"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
)

// computerMove in the move field asks the computer on move to play
const computerMove = "cccc"

// CreateGame creates a new game with the requested players
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := c.Locals("validatedBody").(*core.CreateGameRequest)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}

	view, err := h.svc.CreateGame(service.GameOptions{
		First:        req.White,
		Second:       req.Black,
		FEN:          req.FEN,
		Seed:         req.Seed,
		RandomColors: req.RandomColors,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(view))
}

// GetGame returns the game state, long polling when wait=true until the
// state moves past the supplied version
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	var (
		view *service.GameView
		err  error
	)
	if c.QueryBool("wait") {
		version, convErr := strconv.Atoi(c.Query("version", "0"))
		if convErr != nil || version < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error:   "invalid version",
				Code:    core.ErrInvalidRequest,
				Details: "version must be a non-negative integer",
			})
		}
		view, err = h.svc.WaitForUpdate(c.UserContext(), gameID, version)
	} else {
		view, err = h.svc.GetGame(gameID)
	}
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(buildGameResponse(view))
}

// MakeMove plays a human move, or the computer's turn for "cccc"
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	req, ok := c.Locals("validatedBody").(*core.MoveRequest)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}

	var err error
	if req.Move == computerMove {
		_, err = h.svc.PlayComputerTurn(gameID)
	} else {
		_, err = h.svc.SubmitMove(gameID, req.Move)
	}
	if err != nil {
		return serviceError(c, err)
	}

	view, err := h.svc.GetGame(gameID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(buildGameResponse(view))
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	req, ok := c.Locals("validatedBody").(*core.UndoRequest)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}

	if err := h.svc.UndoMoves(gameID, req.Count); err != nil {
		return serviceError(c, err)
	}

	view, err := h.svc.GetGame(gameID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(buildGameResponse(view))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.svc.DeleteGame(c.Params("gameId")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	view, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(core.BoardResponse{
		FEN:   view.FEN,
		Board: view.Board.ToASCII(),
	})
}

// serviceError maps service and game errors onto API error codes
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	response := core.ErrorResponse{Details: err.Error()}

	switch {
	case errors.Is(err, service.ErrGameNotFound):
		status = fiber.StatusNotFound
		response.Error, response.Code = "game not found", core.ErrGameNotFound
	case errors.Is(err, service.ErrInvalidMove):
		response.Error, response.Code = "invalid move", core.ErrInvalidMove
	case errors.Is(err, service.ErrInvalidFEN):
		response.Error, response.Code = "invalid FEN", core.ErrInvalidFEN
	case errors.Is(err, service.ErrNotHumanTurn):
		response.Error, response.Code = "not human player's turn", core.ErrNotHumanTurn
	case errors.Is(err, service.ErrNotComputerTurn):
		response.Error, response.Code = "not computer player's turn", core.ErrNotComputerTurn
	case errors.Is(err, game.ErrGameOver):
		response.Error, response.Code = "game is over", core.ErrGameOver
	default:
		response.Error, response.Code = "request failed", core.ErrInvalidRequest
	}

	return c.Status(status).JSON(response)
}

func buildGameResponse(v *service.GameView) core.GameResponse {
	white, black := v.White, v.Black
	response := core.GameResponse{
		GameID:  v.ID,
		FEN:     v.FEN,
		Turn:    v.Turn.String(),
		State:   v.State.String(),
		Reason:  v.Reason.String(),
		Seed:    v.Seed,
		Moves:   v.Moves,
		Players: core.PlayersResponse{White: &white, Black: &black},
		Version: v.Version,
	}
	for _, c := range v.InCheck {
		response.InCheck = append(response.InCheck, c.String())
	}

	if r := v.LastResult; r != nil && r.Move != (board.Move{}) {
		info := &core.MoveInfo{
			Move:        r.Notation(),
			PlayerColor: r.Color.String(),
		}
		if r.Captured != nil {
			info.Captured = r.Captured.Kind.String()
		}
		for _, p := range r.Promotions {
			if p.At == r.Move.End {
				info.Promotion = p.Piece.Kind.String()
			}
		}
		response.LastMove = info
	}

	return response
}
