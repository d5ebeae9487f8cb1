// FILE: internal/client/commands/game.go
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

// computerMove is the move text that asks the server to play for the computer
const computerMove = "cccc"

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new",
		Handler:     r.newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     r.joinGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move",
		Usage:       "move <move> (e2e4, e7e8q)",
		Handler:     r.moveHandler,
	})

	r.Register(&Command{
		Name:        "computer",
		ShortName:   "c",
		Description: "Trigger computer move",
		Usage:       "computer",
		Handler:     r.computerMoveHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     r.undoHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     r.showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     r.gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     r.deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     r.pollHandler,
	})
}

func (r *Registry) currentGame() (string, error) {
	if r.session.CurrentGame == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return r.session.CurrentGame, nil
}

func (r *Registry) askPlayer(side string) core.PlayerConfig {
	answer := strings.ToLower(r.ask(display.Warn.Sprintf("%s player type (h/c) [h]: ", side)))
	if answer == "c" {
		return core.PlayerConfig{Type: core.PlayerComputer}
	}
	return core.PlayerConfig{Type: core.PlayerHuman}
}

func (r *Registry) newGameHandler(args []string) error {
	c := r.session.Client

	display.Println(r.out, display.Info, "\nCreating new game...")

	req := &core.CreateGameRequest{
		White: r.askPlayer("White"),
		Black: r.askPlayer("Black"),
		FEN:   r.ask(display.Warn.Sprint("Starting position (FEN) [default]: ")),
	}
	if seed := r.ask(display.Warn.Sprint("Seed [random]: ")); seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", seed)
		}
		req.Seed = n
	}
	req.RandomColors = strings.ToLower(r.ask(display.Warn.Sprint("Flip for colors (y/n) [n]: "))) == "y"

	resp, err := c.CreateGame(req)
	if err != nil {
		return err
	}
	r.session.Track(resp)

	display.Println(r.out, display.Success, "Game created: %s", resp.GameID)
	fmt.Fprintf(r.out, "White: %s [%s] | Black: %s [%s]\n",
		resp.Players.White.Name, resp.Players.White.Type,
		resp.Players.Black.Name, resp.Players.Black.Type)

	r.triggerComputer()
	return nil
}

func (r *Registry) joinGameHandler(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	resp, err := r.session.Client.GetGame(args[0])
	if err != nil {
		return err
	}
	r.session.Track(resp)

	display.Println(r.out, display.Success, "Joined game: %s", resp.GameID)
	fmt.Fprintf(r.out, "Turn: %s | State: %s | Moves: %d\n", resp.Turn, resp.State, len(resp.Moves))
	return nil
}

func (r *Registry) moveHandler(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <move>")
	}
	gameID, err := r.currentGame()
	if err != nil {
		return err
	}

	resp, err := r.session.Client.MakeMove(gameID, args[0])
	if err != nil {
		return err
	}
	r.session.Track(resp)
	display.Println(r.out, display.Success, "Move accepted")
	r.reportOutcome(resp)

	r.triggerComputer()
	return nil
}

// triggerComputer plays one computer turn when the last seen state is waiting
// on a computer player
func (r *Registry) triggerComputer() {
	state := r.session.State
	next := r.session.NextPlayer()
	if state == nil || next == nil || next.Type != core.PlayerComputer || state.State != core.StateOngoing.String() {
		return
	}

	display.Println(r.out, display.Computer, "\nComputer's turn, triggering move...")
	if err := r.playComputer(); err != nil {
		display.Println(r.out, display.Failure, "Failed to trigger computer move: %v", err)
	}
}

func (r *Registry) playComputer() error {
	resp, err := r.session.Client.MakeMove(r.session.CurrentGame, computerMove)
	if err != nil {
		return err
	}
	r.session.Track(resp)
	if resp.LastMove != nil {
		display.Println(r.out, display.Computer, "Computer played: %s", resp.LastMove.Move)
	}
	r.reportOutcome(resp)
	return nil
}

func (r *Registry) computerMoveHandler(args []string) error {
	if _, err := r.currentGame(); err != nil {
		return err
	}
	return r.playComputer()
}

// reportOutcome prints check and game over notices carried by resp
func (r *Registry) reportOutcome(resp *core.GameResponse) {
	if len(resp.InCheck) > 0 && resp.State == core.StateOngoing.String() {
		display.Println(r.out, display.Warn, "Check: %s", strings.Join(resp.InCheck, ", "))
	}
	if resp.State != core.StateOngoing.String() {
		display.Println(r.out, display.Warn, "Game over: %s by %s", resp.State, resp.Reason)
	}
}

func (r *Registry) undoHandler(args []string) error {
	gameID, err := r.currentGame()
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		count, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := r.session.Client.UndoMoves(gameID, count)
	if err != nil {
		return err
	}
	r.session.Track(resp)
	display.Println(r.out, display.Success, "Undid %d move(s)", count)
	return nil
}

func (r *Registry) showBoardHandler(args []string) error {
	gameID, err := r.currentGame()
	if err != nil {
		return err
	}
	c := r.session.Client

	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := c.GetBoard(gameID)
	if err != nil {
		return err
	}
	r.session.Track(game)

	fmt.Fprintln(r.out)
	display.RenderBoard(r.out, board.Board)

	fmt.Fprintf(r.out, "\nFEN: %s\n", game.FEN)
	fmt.Fprintf(r.out, "Turn: %s | State: %s | Moves: %d\n",
		display.ColorForTurn(game.Turn), game.State, len(game.Moves))
	if game.Reason != "" {
		fmt.Fprintf(r.out, "Reason: %s\n", game.Reason)
	}

	if len(game.Moves) > 0 {
		var sb strings.Builder
		for i, move := range game.Moves {
			if i%2 == 0 {
				if i > 0 {
					sb.WriteString(" ")
				}
				fmt.Fprintf(&sb, "%d.%s", i/2+1, move)
			} else {
				sb.WriteString(" " + move)
			}
		}
		fmt.Fprintf(r.out, "\nHistory: %s\n", sb.String())
	}

	if game.LastMove != nil {
		side := "White"
		if game.LastMove.PlayerColor == core.ColorBlack.String() {
			side = "Black"
		}
		fmt.Fprintf(r.out, "Last move: %s by %s", game.LastMove.Move, side)
		if game.LastMove.Captured != "" {
			fmt.Fprintf(r.out, " (captured %s)", game.LastMove.Captured)
		}
		fmt.Fprintln(r.out)
	}

	return nil
}

func (r *Registry) gameStateHandler(args []string) error {
	gameID, err := r.currentGame()
	if err != nil {
		return err
	}

	resp, err := r.session.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	r.session.Track(resp)

	display.Println(r.out, display.Info, "Game State:")
	display.PrettyPrintJSON(r.out, resp)
	return nil
}

func (r *Registry) deleteGameHandler(args []string) error {
	gameID := r.session.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := r.session.Client.DeleteGame(gameID); err != nil {
		return err
	}
	if gameID == r.session.CurrentGame {
		r.session.Forget()
	}

	display.Println(r.out, display.Success, "Game deleted: %s", gameID)
	return nil
}

func (r *Registry) pollHandler(args []string) error {
	gameID, err := r.currentGame()
	if err != nil {
		return err
	}

	version := r.session.Version
	display.Println(r.out, display.Info, "Long-polling for updates (version: %d)...", version)
	display.Println(r.out, display.Info, "This may take up to 25 seconds")

	resp, err := r.session.Client.WaitForUpdate(gameID, version)
	if err != nil {
		return err
	}
	r.session.Track(resp)

	if resp.Version > version {
		display.Println(r.out, display.Success, "Game updated! Now at version %d", resp.Version)
		if resp.LastMove != nil {
			fmt.Fprintf(r.out, "Last move: %s\n", resp.LastMove.Move)
		}
		r.reportOutcome(resp)
	} else {
		display.Println(r.out, display.Warn, "No updates (timeout)")
	}
	return nil
}
