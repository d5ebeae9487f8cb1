// FILE: internal/transport/cli/handler.go
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/prefs"
	"chessrules/internal/service"
	"chessrules/internal/transport"
)

type CLIHandler struct {
	svc    *service.Service
	view   transport.View
	gameID string
	seed   int64 // Applied to new games, 0 for a clock seed

	prefStore *prefs.Store // nil keeps settings and results in memory only
	settings  *prefs.Preferences
}

func New(svc *service.Service, view transport.View, seed int64) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
		seed: seed,
	}
}

// UsePreferences saves theme and verbose changes to store and tallies
// finished games there
func (h *CLIHandler) UsePreferences(store *prefs.Store, settings *prefs.Preferences) {
	h.prefStore = store
	h.settings = settings
}

func (h *CLIHandler) savePreferences(update func(p *prefs.Preferences)) {
	if h.prefStore == nil {
		return
	}
	update(h.settings)
	if err := h.prefStore.SavePreferences(h.settings); err != nil {
		h.view.ShowError(fmt.Errorf("could not save preferences: %w", err))
	}
}

// GameID returns the game in progress, empty if none
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// Main game loop - simple command processing
func (h *CLIHandler) Run() {
	defer h.dropGame()
	for {
		// Generate prompt based on current game state
		h.view.ShowPrompt(h.getPrompt())

		// Get command (blocking)
		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}

		// Process command - returns false to exit
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// Generates the appropriate command prompt
func (h *CLIHandler) getPrompt() string {
	prompt := "> "
	if h.gameID != "" {
		v, err := h.svc.GetGame(h.gameID)
		if err == nil && v.State == core.StateOngoing {
			// Always show whose turn it is
			prompt = fmt.Sprintf("[%s]> ", v.Turn)
			if v.NextPlayer().Type == core.PlayerComputer {
				prompt = "ENTER to execute computer move\n" + prompt
			}
		}
	}
	return prompt
}

// Handles user commands - returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		// Empty command triggers computer move if it's computer's turn
		if v, ok := h.current(); ok && v.NextPlayer().Type == core.PlayerComputer {
			h.executeComputerMove()
		}

	case cli.CmdNew:
		flip := len(cmd.Args) > 0 && cmd.Args[0] == "flip"
		h.handleNewGame("", flip)

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <FEN string>")
			return true
		}
		h.handleNewGame(strings.Join(cmd.Args, " "), false)

	case cli.CmdMove:
		h.handleMove(cmd.Args[0])

	case cli.CmdUndo:
		h.handleUndo(cmd.Args)

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		h.savePreferences(func(p *prefs.Preferences) { p.Theme = string(theme) })
		if v, err := h.svc.GetGame(h.gameID); err == nil {
			h.view.DisplayBoard(v.Board)
		}

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))
		h.savePreferences(func(p *prefs.Preferences) { p.Verbose = verbose })

	case cli.CmdStats:
		if h.prefStore == nil {
			h.view.ShowMessage("Statistics are disabled.")
			return true
		}
		stats, err := h.prefStore.LoadStats()
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowStats(stats)

	case cli.CmdHistory:
		v, err := h.svc.GetGame(h.gameID)
		if err != nil {
			h.view.ShowMessage("No active game.")
			return true
		}
		h.view.ShowGameHistory(v)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

// current returns the active game if it is still being played
func (h *CLIHandler) current() (*service.GameView, bool) {
	if h.gameID == "" {
		return nil, false
	}
	v, err := h.svc.GetGame(h.gameID)
	if err != nil || v.State != core.StateOngoing {
		return nil, false
	}
	return v, true
}

func (h *CLIHandler) handleMove(move string) {
	v, ok := h.current()
	if !ok {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <FEN>'.")
		return
	}
	if v.NextPlayer().Type != core.PlayerHuman {
		h.view.ShowMessage("It's not a human player's turn. Press ENTER to execute computer move.")
		return
	}

	result, err := h.svc.SubmitMove(h.gameID, move)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMove) {
			h.view.ShowError(err)
		} else {
			h.view.ShowError(fmt.Errorf("move failed: %w", err))
		}
		return
	}
	h.showResult(result, v.NextPlayer())
}

func (h *CLIHandler) executeComputerMove() {
	v, _ := h.current()
	result, err := h.svc.PlayComputerTurn(h.gameID)
	if err != nil {
		h.view.ShowError(fmt.Errorf("computer move failed: %w", err))
		return
	}
	h.showResult(result, v.NextPlayer())
}

func (h *CLIHandler) showResult(result *game.MoveResult, by core.Player) {
	h.view.ShowMove(result, by)

	v, err := h.svc.GetGame(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(v.Board)

	if result.State.IsOver() {
		h.view.ShowGameOver(result.State, result.Reason, result.Err)
		if h.prefStore != nil {
			if err := h.prefStore.RecordResult(result.State, result.Reason); err != nil {
				h.view.ShowError(fmt.Errorf("could not record result: %w", err))
			}
		}
		return
	}
	h.view.ShowCheck(v.InCheck)
}

func (h *CLIHandler) handleUndo(args []string) {
	if h.gameID == "" {
		h.view.ShowMessage("No active game.")
		return
	}

	// Parse undo count
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
			return
		}
		count = n
	}

	if err := h.svc.UndoMoves(h.gameID, count); err != nil {
		h.view.ShowError(err)
		return
	}
	if count == 1 {
		h.view.ShowMessage("Move undone")
	} else {
		h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
	}

	if v, err := h.svc.GetGame(h.gameID); err == nil {
		h.view.DisplayBoard(v.Board)
	}
}

// Starts a new game with player type selection
func (h *CLIHandler) handleNewGame(fen string, flip bool) {
	first, second := "White", "Black"
	if flip {
		first, second = "Player 1", "Player 2"
	}

	firstType := h.askPlayerType(first)
	secondType := h.askPlayerType(second)

	v, err := h.svc.CreateGame(service.GameOptions{
		First:        core.PlayerConfig{Type: firstType},
		Second:       core.PlayerConfig{Type: secondType},
		FEN:          fen,
		Seed:         h.seed,
		RandomColors: flip,
	})
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}

	// Only one game per session is kept alive
	h.dropGame()
	h.gameID = v.ID

	h.view.ShowMessage(fmt.Sprintf("Game started. White: %s (%s), Black: %s (%s).",
		v.White.Name, v.White.Type, v.Black.Name, v.Black.Type))
	h.view.DisplayBoard(v.Board)
	h.view.ShowCheck(v.InCheck)
}

func (h *CLIHandler) askPlayerType(side string) core.PlayerType {
	h.view.ShowPrompt(fmt.Sprintf("Select %s player (h/c): ", side))
	input := strings.ToLower(h.view.ReadLine())
	if input == "c" || input == "computer" {
		return core.PlayerComputer
	}
	return core.PlayerHuman
}

func (h *CLIHandler) dropGame() {
	if h.gameID != "" {
		h.svc.DeleteGame(h.gameID)
		h.gameID = ""
	}
}
