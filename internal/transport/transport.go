// FILE: internal/transport/transport.go
package transport

import (
	"chessrules/internal/board"
	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/prefs"
	"chessrules/internal/service"
)

// View abstracts display and input for interactive front-ends
type View interface {
	GetCommand() (*cli.Command, error)
	ReadLine() string
	ShowPrompt(prompt string)
	ShowMessage(msg string)
	ShowError(err error)
	ShowHelp()
	SetTheme(theme cli.ColorTheme) error
	ToggleVerbose() bool

	DisplayBoard(b *board.Board)
	ShowGameHistory(v *service.GameView)
	ShowMove(result *game.MoveResult, by core.Player)
	ShowCheck(colors []core.Color)
	ShowGameOver(state core.State, reason core.Reason, cause error)
	ShowStats(stats *prefs.Stats)
}

var _ View = (*cli.CLI)(nil)
