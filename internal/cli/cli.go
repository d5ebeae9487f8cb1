// FILE: internal/cli/cli.go
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/prefs"
	"chessrules/internal/service"

	"github.com/fatih/color"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdUndo
	CmdColor
	CmdVerbose
	CmdHistory
	CmdStats
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

// themeColors holds 256-color background codes for the two square shades
type themeColors struct {
	light int
	dark  int
}

var themes = map[ColorTheme]*themeColors{
	ThemeOff:   nil,
	ThemeBrown: {light: 230, dark: 94},
	ThemeGreen: {light: 157, dark: 22},
	ThemeGray:  {light: 251, dark: 240},
}

// forced builds a color that renders even when stdout is not a terminal,
// since output may go to an SSH session
func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func squareColor(bg int, fg ...color.Attribute) *color.Color {
	c := forced(color.Attribute(48), color.Attribute(5), color.Attribute(bg))
	c.Add(fg...)
	return c
}

var (
	errorText  = forced(color.FgRed)
	noticeText = forced(color.FgYellow, color.Bold)
)

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:   input,
		output:  output,
		theme:   ThemeOff,
		verbose: false,
	}
}

// Reads a command synchronously
func (c *CLI) GetCommand() (*Command, error) {
	line, err := c.input.Readline()
	if err != nil {
		if err == io.EOF {
			return &Command{Type: CmdQuit}, nil
		}
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return ParseCommand(input), nil
}

func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "stats":
		return &Command{Type: CmdStats}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Assume it's a move
		return &Command{Type: CmdMove, Args: []string{cmd}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(c.paint(errorText, fmt.Sprintf("Error: %v", err)))
}

func (c *CLI) ShowPrompt(prompt string) {
	// readline draws the last line of the prompt itself
	if p, ok := c.input.(prompter); ok {
		if i := strings.LastIndex(prompt, "\n"); i != -1 {
			fmt.Fprint(c.output, prompt[:i+1])
			prompt = prompt[i+1:]
		}
		p.SetPrompt(prompt)
		return
	}
	fmt.Fprint(c.output, prompt)
}

func (c *CLI) ReadLine() string {
	line, err := c.input.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// paint applies col only when a theme is active
func (c *CLI) paint(col *color.Color, s string) string {
	if c.theme == ThemeOff {
		return s
	}
	return col.Sprint(s)
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for rank := board.Size - 1; rank >= 0; rank-- {
		sb.WriteString(fmt.Sprintf("%d ", rank+1))
		for file := 0; file < board.Size; file++ {
			cell := ". "
			piece, ok := b.PieceAt(board.At(file, rank))
			if ok {
				cell = fmt.Sprintf("%c ", piece.FENLetter())
			}

			if theme == nil {
				sb.WriteString(cell)
				continue
			}
			if !ok {
				cell = "  "
			}

			bg := theme.dark
			if (rank+file)%2 == 1 {
				bg = theme.light
			}
			fg := color.FgBlack
			if ok && piece.Color == core.ColorWhite {
				fg = color.FgHiWhite
			}
			sb.WriteString(squareColor(bg, fg, color.Bold).Sprint(cell))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", rank+1))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new [flip]       - Start a new game; 'flip' tosses a coin for colors
  resume <FEN>     - Resume from a specific board position
  <move>           - Make a move (e.g., e2e4, g1f3, e7e8n to underpromote)
  undo [count]     - Undo last move(s), default 1
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  history          - Show game move history and positions
  stats            - Show results of finished games
  quit/exit        - Exit the program
  help/?           - Show this help message

During any game:
  Press ENTER      - Execute computer move (when it's computer's turn)`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, resume <FEN>, <move>, undo, quit/exit, verbose, history, help/?")
	c.ShowMessage("Example: 'resume 4k3/8/8/8/8/8/8/4K2R w - - 0 1' to start from a puzzle.")
	c.ShowMessage("Press ENTER to execute computer moves when it's computer's turn.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(v *service.GameView) {
	c.ShowMessage(fmt.Sprintf("Starting FEN: %s", v.InitialFEN))
	c.ShowMessage(fmt.Sprintf("White: %s (%s)  Black: %s (%s)  Seed: %d",
		v.White.Name, v.White.Type, v.Black.Name, v.Black.Type, v.Seed))

	// A game resumed with black to move opens with a gap
	moves := append([]string(nil), v.Moves...)
	if c.verbose {
		for i, kind := range v.Captures {
			if i < len(moves) && kind != board.NoKind {
				moves[i] += "x" + string(kind.Letter())
			}
		}
	}
	if strings.Fields(v.InitialFEN)[1] == "b" {
		moves = append([]string{"..."}, moves...)
	}
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		white := moves[i]
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, white, moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, white))
		}
	}
	c.ShowMessage(fmt.Sprintf("Current FEN: %s", v.FEN))
	c.ShowMessage(fmt.Sprintf("Game state: %s", v.State))
}

// ShowMove reports a played move; humans only see their own in verbose mode
func (c *CLI) ShowMove(result *game.MoveResult, by core.Player) {
	if result == nil || result.Move == (board.Move{}) {
		return
	}
	if by.Type == core.PlayerHuman && !c.verbose {
		return
	}

	kind := by.Type.String()
	msg := fmt.Sprintf("%s%s %s (%s): %s", strings.ToUpper(kind[:1]), kind[1:], by.Name, result.Color, result.Notation())
	if c.verbose {
		if result.Captured != nil {
			msg += fmt.Sprintf(" captures %s", result.Captured.Kind)
		}
		for _, p := range result.Promotions {
			msg += fmt.Sprintf(", promotes to %s on %s", p.Piece.Kind, p.At)
		}
	}
	c.ShowMessage(msg)
}

// ShowCheck warns the side to move
func (c *CLI) ShowCheck(colors []core.Color) {
	for _, col := range colors {
		c.ShowMessage(c.paint(noticeText, fmt.Sprintf("%s is in check", col.Name())))
	}
}

func (c *CLI) ShowGameOver(state core.State, reason core.Reason, cause error) {
	msg := fmt.Sprintf("\nGame Over: %s", state)
	if reason != core.ReasonNone {
		msg += fmt.Sprintf(" by %s", reason)
	}
	c.ShowMessage(c.paint(noticeText, msg))
	if cause != nil && c.verbose {
		c.ShowMessage(fmt.Sprintf("Cause: %v", cause))
	}
	c.ShowMessage("Start a new game with 'new' or 'resume'.")
}

func (c *CLI) ShowStats(stats *prefs.Stats) {
	c.ShowMessage(fmt.Sprintf("Games: %d  White wins: %d  Black wins: %d  Draws: %d",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws))
	reasons := make([]string, 0, len(stats.ByReason))
	for reason := range stats.ByReason {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		c.ShowMessage(fmt.Sprintf("  %-22s %d", reason+":", stats.ByReason[reason]))
	}
}
