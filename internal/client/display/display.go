// FILE: internal/client/display/display.go
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fatih/color"
)

// Message styles; fatih/color drops the escapes when stdout is not a terminal
var (
	Info     = color.New(color.FgCyan)
	Success  = color.New(color.FgGreen)
	Warn     = color.New(color.FgYellow)
	Failure  = color.New(color.FgRed)
	Request  = color.New(color.FgBlue)
	Computer = color.New(color.FgMagenta)

	whitePiece = color.New(color.FgBlue, color.Bold)
	blackPiece = color.New(color.FgRed, color.Bold)
	label      = color.New(color.FgCyan)
)

// Println writes one styled line
func Println(w io.Writer, c *color.Color, format string, args ...any) {
	fmt.Fprintln(w, c.Sprintf(format, args...))
}

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Warn.Sprint(text) + " > "
}

// RenderBoard colors the server's ASCII board: white pieces, black pieces and
// the rank/file labels each get their own style
func RenderBoard(w io.Writer, asciiBoard string) {
	lines := strings.Split(asciiBoard, "\n")
	last := len(lines) - 1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		labelLine := i == 0 || i == last

		var sb strings.Builder
		for _, ch := range line {
			switch {
			case labelLine && ch >= 'a' && ch <= 'h', ch >= '1' && ch <= '8':
				sb.WriteString(label.Sprint(string(ch)))
			case unicode.IsUpper(ch):
				sb.WriteString(whitePiece.Sprint(string(ch)))
			case unicode.IsLower(ch):
				sb.WriteString(blackPiece.Sprint(string(ch)))
			default:
				sb.WriteRune(ch)
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return whitePiece.Sprint("White")
	}
	return blackPiece.Sprint("Black")
}

// PrettyPrintJSON prints formatted JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Println(w, Failure, "Error formatting JSON: %v", err)
		return
	}
	fmt.Fprintln(w, string(data))
}
