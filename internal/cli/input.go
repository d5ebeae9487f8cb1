// FILE: internal/cli/input.go
package cli

import (
	"bufio"
	"io"
)

// LineReader supplies one line of user input per call. readline.Instance
// satisfies it directly.
type LineReader interface {
	Readline() (string, error)
}

// prompter is implemented by readers that draw their own prompt
type prompter interface {
	SetPrompt(string)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

// NewScanner wraps a plain reader for non-interactive input
func NewScanner(r io.Reader) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r)}
}

func (s *scannerReader) Readline() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}
