// FILE: internal/client/commands/registry.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chessrules/internal/client/display"
	"chessrules/internal/client/session"
)

// errExit ends the client loop
var errExit = errors.New("exit")

// Input supplies answers to interactive prompts
type Input interface {
	Readline() (string, error)
}

type prompter interface {
	SetPrompt(string)
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(args []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *session.Session
	commands map[string]*Command
	in       Input
	out      io.Writer
}

func NewRegistry(s *session.Session, in Input, out io.Writer) *Registry {
	r := &Registry{
		session:  s,
		commands: make(map[string]*Command),
		in:       in,
		out:      out,
	}

	r.registerGameCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     func([]string) error { return errExit },
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line and reports whether the client should exit.
// A trailing " -v" turns on verbose output for that command only.
func (r *Registry) Execute(input string) (exit bool) {
	input = strings.TrimSpace(input)
	verbose := r.session.Verbose
	if strings.HasSuffix(input, " -v") {
		verbose = true
		input = strings.TrimSuffix(input, " -v")
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		display.Println(r.out, display.Failure, "Unknown command: %s", parts[0])
		fmt.Fprintln(r.out, "Type 'help' for available commands")
		return false
	}

	r.session.Client.SetVerbose(verbose)
	err := cmd.Handler(parts[1:])
	if errors.Is(err, errExit) {
		display.Println(r.out, display.Info, "Goodbye!")
		return true
	}
	if err != nil {
		display.Println(r.out, display.Failure, "Error: %v", err)
	}
	return false
}

// ask prompts for one line; EOF or a read error yields the empty answer
func (r *Registry) ask(prompt string) string {
	if p, ok := r.in.(prompter); ok {
		p.SetPrompt(prompt)
	} else {
		fmt.Fprint(r.out, prompt)
	}
	line, err := r.in.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (r *Registry) helpHandler(args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(r.out, "\n%s - %s\n", display.Info.Sprint(cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(r.out, "Short form: %s\n", display.Info.Sprint(cmd.ShortName))
		}
		fmt.Fprintf(r.out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintf(r.out, "\n%s\n\n", display.Info.Sprint("Available Commands:"))

	printGroup := func(title string, names []string) {
		display.Println(r.out, display.Warn, "%s:", title)
		for _, name := range names {
			cmd, exists := r.commands[name]
			if !exists {
				continue
			}
			short := ""
			if cmd.ShortName != "" {
				short = fmt.Sprintf("[%s] ", display.Info.Sprint(cmd.ShortName))
			}
			fmt.Fprintf(r.out, "  %s%-10s %s\n", short, cmd.Name, cmd.Description)
		}
	}

	printGroup("Game Commands", []string{"new", "join", "move", "computer", "undo", "show", "state", "delete", "poll"})
	fmt.Fprintln(r.out)
	printGroup("Utility Commands", []string{"health", "url", "raw", "verbose", "clear", "help", "exit"})

	fmt.Fprintln(r.out, "\nType 'help <command>' for detailed usage")
	fmt.Fprintln(r.out, "Add '-v' to any command for verbose output")
	return nil
}
