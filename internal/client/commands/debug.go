// FILE: internal/client/commands/debug.go
package commands

import (
	"fmt"
	"strings"
	"time"

	"chessrules/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     r.healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     r.urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send raw API request",
		Usage:       "raw <method> <path> [json-body]",
		Handler:     r.rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "verbose",
		ShortName:   "v",
		Description: "Toggle verbose output",
		Usage:       "verbose",
		Handler:     r.verboseHandler,
	})

	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Clear screen",
		Usage:       "clear",
		Handler:     r.clearHandler,
	})
}

func (r *Registry) healthHandler(args []string) error {
	resp, err := r.session.Client.Health()
	if err != nil {
		return err
	}

	display.Println(r.out, display.Info, "Server Health:")
	fmt.Fprintf(r.out, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(r.out, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	if resp.Storage != "" {
		fmt.Fprintf(r.out, "  Storage: %s\n", resp.Storage)
	}
	return nil
}

func (r *Registry) urlHandler(args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Current API URL: %s\n", r.session.APIBaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	r.session.APIBaseURL = url
	r.session.Client.SetBaseURL(url)

	display.Println(r.out, display.Info, "API URL set to: %s", url)
	return nil
}

func (r *Registry) rawRequestHandler(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}

	method := strings.ToUpper(args[0])
	body := ""
	if len(args) > 2 {
		body = strings.Join(args[2:], " ")
	}

	return r.session.Client.RawRequest(method, args[1], body)
}

func (r *Registry) verboseHandler(args []string) error {
	r.session.Verbose = !r.session.Verbose
	state := "off"
	if r.session.Verbose {
		state = "on"
	}
	display.Println(r.out, display.Info, "Verbose output %s", state)
	return nil
}

func (r *Registry) clearHandler(args []string) error {
	fmt.Fprint(r.out, "\033[H\033[2J")
	return nil
}
