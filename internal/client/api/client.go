// FILE: internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

// HealthResponse mirrors the server's /health body
type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage,omitempty"`
}

// Error is a non-2xx API reply
type Error struct {
	Status   int
	Response core.ErrorResponse
}

func (e *Error) Error() string {
	if e.Response.Code != "" {
		return fmt.Sprintf("request failed with status %d (%s)", e.Status, e.Response.Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client talks to the chess API and traces every exchange to Out
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string, out io.Writer) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Outlasts the server's long poll window
			Timeout: 30 * time.Second,
		},
		Out: out,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	url := c.BaseURL + path

	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		bodyStr = string(jsonData)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	fmt.Fprintln(c.Out)
	display.Println(c.Out, display.Request, "[API] %s %s", method, path)
	if bodyStr != "" {
		if c.Verbose {
			display.Println(c.Out, display.Info, "Request Body:")
			display.PrettyPrintJSON(c.Out, json.RawMessage(bodyStr))
		} else {
			display.Println(c.Out, display.Request, "%s", bodyStr)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		display.Println(c.Out, display.Failure, "[ERROR] %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Success
	if resp.StatusCode >= 400 {
		statusColor = display.Failure
	}
	display.Println(c.Out, statusColor, "[%d %s]", resp.StatusCode, http.StatusText(resp.StatusCode))

	if c.Verbose && len(respBody) > 0 {
		display.Println(c.Out, display.Info, "Response Body:")
		if json.Valid(respBody) {
			display.PrettyPrintJSON(c.Out, json.RawMessage(respBody))
		} else {
			fmt.Fprintln(c.Out, string(respBody))
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		r := &apiErr.Response
		if err := json.Unmarshal(respBody, r); err != nil {
			r.Details = string(respBody)
		}
		if !c.Verbose {
			if r.Error != "" {
				display.Println(c.Out, display.Failure, "Error: %s", r.Error)
			}
			if r.Code != "" {
				display.Println(c.Out, display.Failure, "Code: %s", r.Code)
			}
			if r.Details != "" {
				display.Println(c.Out, display.Failure, "Details: %s", r.Details)
			}
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			display.Println(c.Out, display.Failure, "Response parse error: %v", err)
			display.Println(c.Out, display.Success, "Raw response: %s", respBody)
			return err
		}
	}

	return nil
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// WaitForUpdate long polls until the game moves past version
func (c *Client) WaitForUpdate(gameID string, version int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&version=%d", gameID, version)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

// MakeMove submits a coordinate move, or "cccc" to let the computer play
func (c *Client) MakeMove(gameID string, move string) (*core.GameResponse, error) {
	req := &core.MoveRequest{Move: move}
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/moves", req, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	req := &core.UndoRequest{Count: count}
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/undo", req, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}

// RawRequest performs a raw HTTP request for debugging purposes
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			// Try as raw string
			bodyData = body
		}
	}

	return c.doRequest(method, path, bodyData, nil)
}
