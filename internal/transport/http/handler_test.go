package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newApp(t *testing.T, cfg Config) *fiber.App {
	t.Helper()
	svc, err := service.New(nil)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return NewFiberApp(svc, cfg)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func createGame(t *testing.T, app *fiber.App, body string) core.GameResponse {
	t.Helper()
	status, data := do(t, app, http.MethodPost, "/api/v1/games", body)
	if status != fiber.StatusCreated {
		t.Fatalf("create: %d %s", status, data)
	}
	return decode[core.GameResponse](t, data)
}

func TestHealth(t *testing.T) {
	app := newApp(t, Config{})
	status, data := do(t, app, http.MethodGet, "/health", "")
	if status != fiber.StatusOK {
		t.Fatalf("health: %d", status)
	}
	health := decode[map[string]any](t, data)
	if health["status"] != "healthy" || health["storage"] != "disabled" {
		t.Fatalf("unexpected health %v", health)
	}
}

func TestGameFlow(t *testing.T) {
	app := newApp(t, Config{})
	game := createGame(t, app, `{"white":{"type":1,"name":"alice"},"black":{"type":2},"seed":9}`)

	if game.FEN != board.StartingFEN || game.Turn != "w" || game.State != "ongoing" || game.Seed != 9 {
		t.Fatalf("unexpected new game %+v", game)
	}
	if game.Players.White.Name != "alice" || game.Players.Black.Type != core.PlayerComputer {
		t.Fatalf("unexpected players %+v %+v", game.Players.White, game.Players.Black)
	}
	base := "/api/v1/games/" + game.GameID

	status, data := do(t, app, http.MethodPost, base+"/moves", `{"move":"cccc"}`)
	if status != fiber.StatusBadRequest || decode[core.ErrorResponse](t, data).Code != core.ErrNotComputerTurn {
		t.Fatalf("expected NOT_COMPUTER_TURN, got %d %s", status, data)
	}

	status, data = do(t, app, http.MethodPost, base+"/moves", `{"move":"e2e5"}`)
	if status != fiber.StatusBadRequest || decode[core.ErrorResponse](t, data).Code != core.ErrInvalidMove {
		t.Fatalf("expected INVALID_MOVE, got %d %s", status, data)
	}

	status, data = do(t, app, http.MethodPost, base+"/moves", `{"move":"e2e4"}`)
	if status != fiber.StatusOK {
		t.Fatalf("move: %d %s", status, data)
	}
	game = decode[core.GameResponse](t, data)
	if game.Turn != "b" || len(game.Moves) != 1 || game.LastMove == nil || game.LastMove.Move != "e2e4" {
		t.Fatalf("unexpected state after e2e4: %+v", game)
	}

	status, data = do(t, app, http.MethodPost, base+"/moves", `{"move":"d2d4"}`)
	if status != fiber.StatusBadRequest || decode[core.ErrorResponse](t, data).Code != core.ErrNotHumanTurn {
		t.Fatalf("expected NOT_HUMAN_TURN, got %d %s", status, data)
	}

	status, data = do(t, app, http.MethodPost, base+"/moves", `{"move":"cccc"}`)
	if status != fiber.StatusOK {
		t.Fatalf("computer move: %d %s", status, data)
	}
	game = decode[core.GameResponse](t, data)
	if len(game.Moves) != 2 || game.LastMove.PlayerColor != "b" || game.Version != 2 {
		t.Fatalf("unexpected state after computer move: %+v", game)
	}

	status, data = do(t, app, http.MethodPost, base+"/undo", `{"count":2}`)
	if status != fiber.StatusOK {
		t.Fatalf("undo: %d %s", status, data)
	}
	game = decode[core.GameResponse](t, data)
	if len(game.Moves) != 0 || game.FEN != board.StartingFEN {
		t.Fatalf("undo did not restore start: %+v", game)
	}

	status, data = do(t, app, http.MethodPost, base+"/undo", "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected undo past start to fail, got %d %s", status, data)
	}

	status, data = do(t, app, http.MethodGet, base+"/board", "")
	if status != fiber.StatusOK {
		t.Fatalf("board: %d", status)
	}
	b := decode[core.BoardResponse](t, data)
	if b.FEN != board.StartingFEN || !strings.Contains(b.Board, "rnbqkbnr") {
		t.Fatalf("unexpected board %+v", b)
	}

	if status, _ = do(t, app, http.MethodDelete, base, ""); status != fiber.StatusNoContent {
		t.Fatalf("delete: %d", status)
	}
	status, data = do(t, app, http.MethodGet, base, "")
	if status != fiber.StatusNotFound || decode[core.ErrorResponse](t, data).Code != core.ErrGameNotFound {
		t.Fatalf("expected GAME_NOT_FOUND, got %d %s", status, data)
	}
}

func TestGameOverResponses(t *testing.T) {
	app := newApp(t, Config{})
	game := createGame(t, app, `{"white":{"type":1},"black":{"type":1},"fen":"4k3/8/8/8/8/8/8/4K3 w - - 0 1"}`)
	base := "/api/v1/games/" + game.GameID

	status, data := do(t, app, http.MethodPost, base+"/moves", `{"move":"e1e2"}`)
	if status != fiber.StatusOK {
		t.Fatalf("move: %d %s", status, data)
	}
	game = decode[core.GameResponse](t, data)
	if game.State != "draw" || game.Reason != "insufficient material" {
		t.Fatalf("expected kings-only draw, got %s %s", game.State, game.Reason)
	}

	status, data = do(t, app, http.MethodPost, base+"/moves", `{"move":"e1e2"}`)
	if status != fiber.StatusBadRequest || decode[core.ErrorResponse](t, data).Code != core.ErrGameOver {
		t.Fatalf("expected GAME_OVER, got %d %s", status, data)
	}
}

func TestRequestValidation(t *testing.T) {
	app := newApp(t, Config{})
	game := createGame(t, app, `{"white":{"type":1},"black":{"type":1}}`)
	base := "/api/v1/games/" + game.GameID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing player type", http.MethodPost, "/api/v1/games", `{"white":{"type":1},"black":{}}`, 400, core.ErrInvalidRequest},
		{"unknown player type", http.MethodPost, "/api/v1/games", `{"white":{"type":7},"black":{"type":1}}`, 400, core.ErrInvalidRequest},
		{"bad fen", http.MethodPost, "/api/v1/games", `{"white":{"type":1},"black":{"type":1},"fen":"xyz"}`, 400, core.ErrInvalidFEN},
		{"malformed json", http.MethodPost, "/api/v1/games", `{"white":`, 400, core.ErrInvalidRequest},
		{"short move", http.MethodPost, base + "/moves", `{"move":"e2"}`, 400, core.ErrInvalidRequest},
		{"undo count", http.MethodPost, base + "/undo", `{"count":0}`, 400, core.ErrInvalidRequest},
		{"bad game id", http.MethodGet, "/api/v1/games/not-a-uuid", "", 400, core.ErrInvalidRequest},
		{"unknown game", http.MethodGet, "/api/v1/games/" + uuid.New().String(), "", 404, core.ErrGameNotFound},
		{"bad version", http.MethodGet, base + "?wait=true&version=x", "", 400, core.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("expected %d, got %d %s", tt.status, status, data)
			}
			if code := decode[core.ErrorResponse](t, data).Code; code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code, code)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	app := newApp(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader("white=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.StatusCode)
	}
}

func TestLongPollStaleVersion(t *testing.T) {
	app := newApp(t, Config{})
	game := createGame(t, app, `{"white":{"type":1},"black":{"type":1}}`)
	base := "/api/v1/games/" + game.GameID

	do(t, app, http.MethodPost, base+"/moves", `{"move":"d2d4"}`)

	status, data := do(t, app, http.MethodGet, base+"?wait=true&version=0", "")
	if status != fiber.StatusOK {
		t.Fatalf("wait: %d %s", status, data)
	}
	if got := decode[core.GameResponse](t, data); got.Version != 1 || len(got.Moves) != 1 {
		t.Fatalf("expected version 1 with one move, got %+v", got)
	}
}

func TestRateLimit(t *testing.T) {
	app := newApp(t, Config{RateLimit: 2})
	path := "/api/v1/games/" + uuid.New().String()

	var limited bool
	for i := 0; i < 5; i++ {
		status, data := do(t, app, http.MethodGet, path, "")
		if status == fiber.StatusTooManyRequests {
			if decode[core.ErrorResponse](t, data).Code != core.ErrRateLimitExceeded {
				t.Fatalf("unexpected body %s", data)
			}
			limited = true
			break
		}
	}
	if !limited {
		t.Fatalf("rate limit never triggered")
	}

	// Health is outside the limited group
	if status, _ := do(t, app, http.MethodGet, "/health", ""); status != fiber.StatusOK {
		t.Fatalf("health limited: %d", status)
	}
}
