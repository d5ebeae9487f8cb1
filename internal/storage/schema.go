// FILE: internal/storage/schema.go
package storage

import (
	"database/sql"
	"time"
)

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID        string       `db:"game_id"`
	InitialFEN    string       `db:"initial_fen"`
	WhitePlayerID string       `db:"white_player_id"`
	WhiteName     string       `db:"white_name"`
	WhiteType     int          `db:"white_type"`
	BlackPlayerID string       `db:"black_player_id"`
	BlackName     string       `db:"black_name"`
	BlackType     int          `db:"black_type"`
	Seed          int64        `db:"seed"`
	Result        string       `db:"result"` // core.State text, "ongoing" until finished
	Reason        string       `db:"reason"`
	StartTimeUTC  time.Time    `db:"start_time_utc"`
	EndTimeUTC    sql.NullTime `db:"end_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID       int64     `db:"move_id"`
	GameID       string    `db:"game_id"`
	MoveNumber   int       `db:"move_number"`
	Move         string    `db:"move"` // Coordinate notation, e.g. e7e8q
	FENAfterMove string    `db:"fen_after_move"`
	PlayerColor  string    `db:"player_color"` // "w" or "b"
	Captured     string    `db:"captured"`     // Piece kind name, empty if none
	MoveTimeUTC  time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	white_player_id TEXT NOT NULL,
	white_name TEXT NOT NULL DEFAULT '',
	white_type INTEGER NOT NULL,
	black_player_id TEXT NOT NULL,
	black_name TEXT NOT NULL DEFAULT '',
	black_type INTEGER NOT NULL,
	seed INTEGER NOT NULL DEFAULT 0,
	result TEXT NOT NULL DEFAULT 'ongoing',
	reason TEXT NOT NULL DEFAULT '',
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	end_time_utc DATETIME
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move TEXT NOT NULL,
	fen_after_move TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	captured TEXT NOT NULL DEFAULT '',
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_white_player ON games(white_player_id);
CREATE INDEX IF NOT EXISTS idx_games_black_player ON games(black_player_id);
CREATE INDEX IF NOT EXISTS idx_games_result ON games(result);
`
