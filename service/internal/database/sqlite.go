package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// SQLiteStore keeps results in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path, creating parent
// directories and running migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("database: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("database: cannot create directory for %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database: cannot open %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: cannot connect to %s: %w", path, err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS game_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			deal_index INTEGER NOT NULL,
			winning_team INTEGER NOT NULL,
			team1_score INTEGER NOT NULL,
			team2_score INTEGER NOT NULL,
			team1_card_points INTEGER NOT NULL,
			team2_card_points INTEGER NOT NULL,
			vueltas INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL,
			match_over INTEGER NOT NULL DEFAULT 0,
			team1_cotos INTEGER NOT NULL DEFAULT 0,
			team2_cotos INTEGER NOT NULL DEFAULT 0,
			finished_at INTEGER NOT NULL,
			UNIQUE (game_id, deal_index)
		);
		CREATE INDEX IF NOT EXISTS idx_game_results_game_id ON game_results(game_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveResult inserts res, replacing an earlier row for the same deal.
func (s *SQLiteStore) SaveResult(ctx context.Context, res models.GameResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO game_results (
			game_id, deal_index, winning_team, team1_score, team2_score,
			team1_card_points, team2_card_points, vueltas, reason, match_over,
			team1_cotos, team2_cotos, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.GameID.String(), res.DealIndex, res.WinningTeam, res.Team1Score, res.Team2Score,
		res.Team1CardPoints, res.Team2CardPoints, boolInt(res.Vueltas), res.Reason, boolInt(res.MatchOver),
		res.Team1Cotos, res.Team2Cotos, res.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("database: cannot save result for %s: %w", res.GameID, err)
	}
	return nil
}

// Results returns the recorded deals of a game in deal order.
func (s *SQLiteStore) Results(ctx context.Context, gameID uuid.UUID) ([]models.GameResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, deal_index, winning_team, team1_score, team2_score,
			team1_card_points, team2_card_points, vueltas, reason, match_over,
			team1_cotos, team2_cotos, finished_at
		 FROM game_results
		 WHERE game_id = ?
		 ORDER BY deal_index`,
		gameID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("database: cannot query results: %w", err)
	}
	defer rows.Close()

	var out []models.GameResult
	for rows.Next() {
		var (
			r               models.GameResult
			id              string
			vueltas, over   int
			finishedAtMilli int64
		)
		if err := rows.Scan(&id, &r.DealIndex, &r.WinningTeam, &r.Team1Score, &r.Team2Score,
			&r.Team1CardPoints, &r.Team2CardPoints, &vueltas, &r.Reason, &over,
			&r.Team1Cotos, &r.Team2Cotos, &finishedAtMilli); err != nil {
			return nil, fmt.Errorf("database: cannot scan row: %w", err)
		}
		if r.GameID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("database: bad game id %q: %w", id, err)
		}
		r.Vueltas = vueltas != 0
		r.MatchOver = over != 0
		r.FinishedAt = time.UnixMilli(finishedAtMilli)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: row iteration error: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
