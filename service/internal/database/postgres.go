package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
)

// PostgresStore keeps results in Postgres through a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and runs migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: cannot create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: cannot connect: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: migration failed: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_results (
			id BIGSERIAL PRIMARY KEY,
			game_id UUID NOT NULL,
			deal_index INTEGER NOT NULL,
			winning_team SMALLINT NOT NULL,
			team1_score INTEGER NOT NULL,
			team2_score INTEGER NOT NULL,
			team1_card_points INTEGER NOT NULL,
			team2_card_points INTEGER NOT NULL,
			vueltas BOOLEAN NOT NULL DEFAULT FALSE,
			reason TEXT NOT NULL,
			match_over BOOLEAN NOT NULL DEFAULT FALSE,
			team1_cotos INTEGER NOT NULL DEFAULT 0,
			team2_cotos INTEGER NOT NULL DEFAULT 0,
			finished_at TIMESTAMPTZ NOT NULL,
			UNIQUE (game_id, deal_index)
		)`)
	return err
}

// SaveResult upserts res keyed by game and deal index.
func (s *PostgresStore) SaveResult(ctx context.Context, res models.GameResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO game_results (
			game_id, deal_index, winning_team, team1_score, team2_score,
			team1_card_points, team2_card_points, vueltas, reason, match_over,
			team1_cotos, team2_cotos, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (game_id, deal_index) DO UPDATE SET
			winning_team = EXCLUDED.winning_team,
			team1_score = EXCLUDED.team1_score,
			team2_score = EXCLUDED.team2_score,
			team1_card_points = EXCLUDED.team1_card_points,
			team2_card_points = EXCLUDED.team2_card_points,
			vueltas = EXCLUDED.vueltas,
			reason = EXCLUDED.reason,
			match_over = EXCLUDED.match_over,
			team1_cotos = EXCLUDED.team1_cotos,
			team2_cotos = EXCLUDED.team2_cotos,
			finished_at = EXCLUDED.finished_at`,
		res.GameID, res.DealIndex, res.WinningTeam, res.Team1Score, res.Team2Score,
		res.Team1CardPoints, res.Team2CardPoints, res.Vueltas, res.Reason, res.MatchOver,
		res.Team1Cotos, res.Team2Cotos, res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("database: cannot save result for %s: %w", res.GameID, err)
	}
	return nil
}

// Results returns the recorded deals of a game in deal order.
func (s *PostgresStore) Results(ctx context.Context, gameID uuid.UUID) ([]models.GameResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT game_id, deal_index, winning_team, team1_score, team2_score,
			team1_card_points, team2_card_points, vueltas, reason, match_over,
			team1_cotos, team2_cotos, finished_at
		FROM game_results
		WHERE game_id = $1
		ORDER BY deal_index`, gameID)
	if err != nil {
		return nil, fmt.Errorf("database: cannot query results: %w", err)
	}
	defer rows.Close()

	var out []models.GameResult
	for rows.Next() {
		var r models.GameResult
		if err := rows.Scan(&r.GameID, &r.DealIndex, &r.WinningTeam, &r.Team1Score, &r.Team2Score,
			&r.Team1CardPoints, &r.Team2CardPoints, &r.Vueltas, &r.Reason, &r.MatchOver,
			&r.Team1Cotos, &r.Team2Cotos, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("database: cannot scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: row iteration error: %w", err)
	}
	return out, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
