package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New wraps an open database handle. Call Migrate first on a fresh database.
func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the underlying database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

var _ storage.Storage = (*Storage)(nil)

// Competitor operations

func (s *Storage) SaveCompetitor(ctx context.Context, tournamentID model.TournamentID, competitor model.Competitor) error {
	// The conflict branch leaves seq untouched so the enrollment position survives
	query := `
		INSERT INTO tournament_players (tournament_id, player_id, username, college, gender)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tournament_id, player_id) DO UPDATE
		SET username = EXCLUDED.username, college = EXCLUDED.college, gender = EXCLUDED.gender`
	_, err := s.db.ExecContext(ctx, query,
		string(tournamentID), string(competitor.ID), competitor.DisplayName,
		competitor.Affiliation, competitor.GenderTag,
	)
	if err != nil {
		return fmt.Errorf("save competitor %s: %w", competitor.ID, err)
	}
	return nil
}

func (s *Storage) DeleteCompetitor(ctx context.Context, tournamentID model.TournamentID, id model.CompetitorID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tournament_players WHERE tournament_id = $1 AND player_id = $2`,
		string(tournamentID), string(id),
	)
	if err != nil {
		return fmt.Errorf("delete competitor %s: %w", id, err)
	}
	return checkAffectedRows(result, model.ErrCompetitorNotFound)
}

func (s *Storage) ListCompetitors(ctx context.Context, tournamentID model.TournamentID) ([]model.Competitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, username, college, gender
		FROM tournament_players
		WHERE tournament_id = $1
		ORDER BY seq`, string(tournamentID))
	if err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}
	defer rows.Close()

	competitors := []model.Competitor{}
	for rows.Next() {
		var c model.Competitor
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.Affiliation, &c.GenderTag); err != nil {
			return nil, fmt.Errorf("scan competitor: %w", err)
		}
		competitors = append(competitors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list competitors: %w", err)
	}
	return competitors, nil
}

// Schedule operations

func (s *Storage) GetSchedule(ctx context.Context, tournamentID model.TournamentID) (*model.Schedule, error) {
	schedule := model.Schedule{TournamentID: tournamentID}
	var rounds []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT total_rounds, rounds, generated_at
		FROM tournament_pairings
		WHERE tournament_id = $1`, string(tournamentID),
	).Scan(&schedule.TotalRounds, &rounds, &schedule.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	if err := json.Unmarshal(rounds, &schedule.Rounds); err != nil {
		return nil, fmt.Errorf("decode schedule rounds: %w", err)
	}
	return &schedule, nil
}

func (s *Storage) ReplaceSchedule(ctx context.Context, schedule *model.Schedule) (err error) {
	rounds, err := json.Marshal(schedule.Rounds)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace schedule: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM tournament_pairings WHERE tournament_id = $1`,
		string(schedule.TournamentID),
	); err != nil {
		return fmt.Errorf("replace schedule: delete: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO tournament_pairings (tournament_id, total_rounds, rounds, generated_at)
		VALUES ($1, $2, $3, $4)`,
		string(schedule.TournamentID), schedule.TotalRounds, rounds, schedule.GeneratedAt,
	); err != nil {
		return fmt.Errorf("replace schedule: insert: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("replace schedule: commit: %w", err)
	}
	return nil
}

func (s *Storage) DeleteSchedule(ctx context.Context, tournamentID model.TournamentID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM tournament_pairings WHERE tournament_id = $1`, string(tournamentID),
	); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}
