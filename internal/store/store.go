package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
)

// Store wraps a Postgres connection and persists the rated teams that feed a
// simulation. Simulation results are never stored.
type Store struct {
	DB *sql.DB
}

// NewStore opens a Postgres connection using the given connection string.
func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS teams (
        id       SERIAL PRIMARY KEY,
        name     TEXT             NOT NULL UNIQUE,
        country  TEXT             NOT NULL DEFAULT '',
        elo      DOUBLE PRECISION NOT NULL DEFAULT 0,
        strength DOUBLE PRECISION NOT NULL CHECK (strength >= 0 AND strength <= 1)
    );
    `,
	}
	for _, q := range queries {
		if _, err := s.DB.Exec(q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// UpsertTeams inserts teams or refreshes their ratings in one transaction.
func (s *Store) UpsertTeams(teams []league.Team) error {
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("upserting teams: %w", err)
		}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin UpsertTeams tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
    INSERT INTO teams (name, country, elo, strength)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (name) DO UPDATE
    SET country = EXCLUDED.country, elo = EXCLUDED.elo, strength = EXCLUDED.strength
    `
	for _, t := range teams {
		if _, err := tx.Exec(q, t.Name, t.Country, t.Elo, t.Strength); err != nil {
			return fmt.Errorf("upserting team %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit UpsertTeams tx: %w", err)
	}
	return nil
}

// GetTeams returns every stored team in insertion order.
func (s *Store) GetTeams() ([]league.Team, error) {
	const q = `
        SELECT
            name,
            country,
            elo,
            strength
        FROM teams
        ORDER BY id
    `

	rows, err := s.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []league.Team
	for rows.Next() {
		var t league.Team
		if err := rows.Scan(
			&t.Name,
			&t.Country,
			&t.Elo,
			&t.Strength,
		); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams rows: %w", err)
	}
	return teams, nil
}

func (s *Store) DeleteAllTeams() error {
	_, err := s.DB.Exec(`DELETE FROM teams;`)
	if err != nil {
		return fmt.Errorf("deleting all teams: %w", err)
	}
	return nil
}
