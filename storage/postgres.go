package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ewintr.nl/ytideas/model"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func (pi PostgresInfo) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", pi.Host, pi.Port, pi.User, pi.Password, pi.Database)
}

type Postgres struct {
	db *sql.DB
}

func NewPostgres(pgInfo PostgresInfo) (*Postgres, error) {
	db, err := sql.Open("postgres", pgInfo.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	p := &Postgres{db: db}
	if err := p.migrate(pgMigration); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

var pgMigration = []string{
	`CREATE TYPE run_status AS ENUM ('new', 'filtered', 'generated', 'researched', 'ready', 'failed')`,
	`CREATE TABLE run (
id uuid PRIMARY KEY,
status run_status NOT NULL,
source VARCHAR(255) NOT NULL,
comments JSONB NOT NULL DEFAULT '[]',
ideas JSONB NOT NULL DEFAULT '[]',
error TEXT NOT NULL DEFAULT '',
created_at TIMESTAMP WITH TIME ZONE NOT NULL,
updated_at TIMESTAMP WITH TIME ZONE NOT NULL
)`,
	`CREATE INDEX run_status_idx ON run (status)`,
}

func (p *Postgres) migrate(wanted []string) error {
	query := `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`
	_, err := p.db.Exec(query)
	if err != nil {
		return err
	}

	// find existing
	rows, err := p.db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return err
	}

	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, query)
	}
	rows.Close()

	// compare
	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	// execute missing
	for _, query := range missing {
		if _, err := p.db.Exec(query); err != nil {
			return err
		}

		// register
		if _, err := p.db.Exec(`
INSERT INTO migration
(query) VALUES ($1)
`, query); err != nil {
			return err
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	needed := []string{}
	if len(wanted) < len(existing) {
		return []string{}, fmt.Errorf("not enough migrations")
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want == existing[i]:
			// do nothing
		case want != existing[i]:
			return []string{}, fmt.Errorf("incompatible migration: %v", want)
		}
	}

	return needed, nil
}

type PostgresRunRepository struct {
	*Postgres
}

func NewPostgresRunRepository(postgres *Postgres) *PostgresRunRepository {
	return &PostgresRunRepository{postgres}
}

func (p *PostgresRunRepository) Save(run *model.Run) error {
	comments, ideas, err := marshalRun(run)
	if err != nil {
		return err
	}

	query := `INSERT INTO run (id, status, source, comments, ideas, error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id)
DO UPDATE SET
  status = EXCLUDED.status,
  comments = EXCLUDED.comments,
  ideas = EXCLUDED.ideas,
  error = EXCLUDED.error,
  updated_at = EXCLUDED.updated_at`
	if _, err := p.db.Exec(query, run.ID, run.Status, run.Source, comments, ideas, run.Error, run.CreatedAt, run.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	return nil
}

func (p *PostgresRunRepository) FindByID(id uuid.UUID) (*model.Run, error) {
	query := `SELECT id, status, source, comments, ideas, error, created_at, updated_at
FROM run
WHERE id = $1`
	run, err := scanRun(p.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return run, nil
}

func (p *PostgresRunRepository) FindByStatus(statuses ...model.RunStatus) ([]*model.Run, error) {
	strStatuses := make([]string, len(statuses))
	for i, s := range statuses {
		strStatuses[i] = string(s)
	}

	query := `SELECT id, status, source, comments, ideas, error, created_at, updated_at
FROM run
WHERE status = ANY($1::run_status[])
ORDER BY created_at`
	rows, err := p.db.Query(query, pq.Array(strStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*model.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var (
		run      model.Run
		status   string
		comments []byte
		ideas    []byte
	)
	if err := row.Scan(&run.ID, &status, &run.Source, &comments, &ideas, &run.Error, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if err := json.Unmarshal(comments, &run.Comments); err != nil {
		return nil, fmt.Errorf("invalid comments for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal(ideas, &run.Ideas); err != nil {
		return nil, fmt.Errorf("invalid ideas for run %s: %w", run.ID, err)
	}

	return &run, nil
}

func marshalRun(run *model.Run) ([]byte, []byte, error) {
	comments := run.Comments
	if comments == nil {
		comments = []model.Comment{}
	}
	ideas := run.Ideas
	if ideas == nil {
		ideas = []model.VideoIdea{}
	}

	cJSON, err := json.Marshal(comments)
	if err != nil {
		return nil, nil, err
	}
	iJSON, err := json.Marshal(ideas)
	if err != nil {
		return nil, nil, err
	}

	return cJSON, iJSON, nil
}
