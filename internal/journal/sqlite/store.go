package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tessbot/internal/journal"
)

// Store persists the run journal in a local SQLite database.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "tessbot.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			units TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at_unix INTEGER NOT NULL,
			finished_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS topic_outcomes (
			run_id TEXT NOT NULL,
			topic_id TEXT NOT NULL,
			topic_name TEXT NOT NULL,
			status TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			report_file TEXT NOT NULL,
			detail TEXT NOT NULL,
			recorded_at_unix INTEGER NOT NULL,
			PRIMARY KEY (run_id, topic_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at_unix DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_topic_outcomes_run ON topic_outcomes(run_id, recorded_at_unix);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) RecordRun(ctx context.Context, run journal.RunRecord) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO runs (run_id, units, status, started_at_unix, finished_at_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		run.RunID,
		strings.Join(run.Units, " "),
		run.Status,
		run.StartedAt.UnixNano(),
		run.FinishedAt.UnixNano(),
	)
	return err
}

func (s *Store) RecordTopicOutcome(ctx context.Context, outcome journal.TopicOutcome) error {
	if outcome.RecordedAt.IsZero() {
		outcome.RecordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO topic_outcomes
		 (run_id, topic_id, topic_name, status, quiz_id, score, report_file, detail, recorded_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID,
		outcome.TopicID,
		outcome.TopicName,
		outcome.Status,
		outcome.QuizID,
		outcome.Score,
		outcome.ReportFile,
		outcome.Detail,
		outcome.RecordedAt.UnixNano(),
	)
	return err
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]journal.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, units, status, started_at_unix, finished_at_unix
		 FROM runs
		 ORDER BY started_at_unix DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]journal.RunRecord, 0)
	for rows.Next() {
		var (
			run          journal.RunRecord
			units        string
			startedUnix  int64
			finishedUnix int64
		)
		if err := rows.Scan(&run.RunID, &units, &run.Status, &startedUnix, &finishedUnix); err != nil {
			return nil, err
		}
		run.Units = strings.Fields(units)
		run.StartedAt = time.Unix(0, startedUnix).UTC()
		run.FinishedAt = time.Unix(0, finishedUnix).UTC()
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *Store) ListTopicOutcomes(ctx context.Context, runID string) ([]journal.TopicOutcome, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, topic_id, topic_name, status, quiz_id, score, report_file, detail, recorded_at_unix
		 FROM topic_outcomes
		 WHERE run_id = ?
		 ORDER BY recorded_at_unix ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := make([]journal.TopicOutcome, 0)
	for rows.Next() {
		var (
			outcome      journal.TopicOutcome
			recordedUnix int64
		)
		if err := rows.Scan(
			&outcome.RunID,
			&outcome.TopicID,
			&outcome.TopicName,
			&outcome.Status,
			&outcome.QuizID,
			&outcome.Score,
			&outcome.ReportFile,
			&outcome.Detail,
			&recordedUnix,
		); err != nil {
			return nil, err
		}
		outcome.RecordedAt = time.Unix(0, recordedUnix).UTC()
		outcomes = append(outcomes, outcome)
	}

	return outcomes, rows.Err()
}
