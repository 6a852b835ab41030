package journal

import (
	"context"
	"time"
)

// Run and topic statuses recorded in the journal.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"

	TopicSkipped   = "skipped"
	TopicCompleted = "completed"
	TopicFailed    = "failed"
)

// RunRecord is one orchestrator run: which units were requested and how
// the run ended.
type RunRecord struct {
	RunID      string
	Units      []string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// TopicOutcome is one topic's fate within a run. Detail carries the
// failure message for failed topics and is empty otherwise.
type TopicOutcome struct {
	RunID      string
	TopicID    string
	TopicName  string
	Status     string
	QuizID     string
	Score      int
	ReportFile string
	Detail     string
	RecordedAt time.Time
}

// Recorder persists the audit trail of runs. It is an audit log only:
// nothing in the probing path reads it back.
type Recorder interface {
	RecordRun(ctx context.Context, run RunRecord) error
	RecordTopicOutcome(ctx context.Context, outcome TopicOutcome) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
	ListTopicOutcomes(ctx context.Context, runID string) ([]TopicOutcome, error)
}
