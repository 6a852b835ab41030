package solver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tessbot/internal/journal"
	"tessbot/internal/tesseract"
)

// TopicResult is one topic's fate within a run. A failed topic never
// stops the run; the error is carried here instead.
type TopicResult struct {
	TopicID    string
	TopicName  string
	Status     string
	QuizID     string
	FinalScore int
	ReportFile string
	Report     string
	Err        error
}

// RunSummary aggregates a whole run: per-topic results plus the ordered
// human-readable log shown to the caller.
type RunSummary struct {
	RunID      string
	Units      []string
	Topics     []TopicResult
	Log        []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Completed counts topics whose quiz was run to the end.
func (s *RunSummary) Completed() int {
	count := 0
	for _, topic := range s.Topics {
		if topic.Status == journal.TopicCompleted {
			count++
		}
	}
	return count
}

// Orchestrator walks units and topics sequentially, skipping topics
// already passed and containing per-topic failures. The journal
// recorder is optional; recording failures are logged, never fatal.
type Orchestrator struct {
	api      QuizService
	runner   *Runner
	recorder journal.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrchestrator(api QuizService, runner *Runner, recorder journal.Recorder, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		api:      api,
		runner:   runner,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Run processes the given unit ids in order. Listing the topics of a
// unit is a run-level operation: if it fails the whole run aborts.
// Everything below that is contained per topic.
func (o *Orchestrator) Run(ctx context.Context, units []string) (*RunSummary, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Units:     units,
		StartedAt: o.now().UTC(),
	}

	for _, unit := range units {
		topics, err := o.api.ListTopics(ctx, unit)
		if err != nil {
			o.finishRun(ctx, summary, journal.RunFailed)
			return nil, fmt.Errorf("list topics for unit %s: %w", unit, err)
		}

		for _, topic := range topics {
			if !topic.ContentFlag {
				continue
			}
			result := o.processTopic(ctx, summary, topic)
			o.recordOutcome(ctx, summary.RunID, result)
			summary.addResult(result)
		}
	}

	o.finishRun(ctx, summary, journal.RunCompleted)
	return summary, nil
}

// RunSubject expands a subject to its units and runs them all.
func (o *Orchestrator) RunSubject(ctx context.Context, subjectID string) (*RunSummary, error) {
	units, err := o.api.ListUnits(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list units for subject %s: %w", subjectID, err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("subject %s has no units", subjectID)
	}

	unitIDs := make([]string, 0, len(units))
	for _, unit := range units {
		unitIDs = append(unitIDs, unit.ID)
	}
	return o.Run(ctx, unitIDs)
}

func (o *Orchestrator) processTopic(ctx context.Context, summary *RunSummary, topic tesseract.Topic) TopicResult {
	result := TopicResult{
		TopicID:   topic.ID,
		TopicName: topic.Name,
	}

	passed, err := o.api.TopicPassed(ctx, topic.ID)
	if err != nil {
		result.Status = journal.TopicFailed
		result.Err = fmt.Errorf("check result for topic %s: %w", topic.ID, err)
		summary.logf("Quiz %s failed: %v", topic.ID, result.Err)
		return result
	}

	if passed {
		result.Status = journal.TopicSkipped
		summary.logf("Quiz with ID %s is already done!", topic.ID)
		return result
	}

	summary.logf("Attempting quiz %s...", topic.ID)
	report, err := o.runner.RunQuiz(ctx, topic)
	if err != nil {
		result.Status = journal.TopicFailed
		result.Err = err
		summary.logf("Quiz %s failed: %v", topic.ID, err)
		return result
	}

	result.Status = journal.TopicCompleted
	result.QuizID = report.QuizID
	result.FinalScore = report.FinalScore
	result.ReportFile = report.File
	result.Report = report.Content
	summary.logf("Quiz %s completed. Locked %d of %d questions.", topic.ID, report.Locked, report.Questions)
	return result
}

func (o *Orchestrator) finishRun(ctx context.Context, summary *RunSummary, status string) {
	summary.FinishedAt = o.now().UTC()
	if o.recorder == nil {
		return
	}

	err := o.recorder.RecordRun(ctx, journal.RunRecord{
		RunID:      summary.RunID,
		Units:      summary.Units,
		Status:     status,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
	})
	if err != nil {
		o.logger.Warn("journal run record failed", "run_id", summary.RunID, "error", err)
	}
}

func (o *Orchestrator) recordOutcome(ctx context.Context, runID string, result TopicResult) {
	if o.recorder == nil {
		return
	}

	detail := ""
	if result.Err != nil {
		detail = result.Err.Error()
	}

	err := o.recorder.RecordTopicOutcome(ctx, journal.TopicOutcome{
		RunID:      runID,
		TopicID:    result.TopicID,
		TopicName:  result.TopicName,
		Status:     result.Status,
		QuizID:     result.QuizID,
		Score:      result.FinalScore,
		ReportFile: result.ReportFile,
		Detail:     detail,
	})
	if err != nil {
		o.logger.Warn("journal topic record failed", "run_id", runID, "topic_id", result.TopicID, "error", err)
	}
}

func (s *RunSummary) addResult(result TopicResult) {
	s.Topics = append(s.Topics, result)
}

func (s *RunSummary) logf(format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}
