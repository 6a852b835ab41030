package solver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tessbot/internal/tesseract"
)

// QuizReport is the result of running one topic's quiz end to end.
type QuizReport struct {
	TopicID    string
	TopicName  string
	QuizID     string
	FinalScore int
	Questions  int
	Locked     int
	File       string
	Content    string
}

// Runner drives the prober across every question of one quiz and
// persists the resulting report.
type Runner struct {
	api       QuizService
	reportDir string
	logger    *slog.Logger
}

func NewRunner(api QuizService, reportDir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		api:       api,
		reportDir: reportDir,
		logger:    logger,
	}
}

// RunQuiz creates an attempt for the topic, probes each question in
// service order while threading the confirmed score, and writes the
// report file. A question-level probe failure is logged and leaves that
// question unlocked; the run continues with the score unchanged so
// later probes stay in sync.
func (r *Runner) RunQuiz(ctx context.Context, topic tesseract.Topic) (QuizReport, error) {
	attempt, err := r.api.CreateAttempt(ctx, topic.ID)
	if err != nil {
		return QuizReport{}, fmt.Errorf("create attempt for topic %s: %w", topic.ID, err)
	}

	report := NewReport(topic.Name)
	currentScore := 0
	locked := 0

	for _, question := range attempt.Questions {
		probe, probeErr := ProbeQuestion(ctx, r.api, attempt.QuizID, question.QuestionID, currentScore)
		if probeErr != nil {
			r.logger.Warn("question probe aborted",
				"quiz_id", attempt.QuizID,
				"question_id", question.QuestionID,
				"error", probeErr)
		}
		if probe.Locked() {
			locked++
		}

		// Adopt the prober's score even without a lock so the next
		// question probes against the confirmed state.
		currentScore = probe.Score
		report.AddQuestion(question, probe.LockedOption)
	}

	result := QuizReport{
		TopicID:    topic.ID,
		TopicName:  topic.Name,
		QuizID:     attempt.QuizID,
		FinalScore: currentScore,
		Questions:  len(attempt.Questions),
		Locked:     locked,
		Content:    report.String(),
	}

	file, err := r.persistReport(topic.Name, result.Content)
	if err != nil {
		return QuizReport{}, err
	}
	result.File = file
	return result, nil
}

func (r *Runner) persistReport(topicName, content string) (string, error) {
	dir := r.reportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, SanitizeFileName(topicName)+".txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
