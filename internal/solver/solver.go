package solver

import (
	"context"
	"errors"

	"tessbot/internal/tesseract"
)

var (
	// ErrNoUnits is returned when a run is requested without any unit ids.
	ErrNoUnits = errors.New("no unit ids given")

	// ErrScoreRegressed reports a remote score lower than the last
	// confirmed value. The score is owned by the remote service and must
	// never decrease; a regression means the probe bookkeeping can no
	// longer be trusted for this question.
	ErrScoreRegressed = errors.New("remote score decreased")
)

// QuizService is the slice of the Tesseract API the solver drives.
// *tesseract.Client satisfies it.
type QuizService interface {
	ListUnits(ctx context.Context, subjectID string) ([]tesseract.Unit, error)
	ListTopics(ctx context.Context, unitID string) ([]tesseract.Topic, error)
	TopicPassed(ctx context.Context, topicID string) (bool, error)
	CreateAttempt(ctx context.Context, topicID string) (tesseract.QuizAttempt, error)
	SubmitAnswer(ctx context.Context, quizID, questionID, option string) (int, error)
}
