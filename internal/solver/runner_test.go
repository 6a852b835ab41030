package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessbot/internal/tesseract"
)

func twoQuestionAttempt() tesseract.QuizAttempt {
	return tesseract.QuizAttempt{
		QuizID: "quiz-1",
		Questions: []tesseract.Question{
			{QuestionID: "q1", Text: "First?", Options: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}},
			{QuestionID: "q2", Text: "Second?", Options: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}},
		},
	}
}

func TestRunQuizWritesSanitizedReportFile(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{
		attempts: map[string]tesseract.QuizAttempt{"topic-1": twoQuestionAttempt()},
		correct:  map[string]string{"q1": "c", "q2": "a"},
	}

	runner := NewRunner(api, dir, nil)
	report, err := runner.RunQuiz(context.Background(), tesseract.Topic{ID: "topic-1", Name: "Cost Concepts!"})
	require.NoError(t, err)

	assert.Equal(t, "quiz-1", report.QuizID)
	assert.Equal(t, 2, report.FinalScore)
	assert.Equal(t, 2, report.Locked)
	assert.Equal(t, 2, report.Questions)
	assert.Equal(t, filepath.Join(dir, "cost_concepts.txt"), report.File)

	written, err := os.ReadFile(report.File)
	require.NoError(t, err)
	assert.Equal(t, report.Content, string(written))
	assert.Contains(t, report.Content, "Correct Option: c")
	assert.Contains(t, report.Content, "Correct Option: a")
}

func TestRunQuizKeepsScoreInSyncAcrossFailedQuestion(t *testing.T) {
	api := &fakeAPI{
		attempts:  map[string]tesseract.QuizAttempt{"topic-1": twoQuestionAttempt()},
		correct:   map[string]string{"q2": "b"},
		submitErr: map[string]error{"q1:a": errors.New("boom")},
	}

	runner := NewRunner(api, t.TempDir(), nil)
	report, err := runner.RunQuiz(context.Background(), tesseract.Topic{ID: "topic-1", Name: "Topic"})
	require.NoError(t, err)

	// q1 aborted at score 0, q2 still probed against 0 and locked at 1.
	assert.Equal(t, 1, report.FinalScore)
	assert.Equal(t, 1, report.Locked)
	assert.Contains(t, report.Content, "Correct Option: "+NotLockedMarker)
	assert.Contains(t, report.Content, "Correct Option: b")
}

func TestRunQuizReportHasOneBlockPerQuestion(t *testing.T) {
	api := &fakeAPI{
		attempts: map[string]tesseract.QuizAttempt{"topic-1": twoQuestionAttempt()},
		correct:  map[string]string{"q1": "d", "q2": "d"},
	}

	runner := NewRunner(api, t.TempDir(), nil)
	report, err := runner.RunQuiz(context.Background(), tesseract.Topic{ID: "topic-1", Name: "Topic"})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(report.Content, "Correct Option:"))
	for _, line := range strings.Split(report.Content, "\n") {
		if lock, ok := strings.CutPrefix(line, "Correct Option: "); ok {
			assert.Contains(t, append(OptionKeys, NotLockedMarker), lock)
		}
	}
}

func TestRunQuizPropagatesCreateAttemptFailure(t *testing.T) {
	api := &fakeAPI{
		attemptErr: map[string]error{"topic-1": errors.New("unauthorized")},
	}

	runner := NewRunner(api, t.TempDir(), nil)
	_, err := runner.RunQuiz(context.Background(), tesseract.Topic{ID: "topic-1", Name: "Topic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create attempt")
}
