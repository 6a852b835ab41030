package solver

import (
	"context"
	"fmt"
)

// OptionKeys is the fixed candidate order for every question. The
// bounded set is also the termination guarantee: a probe issues at most
// len(OptionKeys) submissions per question.
var OptionKeys = []string{"a", "b", "c", "d"}

// ProbeResult is the outcome of probing one question. LockedOption is
// empty when no option was confirmed; Score is the last trustworthy
// cumulative score and must be adopted by the caller either way.
type ProbeResult struct {
	QuestionID   string
	LockedOption string
	Score        int
}

// Locked reports whether an option was confirmed correct.
func (r ProbeResult) Locked() bool {
	return r.LockedOption != ""
}

// ProbeQuestion tries the options of one question in fixed order until
// the remote score confirms a correct submission.
//
// currentScore must be the score confirmed before this question. A
// submission that moves the score to currentScore+1 locks that option.
// An unchanged score means a wrong option. A remote failure, or a score
// below currentScore, aborts the probe for this question: the result
// carries the unchanged currentScore and no lock, and the error says
// why. Exhausting all options without an increment is not an error.
func ProbeQuestion(ctx context.Context, api QuizService, quizID, questionID string, currentScore int) (ProbeResult, error) {
	result := ProbeResult{
		QuestionID: questionID,
		Score:      currentScore,
	}

	for _, option := range OptionKeys {
		score, err := api.SubmitAnswer(ctx, quizID, questionID, option)
		if err != nil {
			return result, fmt.Errorf("probe question %s option %s: %w", questionID, option, err)
		}

		if score < currentScore {
			return result, fmt.Errorf("probe question %s option %s: score went from %d to %d: %w",
				questionID, option, currentScore, score, ErrScoreRegressed)
		}

		if score == currentScore+1 {
			result.LockedOption = option
			result.Score = score
			return result, nil
		}
		// Unchanged (or any other non-+1 drift): not this option.
	}

	return result, nil
}
