package solver

import (
	"sort"
	"strings"

	"tessbot/internal/tesseract"
)

// NotLockedMarker is written to the report when no option was confirmed
// for a question.
const NotLockedMarker = "Not locked"

// Report accumulates the per-question blocks for one quiz. Blocks are
// appended in probing order and separated by a blank line.
type Report struct {
	builder strings.Builder
	blocks  int
}

func NewReport(topicName string) *Report {
	r := &Report{}
	r.builder.WriteString("Quiz: " + topicName + "\n\n")
	return r
}

// AddQuestion appends one block: question id, text, the options in
// fixed key order, and the locked option or the not-locked marker.
func (r *Report) AddQuestion(question tesseract.Question, lockedOption string) {
	r.builder.WriteString("Question ID: " + question.QuestionID + "\n")
	r.builder.WriteString("Question: " + question.Text + "\n")
	r.builder.WriteString("Options:\n")
	for _, key := range optionOrder(question.Options) {
		r.builder.WriteString(key + ": " + question.Options[key] + "\n")
	}

	if lockedOption == "" {
		lockedOption = NotLockedMarker
	}
	r.builder.WriteString("Correct Option: " + lockedOption + "\n\n")
	r.blocks++
}

// QuestionCount returns the number of blocks appended so far.
func (r *Report) QuestionCount() int {
	return r.blocks
}

func (r *Report) String() string {
	return r.builder.String()
}

// optionOrder lists the known keys a..d that are present, then any
// unexpected keys sorted, so the report stays deterministic.
func optionOrder(options map[string]string) []string {
	keys := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, key := range OptionKeys {
		if _, ok := options[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}

	var extra []string
	for key := range options {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// SanitizeFileName folds a topic name to a safe report file stem:
// lowercase, every non-alphanumeric run replaced by one underscore.
func SanitizeFileName(name string) string {
	var builder strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				builder.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	sanitized := strings.Trim(builder.String(), "_")
	if sanitized == "" {
		sanitized = "quiz"
	}
	return sanitized
}
