package tesseract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultBaseURL is the production Tesseract Online API host.
const DefaultBaseURL = "https://api.tesseractonline.com"

// APIError is returned for any transport failure or non-2xx response.
// Status is 0 when the request never produced an HTTP response.
type APIError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tesseract: %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("tesseract: %s returned status %d", e.Endpoint, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client is a run-scoped wrapper over the Tesseract Online API. The
// access credential is fixed at construction so concurrent runs with
// different credentials cannot interfere.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    httpClient,
	}
}

// ListUnits fetches the units of a subject.
func (c *Client) ListUnits(ctx context.Context, subjectID string) ([]Unit, error) {
	endpoint := "/studentmaster/get-subject-units/" + subjectID

	var payload []struct {
		UnitID   json.Number `json:"unitId"`
		UnitName string      `json:"unitName"`
	}
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	units := make([]Unit, 0, len(payload))
	for _, item := range payload {
		units = append(units, Unit{
			ID:   item.UnitID.String(),
			Name: item.UnitName,
		})
	}
	return units, nil
}

// ListTopics fetches all topics of a unit, including topics without
// content. Eligibility filtering belongs to the caller.
func (c *Client) ListTopics(ctx context.Context, unitID string) ([]Topic, error) {
	endpoint := "/studentmaster/get-topics-unit/" + unitID

	var payload struct {
		Topics []struct {
			ID          json.Number `json:"id"`
			Name        string      `json:"name"`
			ContentFlag bool        `json:"contentFlag"`
		} `json:"topics"`
	}
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	topics := make([]Topic, 0, len(payload.Topics))
	for _, item := range payload.Topics {
		topics = append(topics, Topic{
			ID:          item.ID.String(),
			Name:        item.Name,
			ContentFlag: item.ContentFlag,
		})
	}
	return topics, nil
}

// TopicPassed reports whether the topic's quiz has already been passed
// (remote badge flag set).
func (c *Client) TopicPassed(ctx context.Context, topicID string) (bool, error) {
	endpoint := "/quizattempts/quiz-result/" + topicID

	var payload struct {
		Badge int `json:"badge"`
	}
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return false, err
	}
	return payload.Badge == 1, nil
}

// CreateAttempt opens a quiz attempt for a topic and returns the
// canonical quiz id plus the service-ordered question list.
func (c *Client) CreateAttempt(ctx context.Context, topicID string) (QuizAttempt, error) {
	endpoint := "/quizattempts/create-quiz/" + topicID

	var payload struct {
		QuizID    json.Number `json:"quizId"`
		Questions []struct {
			QuestionID json.Number       `json:"questionId"`
			Question   string            `json:"question"`
			Options    map[string]string `json:"options"`
		} `json:"questions"`
	}
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return QuizAttempt{}, err
	}

	attempt := QuizAttempt{
		QuizID:    payload.QuizID.String(),
		Questions: make([]Question, 0, len(payload.Questions)),
	}
	for _, item := range payload.Questions {
		attempt.Questions = append(attempt.Questions, Question{
			QuestionID: item.QuestionID.String(),
			Text:       item.Question,
			Options:    item.Options,
		})
	}
	return attempt, nil
}

// SubmitAnswer records one answer for a question and returns the
// cumulative quiz score after the submission. The scoring endpoint is
// stateful: the score only reflects the submission after a readback.
func (c *Client) SubmitAnswer(ctx context.Context, quizID, questionID, option string) (int, error) {
	body := map[string]string{
		"quizId":     quizID,
		"questionId": questionID,
		"userAnswer": option,
	}
	if err := c.post(ctx, "/quizquestionattempts/save-user-quiz-answer", body, nil); err != nil {
		return 0, err
	}
	return c.Score(ctx, quizID)
}

// Score reads back the cumulative score of a quiz attempt.
func (c *Client) Score(ctx context.Context, quizID string) (int, error) {
	body := map[string]string{"quizId": quizID}

	var payload struct {
		Score int `json:"score"`
	}
	if err := c.post(ctx, "/quizattempts/submit-quiz", body, &payload); err != nil {
		return 0, err
	}
	return payload.Score, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	return c.do(req, endpoint, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(encoded))
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}
	if err := json.Unmarshal(envelope.Payload, out); err != nil {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}
	return nil
}
