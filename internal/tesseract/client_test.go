package tesseract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient("https://api.test", "Bearer test-token", &http.Client{Transport: rt})
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestClientAttachesCredentialHeader(t *testing.T) {
	var seenAuth, seenAccept string

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seenAuth = r.Header.Get("Authorization")
		seenAccept = r.Header.Get("Accept")
		return jsonResponse(http.StatusOK, `{"payload":{"topics":[]}}`), nil
	}))

	_, err := client.ListTopics(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", seenAuth)
	assert.Equal(t, "application/json", seenAccept)
}

func TestListTopicsDecodesPayload(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/studentmaster/get-topics-unit/12", r.URL.Path)
		body := `{"payload":{"topics":[
			{"id":101,"name":"Intro","contentFlag":true},
			{"id":102,"name":"Placeholder","contentFlag":false}
		]}}`
		return jsonResponse(http.StatusOK, body), nil
	}))

	topics, err := client.ListTopics(context.Background(), "12")
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, Topic{ID: "101", Name: "Intro", ContentFlag: true}, topics[0])
	assert.False(t, topics[1].ContentFlag)
}

func TestListUnitsDecodesPayload(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/studentmaster/get-subject-units/7", r.URL.Path)
		body := `{"payload":[{"unitId":31,"unitName":"Unit I"},{"unitId":32,"unitName":"Unit II"}]}`
		return jsonResponse(http.StatusOK, body), nil
	}))

	units, err := client.ListUnits(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, Unit{ID: "31", Name: "Unit I"}, units[0])
}

func TestTopicPassedChecksBadge(t *testing.T) {
	badge := 1
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if badge == 1 {
			return jsonResponse(http.StatusOK, `{"payload":{"badge":1}}`), nil
		}
		return jsonResponse(http.StatusOK, `{"payload":{"badge":0}}`), nil
	}))

	passed, err := client.TopicPassed(context.Background(), "101")
	require.NoError(t, err)
	assert.True(t, passed)

	badge = 0
	passed, err = client.TopicPassed(context.Background(), "101")
	require.NoError(t, err)
	assert.False(t, passed)
}

func TestCreateAttemptReturnsCanonicalQuizID(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "/quizattempts/create-quiz/101", r.URL.Path)
		body := `{"payload":{"quizId":5550,"questions":[
			{"questionId":1,"question":"Pick one","options":{"a":"first","b":"second","c":"third","d":"fourth"}}
		]}}`
		return jsonResponse(http.StatusOK, body), nil
	}))

	attempt, err := client.CreateAttempt(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "5550", attempt.QuizID)
	require.Len(t, attempt.Questions, 1)
	assert.Equal(t, "1", attempt.Questions[0].QuestionID)
	assert.Equal(t, "second", attempt.Questions[0].Options["b"])
}

func TestSubmitAnswerSavesThenReadsScore(t *testing.T) {
	var paths []string
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/quizquestionattempts/save-user-quiz-answer":
			payload, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"quizId":"5550","questionId":"1","userAnswer":"c"}`, string(payload))
			return jsonResponse(http.StatusOK, `{"payload":{}}`), nil
		case "/quizattempts/submit-quiz":
			return jsonResponse(http.StatusOK, `{"payload":{"score":3}}`), nil
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
			return nil, nil
		}
	}))

	score, err := client.SubmitAnswer(context.Background(), "5550", "1", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, score)
	assert.Equal(t, []string{
		"/quizquestionattempts/save-user-quiz-answer",
		"/quizattempts/submit-quiz",
	}, paths)
}

func TestNonSuccessStatusBecomesAPIError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{}`), nil
	}))

	_, err := client.ListTopics(context.Background(), "12")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "/studentmaster/get-topics-unit/12", apiErr.Endpoint)
}

func TestTransportFailureBecomesAPIError(t *testing.T) {
	cause := errors.New("connection refused")
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, cause
	}))

	_, err := client.TopicPassed(context.Background(), "101")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.ErrorIs(t, err, cause)
}

func TestDecodeFailureBecomesAPIError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "not-json"), nil
	}))

	_, err := client.CreateAttempt(context.Background(), "101")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "/quizattempts/create-quiz/101", apiErr.Endpoint)
}
