package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	cfg := Config{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second}
	return New(cfg, tokens), &hits
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sampleQuestion() map[string]any {
	return map[string]any{
		"id":      "q-1",
		"title":   "Fracciones",
		"content": "¿Cuánto es 1/2 + 1/4?",
		"options": map[string]any{
			"A": "3/4",
			"B": map[string]any{"text": "2/6", "image_url": "https://img/b.png"},
			"C": "1/8",
			"D": "1",
		},
		"area":         "matematicas",
		"topic":        "fracciones",
		"difficulty":   "EASY",
		"points_value": 10,
	}
}

func TestStartSessionDecodesBothOptionShapes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/icfes/quiz/start-session", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		var body StartSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, StartSessionRequest{Area: "matematicas", Difficulty: "EASY", QuestionCount: 5}, body)

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"session_id":       "s-1",
				"area":             "matematicas",
				"difficulty":       "EASY",
				"total_questions":  5,
				"current_question": sampleQuestion(),
				"progress":         map[string]any{"answered": 0, "total": 5, "percentage": 0},
				"current_score":    0,
				"current_xp":       0,
			},
		})
	}, staticToken("tok"))

	data, err := client.StartSession(context.Background(), StartSessionRequest{Area: "matematicas", Difficulty: "EASY", QuestionCount: 5})
	require.NoError(t, err)
	assert.Equal(t, "s-1", data.SessionID)
	assert.Equal(t, 5, data.TotalQuestions)
	require.NotNil(t, data.CurrentQuestion)
	require.Len(t, data.CurrentQuestion.Options, 4)

	b, ok := data.CurrentQuestion.Options.Find("B")
	require.True(t, ok)
	assert.Equal(t, "2/6", b.Text)
	assert.Equal(t, "https://img/b.png", b.ImageURL)
	assert.Equal(t, "A", data.CurrentQuestion.Options[0].Key)
	assert.Equal(t, "3/4", data.CurrentQuestion.Options[0].Text)
}

func TestMissingCredentialSendsNothing(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be contacted")
	}, staticToken(""))

	_, err := client.StartSession(context.Background(), StartSessionRequest{Area: "ingles", Difficulty: "HARD"})
	require.Error(t, err)

	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestNilTokenSourceIsAuthenticationError(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)

	_, err := client.Stats(context.Background())
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestUnauthorizedMapsToAuthenticationError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Token is invalid or expired"})
	}, staticToken("stale"))

	_, err := client.CurrentQuestion(context.Background(), "s-1")
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "Token is invalid or expired")
}

func TestUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       any
		wantStatus int
		wantMsg    string
	}{
		{"server error", http.StatusInternalServerError, map[string]any{"success": false, "message": "Internal server error"}, 500, "Internal server error"},
		{"success false", http.StatusOK, map[string]any{"success": false, "message": "Sesión no encontrada"}, 200, "Sesión no encontrada"},
		{"error field", http.StatusBadRequest, map[string]any{"error": "Faltan datos requeridos"}, 400, "Faltan datos requeridos"},
		{"missing data", http.StatusOK, map[string]any{"success": true}, 200, "response has no data"},
		{"contract broken", http.StatusOK, map[string]any{"success": true, "data": map[string]any{"is_correct": "yes"}}, 200, "unexpected response payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}, staticToken("tok"))

			_, err := client.SubmitAnswer(context.Background(), "s-1", SubmitAnswerRequest{QuestionID: "q-1", SelectedAnswer: "A"})
			require.Error(t, err)

			var upErr *UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.wantStatus, upErr.StatusCode)
			assert.Contains(t, upErr.Error(), tt.wantMsg)
			assert.False(t, IsAuthError(err))
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, staticToken("tok"))
	defer close(release)
	client.cfg.Timeout = 50 * time.Millisecond

	_, err := client.Feedback(context.Background(), "s-1")
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 0, upErr.StatusCode)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCurrentQuestionComplete(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/icfes/quiz/session/s-1/current-question", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"session_complete": true, "message": "Sesión completada"},
		})
	}, staticToken("tok"))

	data, err := client.CurrentQuestion(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, data.SessionComplete)
	assert.Nil(t, data.Question)
}

func TestCurrentQuestionRequiresQuestionWhenIncomplete(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"session_complete": false},
		})
	}, staticToken("tok"))

	_, err := client.CurrentQuestion(context.Background(), "s-1")
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
}

func TestFeedbackFlattensNestedSummary(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"accuracy":        80.0,
				"final_score":     40,
				"total_questions": 5,
				"feedback": map[string]any{
					"message":      "¡Buen trabajo!",
					"strengths":    []string{"fracciones"},
					"improvements": []string{"geometría"},
				},
			},
		})
	}, staticToken("tok"))

	fb, err := client.Feedback(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, fb.Accuracy)
	assert.Equal(t, 40, fb.FinalScore)
	assert.Equal(t, "¡Buen trabajo!", fb.Message)
	assert.Equal(t, []string{"fracciones"}, fb.Strengths)
	assert.Equal(t, []string{"geometría"}, fb.Improvements)
}

func TestLoginIsUnauthenticated(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var body LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.Username)
		writeJSON(w, http.StatusOK, map[string]any{"access": "a1", "refresh": "r1"})
	}, nil)

	tokens, err := client.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a1", tokens.Access)
	assert.Equal(t, "r1", tokens.Refresh)
}

func TestStatsOnboarding(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"user_info":   map[string]any{"username": "ana", "level": 3, "experience_points": 250},
			"assessments": map[string]any{"vocational_completed": false, "assigned_role": nil},
		})
	}, staticToken("tok"))

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.UserInfo.Level)
	assert.True(t, stats.NeedsOnboarding())
}

func TestCompleteAssessment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/complete-assessment", r.URL.Path)
		var body AssessmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vocational", body.AssessmentType)
		assert.Equal(t, "TANK", body.AssignedRole)
		assert.Equal(t, 3, body.Scores["TANK"])
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	}, staticToken("tok"))

	err := client.CompleteAssessment(context.Background(), AssessmentRequest{
		AssessmentType: "vocational",
		AssignedRole:   "TANK",
		Scores:         map[string]int{"TANK": 3, "DPS": 3},
		Answers:        []int{0, 1},
	})
	require.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{BaseURL: "", Timeout: time.Second}.Validate())
	assert.Error(t, Config{BaseURL: "ftp://x", Timeout: time.Second}.Validate())
	assert.Error(t, Config{BaseURL: "http://x", Timeout: 0}.Validate())
}

func TestZeroTimeoutUsesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"access": "a", "refresh": "r"})
	}))
	t.Cleanup(srv.Close)

	client := New(Config{BaseURL: srv.URL}, nil, WithHTTPClient(srv.Client()))
	assert.Equal(t, DefaultTimeout, client.cfg.Timeout)

	tokens, err := client.Login(context.Background(), "ana@example.com", "secreto")
	require.NoError(t, err)
	assert.Equal(t, "a", tokens.Access)
}
