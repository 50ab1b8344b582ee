package api

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Option is one answer choice of a question.
type Option struct {
	Key      string
	Text     string
	ImageURL string
}

type optionBody struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// Options is the ordered list of answer choices. On the wire it is an
// object keyed by option letter whose values are either plain text or
// {"text", "image_url"} objects.
type Options []Option

func (o *Options) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Options, 0, len(keys))
	for _, k := range keys {
		var text string
		if err := json.Unmarshal(raw[k], &text); err == nil {
			out = append(out, Option{Key: k, Text: text})
			continue
		}
		var body optionBody
		if err := json.Unmarshal(raw[k], &body); err != nil {
			return fmt.Errorf("decode option %q: %w", k, err)
		}
		out = append(out, Option{Key: k, Text: body.Text, ImageURL: body.ImageURL})
	}
	*o = out
	return nil
}

func (o Options) MarshalJSON() ([]byte, error) {
	m := make(map[string]optionBody, len(o))
	for _, opt := range o {
		m[opt.Key] = optionBody{Text: opt.Text, ImageURL: opt.ImageURL}
	}
	return json.Marshal(m)
}

// Find returns the option with the given key.
func (o Options) Find(key string) (Option, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt, true
		}
	}
	return Option{}, false
}

// Question is a single exam question as served by the backend.
type Question struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	ImageURL    string  `json:"image_url,omitempty"`
	Options     Options `json:"options"`
	Area        string  `json:"area"`
	Topic       string  `json:"topic"`
	Difficulty  string  `json:"difficulty"`
	PointsValue int     `json:"points_value"`
}

// Progress is the server-authoritative answered/total counter.
type Progress struct {
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// StartSessionRequest is the body of POST /icfes/quiz/start-session.
type StartSessionRequest struct {
	Area          string `json:"area"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

// StartSessionData is returned when a session is created.
type StartSessionData struct {
	SessionID       string    `json:"session_id"`
	Area            string    `json:"area"`
	Difficulty      string    `json:"difficulty"`
	TotalQuestions  int       `json:"total_questions"`
	CurrentQuestion *Question `json:"current_question"`
	Progress        Progress  `json:"progress"`
	CurrentScore    int       `json:"current_score"`
	CurrentXP       int       `json:"current_xp"`
}

// SubmitAnswerRequest is the body of POST .../submit-answer.
type SubmitAnswerRequest struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

// AnswerResult is the backend's verdict on one answer. TotalScore and
// TotalXP are cumulative snapshots, not deltas.
type AnswerResult struct {
	IsCorrect       bool   `json:"is_correct"`
	CorrectAnswer   string `json:"correct_answer"`
	Explanation     string `json:"explanation"`
	PointsEarned    int    `json:"points_earned"`
	XPEarned        int    `json:"xp_earned"`
	TotalScore      int    `json:"total_score"`
	TotalXP         int    `json:"total_xp"`
	SessionComplete bool   `json:"session_complete"`
}

// NextQuestionData is returned by GET .../current-question. When
// SessionComplete is true, Question is nil.
type NextQuestionData struct {
	Question        *Question `json:"question"`
	Progress        Progress  `json:"progress"`
	SessionComplete bool      `json:"session_complete"`
	Message         string    `json:"message,omitempty"`
}

// Feedback is the aggregate summary of a finished session.
type Feedback struct {
	Accuracy       float64
	FinalScore     int
	TotalQuestions int
	Message        string
	Strengths      []string
	Improvements   []string
}

type feedbackWire struct {
	Accuracy       float64 `json:"accuracy"`
	FinalScore     int     `json:"final_score"`
	TotalQuestions int     `json:"total_questions"`
	Feedback       struct {
		Message      string   `json:"message"`
		Strengths    []string `json:"strengths"`
		Improvements []string `json:"improvements"`
	} `json:"feedback"`
}

func (f *Feedback) UnmarshalJSON(b []byte) error {
	var w feedbackWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*f = Feedback{
		Accuracy:       w.Accuracy,
		FinalScore:     w.FinalScore,
		TotalQuestions: w.TotalQuestions,
		Message:        w.Feedback.Message,
		Strengths:      w.Feedback.Strengths,
		Improvements:   w.Feedback.Improvements,
	}
	return nil
}

func (f Feedback) MarshalJSON() ([]byte, error) {
	var w feedbackWire
	w.Accuracy = f.Accuracy
	w.FinalScore = f.FinalScore
	w.TotalQuestions = f.TotalQuestions
	w.Feedback.Message = f.Message
	w.Feedback.Strengths = f.Strengths
	w.Feedback.Improvements = f.Improvements
	return json.Marshal(w)
}

// AssessmentRequest is the body of POST /auth/complete-assessment.
type AssessmentRequest struct {
	AssessmentType string         `json:"assessment_type"`
	AssignedRole   string         `json:"assigned_role"`
	Scores         map[string]int `json:"scores,omitempty"`
	Answers        []int          `json:"answers,omitempty"`
	Method         string         `json:"method,omitempty"`
}

// LoginRequest is the body of POST /auth/login/. The backend expects the
// email in the username field.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Tokens is the credential pair issued on login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UserStats is the profile returned by GET /auth/stats/.
type UserStats struct {
	UserInfo struct {
		Username         string `json:"username"`
		HeroClass        string `json:"hero_class"`
		Level            int    `json:"level"`
		ExperiencePoints int    `json:"experience_points"`
	} `json:"user_info"`
	AcademicProgress struct {
		QuestionsAnswered int     `json:"questions_answered"`
		CorrectAnswers    int     `json:"correct_answers"`
		Accuracy          float64 `json:"accuracy"`
		CurrentStreak     int     `json:"current_streak"`
		MaxStreak         int     `json:"max_streak"`
	} `json:"academic_progress"`
	Assessments struct {
		InitialCompleted    bool   `json:"initial_completed"`
		VocationalCompleted bool   `json:"vocational_completed"`
		AssignedRole        string `json:"assigned_role"`
	} `json:"assessments"`
}

// NeedsOnboarding reports whether the user still has to pick a role.
func (s *UserStats) NeedsOnboarding() bool {
	return !s.Assessments.VocationalCompleted || s.Assessments.AssignedRole == ""
}
