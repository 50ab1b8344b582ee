package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// Credential is the locally stored login token pair.
type Credential struct {
	Email        string
	AccessToken  string
	RefreshToken string
	SavedAt      time.Time
}

// CredentialRepo stores the single active credential.
type CredentialRepo interface {
	// SaveCredential replaces the stored credential.
	SaveCredential(ctx context.Context, c Credential) error

	// LoadCredential returns the stored credential, or ErrNotFound.
	LoadCredential(ctx context.Context) (*Credential, error)

	// DeleteCredential removes the stored credential. Idempotent.
	DeleteCredential(ctx context.Context) error
}

// AttemptData captures one finished quiz session.
type AttemptData struct {
	SessionID      string
	Area           string
	Difficulty     string
	TotalQuestions int
	FinalScore     int
	TotalXP        int
	Accuracy       float64
}

// Attempt is a stored quiz attempt.
type Attempt struct {
	ID          string
	Sequence    int64
	CompletedAt time.Time
	AttemptData
}

// AttemptRepo records finished quiz sessions.
type AttemptRepo interface {
	// AppendAttempt stores a finished session.
	AppendAttempt(ctx context.Context, data AttemptData) error

	// ListAttempts returns attempts newest first.
	ListAttempts(ctx context.Context, opts QueryOpts) ([]Attempt, error)
}

// AssessmentData captures one role assignment.
type AssessmentData struct {
	AssessmentType string
	AssignedRole   string
	Method         string
	Scores         map[string]int
	Answers        []int
}

// Assessment is a stored role assignment with its sync status.
type Assessment struct {
	ID        string
	Sequence  int64
	CreatedAt time.Time
	Synced    bool
	SyncedAt  *time.Time
	AssessmentData
}

// AssessmentRepo records role assignments until the backend accepts them.
type AssessmentRepo interface {
	// AppendAssessment stores a new unsynced assessment and returns its ID.
	AppendAssessment(ctx context.Context, data AssessmentData) (string, error)

	// MarkSynced flags an assessment as accepted by the backend.
	MarkSynced(ctx context.Context, id string) error

	// Unsynced returns assessments not yet accepted, oldest first.
	Unsynced(ctx context.Context) ([]Assessment, error)

	// Latest returns the most recent assessment, or nil if none exist.
	Latest(ctx context.Context) (*Assessment, error)
}
