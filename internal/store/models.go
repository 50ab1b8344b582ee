package store

// Table models. Timestamps are Unix milliseconds so range filters compare
// integers regardless of the local time zone.

type credentialModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"not null;default:''"`
	AccessToken  string `gorm:"not null"`
	RefreshToken string `gorm:"not null;default:''"`
	SavedAt      int64  `gorm:"not null"`
}

func (credentialModel) TableName() string { return "credentials" }

type attemptModel struct {
	ID             string  `gorm:"primaryKey;size:36"`
	Sequence       int64   `gorm:"not null;uniqueIndex"`
	SessionID      string  `gorm:"not null"`
	Area           string  `gorm:"size:40;not null"`
	Difficulty     string  `gorm:"size:10;not null"`
	TotalQuestions int     `gorm:"not null"`
	FinalScore     int     `gorm:"not null"`
	TotalXP        int     `gorm:"column:total_xp;not null"`
	Accuracy       float64 `gorm:"not null"`
	CompletedAt    int64   `gorm:"not null;index;autoCreateTime:milli"`
}

func (attemptModel) TableName() string { return "quiz_attempts" }

func (m attemptModel) toAttempt() Attempt {
	return Attempt{
		ID:          m.ID,
		Sequence:    m.Sequence,
		CompletedAt: fromMillis(m.CompletedAt),
		AttemptData: AttemptData{
			SessionID:      m.SessionID,
			Area:           m.Area,
			Difficulty:     m.Difficulty,
			TotalQuestions: m.TotalQuestions,
			FinalScore:     m.FinalScore,
			TotalXP:        m.TotalXP,
			Accuracy:       m.Accuracy,
		},
	}
}

type assessmentModel struct {
	ID             string         `gorm:"primaryKey;size:36"`
	Sequence       int64          `gorm:"not null;uniqueIndex"`
	AssessmentType string         `gorm:"size:20;not null"`
	AssignedRole   string         `gorm:"size:20;not null"`
	Method         string         `gorm:"size:20;not null;default:''"`
	Scores         map[string]int `gorm:"type:text;serializer:json"`
	Answers        []int          `gorm:"type:text;serializer:json"`
	Synced         bool           `gorm:"not null;default:false;index"`
	CreatedAt      int64          `gorm:"not null;autoCreateTime:milli"`
	SyncedAt       *int64
}

func (assessmentModel) TableName() string { return "assessments" }

func (m assessmentModel) toAssessment() Assessment {
	a := Assessment{
		ID:        m.ID,
		Sequence:  m.Sequence,
		CreatedAt: fromMillis(m.CreatedAt),
		Synced:    m.Synced,
		AssessmentData: AssessmentData{
			AssessmentType: m.AssessmentType,
			AssignedRole:   m.AssignedRole,
			Method:         m.Method,
			Scores:         m.Scores,
			Answers:        m.Answers,
		},
	}
	if m.SyncedAt != nil {
		t := fromMillis(*m.SyncedAt)
		a.SyncedAt = &t
	}
	return a
}

// sequenceModel is the single row holding the next record sequence.
type sequenceModel struct {
	ID      uint  `gorm:"primaryKey"`
	NextVal int64 `gorm:"not null;default:1"`
}

func (sequenceModel) TableName() string { return "global_sequence" }
