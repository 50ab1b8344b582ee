package role

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/store"
)

// Assessment types and methods understood by the profile service.
const (
	TypeVocational = "vocational"
	TypeManual     = "manual_selection"

	MethodSurvey = "survey"
	MethodManual = "manual"
	MethodRandom = "random"
)

// Record is one atomic role assignment.
type Record struct {
	Type    string
	Role    Category
	Method  string
	Scores  Scores
	Answers []int
}

// VocationalRecord builds the record of a completed battery.
func VocationalRecord(r Result) Record {
	return Record{
		Type:    TypeVocational,
		Role:    r.Category,
		Method:  MethodSurvey,
		Scores:  r.Scores,
		Answers: r.Answers,
	}
}

// ManualRecord builds the record of a role picked from the list.
func ManualRecord(c Category) Record {
	return Record{Type: TypeManual, Role: c, Method: MethodManual}
}

// RandomRecord builds the record of a drawn role. The profile service
// files a draw as a vocational assessment with no answers.
func RandomRecord(c Category) Record {
	return Record{Type: TypeVocational, Role: c, Method: MethodRandom}
}

func (r Record) request() api.AssessmentRequest {
	req := api.AssessmentRequest{
		AssessmentType: r.Type,
		AssignedRole:   string(r.Role),
		Answers:        r.Answers,
		Method:         r.Method,
	}
	if r.Scores != nil {
		req.Scores = r.Scores.Map()
	}
	return req
}

// Recorder is the subset of the API client that stores assignments.
type Recorder interface {
	CompleteAssessment(ctx context.Context, req api.AssessmentRequest) error
}

// Service persists role assignments: locally first, then to the profile
// service. A failed remote call leaves the local record unsynced for a
// later Sync.
type Service struct {
	client Recorder
	repo   store.AssessmentRepo
	log    logrus.FieldLogger
}

// NewService creates a Service. repo may be nil, in which case nothing is
// kept locally.
func NewService(client Recorder, repo store.AssessmentRepo, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{client: client, repo: repo, log: log}
}

// Complete records r. The error reports the remote failure; the
// assignment already shown to the user stands either way.
func (s *Service) Complete(ctx context.Context, r Record) error {
	if !r.Role.Valid() {
		return &ContractViolation{Reason: fmt.Sprintf("unknown role %q", r.Role)}
	}

	var id string
	if s.repo != nil {
		data := store.AssessmentData{
			AssessmentType: r.Type,
			AssignedRole:   string(r.Role),
			Method:         r.Method,
			Answers:        r.Answers,
		}
		if r.Scores != nil {
			data.Scores = r.Scores.Map()
		}
		var err error
		id, err = s.repo.AppendAssessment(ctx, data)
		if err != nil {
			s.log.WithError(err).Warn("keep assessment locally")
		}
	}

	log := s.log.WithFields(logrus.Fields{"role": r.Role, "type": r.Type, "method": r.Method})
	if err := s.client.CompleteAssessment(ctx, r.request()); err != nil {
		log.WithError(err).Warn("assessment not saved remotely")
		return err
	}

	if id != "" {
		if err := s.repo.MarkSynced(ctx, id); err != nil {
			log.WithError(err).Warn("mark assessment synced")
		}
	}
	log.Info("assessment saved")
	return nil
}

// Sync re-submits unsynced assessments, oldest first, stopping at the
// first failure. It returns how many were accepted.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, nil
	}
	pending, err := s.repo.Unsynced(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, a := range pending {
		r := Record{
			Type:   a.AssessmentType,
			Role:   Category(a.AssignedRole),
			Method: a.Method,
		}
		if len(a.Answers) > 0 {
			r.Answers = a.Answers
		}
		if len(a.Scores) > 0 {
			r.Scores = make(Scores, len(a.Scores))
			for k, v := range a.Scores {
				r.Scores[Category(k)] = v
			}
		}
		if err := s.client.CompleteAssessment(ctx, r.request()); err != nil {
			return synced, fmt.Errorf("sync assessment %s: %w", a.ID, err)
		}
		if err := s.repo.MarkSynced(ctx, a.ID); err != nil {
			return synced, err
		}
		synced++
	}
	if synced > 0 {
		s.log.WithField("count", synced).Info("assessments synced")
	}
	return synced, nil
}

// Latest returns the most recent local assignment, or nil.
func (s *Service) Latest(ctx context.Context) (*store.Assessment, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.Latest(ctx)
}
