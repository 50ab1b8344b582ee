package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assessmentRepo struct {
	db *gorm.DB
}

func (r *assessmentRepo) AppendAssessment(ctx context.Context, data AssessmentData) (string, error) {
	id := uuid.NewString()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx)
		if err != nil {
			return err
		}
		return tx.Create(&assessmentModel{
			ID:             id,
			Sequence:       seq,
			AssessmentType: data.AssessmentType,
			AssignedRole:   data.AssignedRole,
			Method:         data.Method,
			Scores:         data.Scores,
			Answers:        data.Answers,
		}).Error
	})
	if err != nil {
		return "", fmt.Errorf("save assessment: %w", err)
	}
	return id, nil
}

func (r *assessmentRepo) MarkSynced(ctx context.Context, id string) error {
	now := time.Now().UnixMilli()
	res := r.db.WithContext(ctx).
		Model(&assessmentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"synced": true, "synced_at": now})
	if res.Error != nil {
		return fmt.Errorf("mark assessment synced: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("mark assessment %s synced: %w", id, ErrNotFound)
	}
	return nil
}

func (r *assessmentRepo) Unsynced(ctx context.Context) ([]Assessment, error) {
	var rows []assessmentModel
	err := r.db.WithContext(ctx).
		Where("synced = ?", false).
		Order("sequence ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query unsynced assessments: %w", err)
	}
	out := make([]Assessment, len(rows))
	for i, row := range rows {
		out[i] = row.toAssessment()
	}
	return out, nil
}

func (r *assessmentRepo) Latest(ctx context.Context) (*Assessment, error) {
	var rows []assessmentModel
	err := r.db.WithContext(ctx).
		Order("sequence DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query latest assessment: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	a := rows[0].toAssessment()
	return &a, nil
}
