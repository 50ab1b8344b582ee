package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type attemptRepo struct {
	db *gorm.DB
}

func (r *attemptRepo) AppendAttempt(ctx context.Context, data AttemptData) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx)
		if err != nil {
			return err
		}
		return tx.Create(&attemptModel{
			ID:             uuid.NewString(),
			Sequence:       seq,
			SessionID:      data.SessionID,
			Area:           data.Area,
			Difficulty:     data.Difficulty,
			TotalQuestions: data.TotalQuestions,
			FinalScore:     data.FinalScore,
			TotalXP:        data.TotalXP,
			Accuracy:       data.Accuracy,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) ListAttempts(ctx context.Context, opts QueryOpts) ([]Attempt, error) {
	q := r.db.WithContext(ctx).Model(&attemptModel{})
	if !opts.From.IsZero() {
		q = q.Where("completed_at >= ?", opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		q = q.Where("completed_at <= ?", opts.To.UnixMilli())
	}
	q = q.Order("sequence DESC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var rows []attemptModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	out := make([]Attempt, len(rows))
	for i, row := range rows {
		out[i] = row.toAttempt()
	}
	return out, nil
}
