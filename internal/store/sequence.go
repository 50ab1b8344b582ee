package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const sequenceRowID = 1

// nextSequence hands out a monotonic sequence shared by every record
// table, so history reads have a stable order even when two records share
// a timestamp. tx must be a transaction.
func nextSequence(tx *gorm.DB) (int64, error) {
	err := tx.Model(&sequenceModel{}).
		Where("id = ?", sequenceRowID).
		UpdateColumn("next_val", gorm.Expr("next_val + 1")).Error
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	var row sequenceModel
	if err := tx.First(&row, sequenceRowID).Error; err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return row.NextVal - 1, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
