package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRowID is the id of the only credential row.
const credentialRowID = 1

type credentialRepo struct {
	db *gorm.DB
}

func (r *credentialRepo) SaveCredential(ctx context.Context, c Credential) error {
	if c.AccessToken == "" {
		return errors.New("save credential: empty access token")
	}
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now()
	}
	row := credentialModel{
		ID:           credentialRowID,
		Email:        c.Email,
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		SavedAt:      c.SavedAt.UnixMilli(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (r *credentialRepo) LoadCredential(ctx context.Context) (*Credential, error) {
	var row credentialModel
	err := r.db.WithContext(ctx).First(&row, credentialRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return &Credential{
		Email:        row.Email,
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		SavedAt:      fromMillis(row.SavedAt),
	}, nil
}

func (r *credentialRepo) DeleteCredential(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Delete(&credentialModel{}, credentialRowID).Error; err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
