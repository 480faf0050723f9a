package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/career-pulse/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository stores completed challenge indices in postgres.
type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db}
}

func (r *ProgressRepository) Load(ctx context.Context, key string) ([]int, error) {
	var row model.ChallengeProgress
	err := r.db.WithContext(ctx).First(&row, "client_id = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []int{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCompleted(row.Completed)
}

func (r *ProgressRepository) Save(ctx context.Context, key string, completed []int) error {
	encoded, err := encodeCompleted(completed)
	if err != nil {
		return err
	}
	now := time.Now()
	row := model.ChallengeProgress{
		ClientID:  key,
		Completed: encoded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
	}).Create(&row).Error
}

func encodeCompleted(completed []int) (string, error) {
	if completed == nil {
		completed = []int{}
	}
	b, err := json.Marshal(completed)
	if err != nil {
		return "", fmt.Errorf("encode progress: %w", err)
	}
	return string(b), nil
}

func decodeCompleted(raw string) ([]int, error) {
	if raw == "" {
		return []int{}, nil
	}
	var out []int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}
