package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yoockh/interviewme/internal/models"
	"github.com/yoockh/interviewme/internal/utils"
)

type RecordingRepository interface {
	Insert(ctx context.Context, rec *models.Recording) error
	GetByID(ctx context.Context, id string) (*models.Recording, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.Recording, error)
}

type recordingRepo struct {
	db *gorm.DB
}

func NewRecordingRepo(db *gorm.DB) RecordingRepository {
	return &recordingRepo{db: db}
}

func (r *recordingRepo) Insert(ctx context.Context, rec *models.Recording) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recordingRepo) GetByID(ctx context.Context, id string) (*models.Recording, error) {
	var row models.Recording
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *recordingRepo) ListBySession(ctx context.Context, sessionID string) ([]models.Recording, error) {
	rows := []models.Recording{}
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("uploaded_at DESC").
		Find(&rows).Error
	return rows, err
}
