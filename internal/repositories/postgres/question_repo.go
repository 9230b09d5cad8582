package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yoockh/interviewme/internal/models"
	"github.com/yoockh/interviewme/internal/utils"
)

type QuestionRepository interface {
	Insert(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, category string, limit int) ([]models.Question, error)
	Count(ctx context.Context) (int64, error)
}

type questionRepo struct {
	db *gorm.DB
}

func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) Insert(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) List(ctx context.Context, category string, limit int) ([]models.Question, error) {
	if limit <= 0 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Order("created_at ASC").Limit(limit)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	rows := []models.Question{}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&n).Error
	return n, err
}
