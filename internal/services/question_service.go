package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yoockh/interviewme/internal/cache"
	"github.com/yoockh/interviewme/internal/models"
	pgrepo "github.com/yoockh/interviewme/internal/repositories/postgres"
	"github.com/yoockh/interviewme/internal/utils"
)

const (
	DefaultQuestionPrompt     = "Tell me about yourself."
	DefaultReferenceAnswer    = "I am a dedicated professional with experience in teamwork, leadership and problem solving."
	DefaultQuestionCategory   = "general"
	DefaultQuestionDifficulty = "easy"
)

var validDifficulties = map[string]bool{"": true, "easy": true, "medium": true, "hard": true}

type CreateQuestionInput struct {
	Prompt          string
	ReferenceAnswer string
	Category        string
	Difficulty      string
	Tags            []string
	Rubric          json.RawMessage
}

type QuestionService interface {
	Get(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, category string) ([]models.Question, error)
	Create(ctx context.Context, in CreateQuestionInput) (*models.Question, error)
	// EnsureDefault seeds the default question into an empty bank.
	EnsureDefault(ctx context.Context) (seeded bool, err error)
}

type questionService struct {
	questions pgrepo.QuestionRepository
	cache     cache.Cache // optional
}

func NewQuestionService(questions pgrepo.QuestionRepository, c cache.Cache) QuestionService {
	return &questionService{questions: questions, cache: c}
}

func (s *questionService) Get(ctx context.Context, id string) (*models.Question, error) {
	const op = "QuestionService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question_id is required", nil)
	}
	// ids are uuids; anything else cannot exist
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "question not found", utils.ErrNotFound)
	}

	return cache.GetOrLoad(ctx, s.cache, cache.QuestionKey(id), cache.QuestionTTL,
		func(ctx context.Context) (*models.Question, error) {
			q, err := s.questions.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, utils.ErrNotFound) {
					return nil, utils.E(utils.CodeNotFound, op, "question not found", err)
				}
				return nil, utils.E(utils.CodeInternal, op, "failed to get question", err)
			}
			return q, nil
		})
}

func (s *questionService) List(ctx context.Context, category string) ([]models.Question, error) {
	const op = "QuestionService.List"

	category = strings.ToLower(strings.TrimSpace(category))
	return cache.GetOrLoad(ctx, s.cache, cache.QuestionListKey(category), cache.QuestionTTL,
		func(ctx context.Context) ([]models.Question, error) {
			out, err := s.questions.List(ctx, category, 0)
			if err != nil {
				return nil, utils.E(utils.CodeInternal, op, "failed to list questions", err)
			}
			return out, nil
		})
}

func (s *questionService) Create(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	const op = "QuestionService.Create"

	in.Prompt = strings.TrimSpace(in.Prompt)
	in.ReferenceAnswer = strings.TrimSpace(in.ReferenceAnswer)
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	if in.Prompt == "" || in.ReferenceAnswer == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "prompt and reference_answer are required", nil)
	}
	if !validDifficulties[in.Difficulty] {
		return nil, utils.E(utils.CodeInvalidArgument, op, "difficulty must be easy, medium, or hard", nil)
	}
	if len(in.Rubric) > 0 && !json.Valid(in.Rubric) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "rubric must be valid JSON", nil)
	}

	now := time.Now().UTC()
	q := &models.Question{
		ID:              uuid.NewString(),
		Prompt:          in.Prompt,
		ReferenceAnswer: in.ReferenceAnswer,
		Category:        strings.ToLower(strings.TrimSpace(in.Category)),
		Difficulty:      in.Difficulty,
		Tags:            in.Tags,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(in.Rubric) > 0 {
		q.Rubric = datatypes.JSON(in.Rubric)
	}
	if q.Category == "" {
		q.Category = DefaultQuestionCategory
	}

	if err := s.questions.Insert(ctx, q); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create question", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, cache.QuestionListKey(q.Category), cache.QuestionListKey(""))
	}
	return q, nil
}

func (s *questionService) EnsureDefault(ctx context.Context) (bool, error) {
	const op = "QuestionService.EnsureDefault"

	n, err := s.questions.Count(ctx)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to count questions", err)
	}
	if n > 0 {
		return false, nil
	}
	_, err = s.Create(ctx, CreateQuestionInput{
		Prompt:          DefaultQuestionPrompt,
		ReferenceAnswer: DefaultReferenceAnswer,
		Category:        DefaultQuestionCategory,
		Difficulty:      DefaultQuestionDifficulty,
		Tags:            []string{"introduction"},
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
