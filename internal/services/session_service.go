package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yoockh/interviewme/internal/analysis/facial"
	"github.com/yoockh/interviewme/internal/events"
	"github.com/yoockh/interviewme/internal/models"
	mongorepo "github.com/yoockh/interviewme/internal/repositories/mongo"
	"github.com/yoockh/interviewme/internal/utils"
)

type SessionService interface {
	Start(ctx context.Context, userID, questionID string) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	// Authorize loads the session and fails with FORBIDDEN unless userID owns it.
	Authorize(ctx context.Context, userID, sessionID string) (*models.Session, error)
	List(ctx context.Context, userID string) ([]models.Session, error)
	End(ctx context.Context, userID, sessionID string) (*models.Session, error)
	SaveFacialSummary(ctx context.Context, sessionID string, sum facial.Summary) error
}

type sessionService struct {
	sessions  mongorepo.SessionRepository
	questions QuestionService
	events    events.Publisher // optional
	now       func() time.Time
}

func NewSessionService(sessions mongorepo.SessionRepository, questions QuestionService, pub events.Publisher) SessionService {
	return &sessionService{sessions: sessions, questions: questions, events: pub, now: time.Now}
}

func (s *sessionService) Start(ctx context.Context, userID, questionID string) (*models.Session, error) {
	const op = "SessionService.Start"

	if userID == "" || questionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and question_id are required", nil)
	}
	if _, err := s.questions.Get(ctx, questionID); err != nil {
		return nil, err
	}

	session := &models.Session{
		SessionID:  uuid.NewString(),
		UserID:     userID,
		QuestionID: questionID,
		Status:     models.SessionActive,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "SessionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	out, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return out, nil
}

func (s *sessionService) Authorize(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	ss, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID == "" || ss.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, "SessionService.Authorize", "forbidden", nil)
	}
	return ss, nil
}

func (s *sessionService) List(ctx context.Context, userID string) ([]models.Session, error) {
	const op = "SessionService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	out, err := s.sessions.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return out, nil
}

func (s *sessionService) End(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	const op = "SessionService.End"

	ss, err := s.Authorize(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if ss.Status == models.SessionEnded {
		return nil, utils.E(utils.CodeConflict, op, "session already ended", nil)
	}

	now := s.now().UTC()
	dur := int64(now.Sub(ss.CreatedAt).Seconds())
	if dur < 0 {
		dur = 0
	}

	if err := s.sessions.End(ctx, sessionID, now, dur); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end session", err)
	}

	ss.Status = models.SessionEnded
	ss.EndedAt = &now
	ss.DurationSeconds = dur

	if s.events != nil {
		if ev, err := events.NewEvent(events.TypeSessionEnded, sessionID, ss); err == nil {
			_ = s.events.Publish(ctx, ev)
		}
	}
	return ss, nil
}

func (s *sessionService) SaveFacialSummary(ctx context.Context, sessionID string, sum facial.Summary) error {
	const op = "SessionService.SaveFacialSummary"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if err := s.sessions.SetFacialSummary(ctx, sessionID, sum); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to save facial summary", err)
	}
	return nil
}
