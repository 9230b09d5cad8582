package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/interviewme/internal/models"
	"github.com/yoockh/interviewme/internal/providers/llm"
	"github.com/yoockh/interviewme/internal/providers/stt"
	"github.com/yoockh/interviewme/internal/queue"
	mongorepo "github.com/yoockh/interviewme/internal/repositories/mongo"
	"github.com/yoockh/interviewme/internal/utils"
)

const coachTimeout = 20 * time.Second

type SubmitInput struct {
	UserID        string
	SessionID     string
	Transcript    string
	Source        string // text|audio
	STTConfidence float64
}

type AudioInput struct {
	UserID      string
	SessionID   string
	ContentType string
	Language    string
	Audio       []byte
}

type AttemptService interface {
	Submit(ctx context.Context, in SubmitInput) (*models.Attempt, error)
	// EnqueueAudio hands a recorded answer to the transcription workers and
	// returns the job id the result event will carry.
	EnqueueAudio(ctx context.Context, in AudioInput) (jobID string, err error)
	List(ctx context.Context, userID, sessionID string) ([]models.Attempt, error)
}

type attemptService struct {
	attempts  mongorepo.AttemptRepository
	sessions  SessionService
	questions QuestionService
	analysis  AnalysisService
	queue     queue.Enqueuer // optional; audio answers are rejected without it
	coach     llm.Provider   // optional
	log       *logrus.Logger
}

type AttemptDeps struct {
	Attempts  mongorepo.AttemptRepository
	Sessions  SessionService
	Questions QuestionService
	Analysis  AnalysisService
	Queue     queue.Enqueuer
	Coach     llm.Provider
	Logger    *logrus.Logger
}

func NewAttemptService(d AttemptDeps) AttemptService {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	return &attemptService{
		attempts:  d.Attempts,
		sessions:  d.Sessions,
		questions: d.Questions,
		analysis:  d.Analysis,
		queue:     d.Queue,
		coach:     d.Coach,
		log:       d.Logger,
	}
}

func (s *attemptService) activeSession(ctx context.Context, op, userID, sessionID string) (*models.Session, error) {
	ss, err := s.sessions.Authorize(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if ss.Status != models.SessionActive {
		return nil, utils.E(utils.CodeConflict, op, "session has ended", nil)
	}
	return ss, nil
}

func (s *attemptService) Submit(ctx context.Context, in SubmitInput) (*models.Attempt, error) {
	const op = "AttemptService.Submit"

	if in.Source == "" {
		in.Source = models.SourceText
	}
	if in.Source != models.SourceText && in.Source != models.SourceAudio {
		return nil, utils.E(utils.CodeInvalidArgument, op, "source must be text or audio", nil)
	}

	ss, err := s.activeSession(ctx, op, in.UserID, in.SessionID)
	if err != nil {
		return nil, err
	}

	q, err := s.questions.Get(ctx, ss.QuestionID)
	if err != nil {
		return nil, err
	}

	report := s.analysis.AnalyzeSpeech(ctx, in.Source, in.Transcript, q.ReferenceAnswer)

	a := &models.Attempt{
		AttemptID:     uuid.NewString(),
		SessionID:     ss.SessionID,
		UserID:        in.UserID,
		QuestionID:    q.ID,
		Source:        in.Source,
		Transcript:    in.Transcript,
		STTConfidence: in.STTConfidence,
		Report:        report,
		CreatedAt:     time.Now().UTC(),
	}

	if s.coach != nil && strings.TrimSpace(in.Transcript) != "" {
		a.CoachFeedback = s.coachFeedback(ctx, q.Prompt, a)
	}

	if err := s.attempts.Insert(ctx, a); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store attempt", err)
	}
	return a, nil
}

// coachFeedback never fails the submission; errors are logged and dropped.
func (s *attemptService) coachFeedback(ctx context.Context, prompt string, a *models.Attempt) string {
	cctx, cancel := context.WithTimeout(ctx, coachTimeout)
	defer cancel()

	start := time.Now()
	text, err := llm.Collect(cctx, s.coach, llm.CoachPrompt(prompt, a.Transcript, a.Report))
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"session_id": a.SessionID,
			"attempt_id": a.AttemptID,
		}).Warn("coach feedback failed")
		return ""
	}
	s.log.WithFields(logrus.Fields{
		"attempt_id": a.AttemptID,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("coach feedback generated")
	return text
}

func (s *attemptService) EnqueueAudio(ctx context.Context, in AudioInput) (string, error) {
	const op = "AttemptService.EnqueueAudio"

	if s.queue == nil {
		return "", utils.E(utils.CodeUnavailable, op, "audio answers are disabled", nil)
	}
	if len(in.Audio) == 0 {
		return "", utils.E(utils.CodeInvalidArgument, op, "audio is required", nil)
	}
	if len(in.Audio) > queue.MaxAudioBytes {
		return "", utils.E(utils.CodeInvalidArgument, op, "audio exceeds 10 MB", nil)
	}
	if !stt.Supported(in.ContentType) {
		return "", utils.E(utils.CodeInvalidArgument, op, "unsupported audio type", nil)
	}
	if _, err := s.activeSession(ctx, op, in.UserID, in.SessionID); err != nil {
		return "", err
	}

	job := queue.AnswerJob{
		JobID:       uuid.NewString(),
		SessionID:   in.SessionID,
		UserID:      in.UserID,
		ContentType: stt.MediaType(in.ContentType),
		Language:    in.Language,
		Audio:       in.Audio,
		EnqueuedAt:  time.Now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		if errors.Is(err, queue.ErrMalformedJob) {
			return "", utils.E(utils.CodeInvalidArgument, op, "invalid audio", err)
		}
		return "", utils.E(utils.CodeUnavailable, op, "failed to enqueue audio", err)
	}
	return job.JobID, nil
}

func (s *attemptService) List(ctx context.Context, userID, sessionID string) ([]models.Attempt, error) {
	const op = "AttemptService.List"

	if _, err := s.sessions.Authorize(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	out, err := s.attempts.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list attempts", err)
	}
	return out, nil
}
