package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yoockh/interviewme/internal/models"
	pgrepo "github.com/yoockh/interviewme/internal/repositories/postgres"
	"github.com/yoockh/interviewme/internal/storage"
	"github.com/yoockh/interviewme/internal/utils"
)

const MaxRecordingBytes = 50 << 20

var recordingTypes = map[string]bool{
	"video/webm": true,
	"audio/webm": true,
}

type UploadInput struct {
	UserID      string
	SessionID   string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RecordingService interface {
	Upload(ctx context.Context, in UploadInput) (*models.Recording, error)
	SignedURL(ctx context.Context, userID, recordingID string) (*SignedURL, error)
	List(ctx context.Context, userID, sessionID string) ([]models.Recording, error)
}

type recordingService struct {
	recordings pgrepo.RecordingRepository
	sessions   SessionService
	store      storage.Store
	now        func() time.Time
}

func NewRecordingService(recordings pgrepo.RecordingRepository, sessions SessionService, store storage.Store) RecordingService {
	return &recordingService{recordings: recordings, sessions: sessions, store: store, now: time.Now}
}

func (s *recordingService) Upload(ctx context.Context, in UploadInput) (*models.Recording, error) {
	const op = "RecordingService.Upload"

	if s.store == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "recording storage is not configured", nil)
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(in.ContentType, ";", 2)[0]))
	if !recordingTypes[ct] {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recording must be video/webm or audio/webm", nil)
	}
	if in.Size <= 0 || in.Body == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recording is empty", nil)
	}
	if in.Size > MaxRecordingBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recording exceeds 50 MB", nil)
	}
	if _, err := s.sessions.Authorize(ctx, in.UserID, in.SessionID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	object := storage.RecordingObject(in.UserID, in.SessionID, id, ".webm")

	// Size is the client's claim; the body is counted and capped one byte past
	// the limit so an oversized upload is detected rather than truncated.
	body := &countingReader{r: io.LimitReader(in.Body, MaxRecordingBytes+1)}
	if _, err := s.store.Upload(ctx, object, ct, body); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload recording", err)
	}
	switch {
	case body.n > MaxRecordingBytes:
		return nil, utils.E(utils.CodeInvalidArgument, op, "recording exceeds 50 MB", s.discard(ctx, object))
	case body.n == 0:
		return nil, utils.E(utils.CodeInvalidArgument, op, "recording is empty", s.discard(ctx, object))
	}

	rec := &models.Recording{
		ID:          id,
		UserID:      in.UserID,
		SessionID:   in.SessionID,
		FileName:    filepath.Base(in.FileName),
		ObjectName:  object,
		ContentType: ct,
		SizeBytes:   body.n,
		UploadedAt:  s.now().UTC(),
	}
	if err := s.recordings.Insert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store recording metadata", errors.Join(err, s.discard(ctx, object)))
	}
	return rec, nil
}

// discard removes an object that will never get a metadata row. It runs even
// when ctx is already cancelled.
func (s *recordingService) discard(ctx context.Context, object string) error {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return s.store.Delete(dctx, object)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (s *recordingService) SignedURL(ctx context.Context, userID, recordingID string) (*SignedURL, error) {
	const op = "RecordingService.SignedURL"

	if s.store == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "recording storage is not configured", nil)
	}
	if _, err := uuid.Parse(recordingID); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "recording not found", utils.ErrNotFound)
	}

	rec, err := s.recordings.GetByID(ctx, recordingID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "recording not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get recording", err)
	}
	if rec.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	expires := s.now().Add(storage.SignedURLTTL).UTC()
	url, err := s.store.SignedGetURL(ctx, rec.ObjectName, storage.SignedURLTTL)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to sign url", err)
	}
	return &SignedURL{URL: url, ExpiresAt: expires}, nil
}

func (s *recordingService) List(ctx context.Context, userID, sessionID string) ([]models.Recording, error) {
	const op = "RecordingService.List"

	if _, err := s.sessions.Authorize(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	out, err := s.recordings.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list recordings", err)
	}
	return out, nil
}
