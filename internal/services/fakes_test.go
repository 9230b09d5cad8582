package services

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/interviewme/internal/analysis/facial"
	"github.com/yoockh/interviewme/internal/events"
	"github.com/yoockh/interviewme/internal/models"
	"github.com/yoockh/interviewme/internal/queue"
	"github.com/yoockh/interviewme/internal/utils"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: map[string]*models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return utils.ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

type fakeQuestions struct {
	mu   sync.Mutex
	byID map[string]models.Question
	gets int
}

func newFakeQuestions() *fakeQuestions { return &fakeQuestions{byID: map[string]models.Question{}} }

func (f *fakeQuestions) Insert(_ context.Context, q *models.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[q.ID] = *q
	return nil
}

func (f *fakeQuestions) GetByID(_ context.Context, id string) (*models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	q, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &q, nil
}

func (f *fakeQuestions) List(_ context.Context, category string, _ int) ([]models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Question{}
	for _, q := range f.byID {
		if category == "" || q.Category == category {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeQuestions) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]*models.Session
}

func newFakeSessions() *fakeSessions { return &fakeSessions{byID: map[string]*models.Session{}} }

func (f *fakeSessions) Create(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.byID[s.SessionID] = &cp
	return nil
}

func (f *fakeSessions) GetBySessionID(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) ListByUser(_ context.Context, userID string, _ int64) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Session{}
	for _, s := range f.byID {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessions) End(_ context.Context, id string, endedAt time.Time, dur int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	s.Status = models.SessionEnded
	s.EndedAt = &endedAt
	s.DurationSeconds = dur
	return nil
}

func (f *fakeSessions) SetFacialSummary(_ context.Context, id string, sum facial.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	s.Facial = &sum
	return nil
}

type fakeAttempts struct {
	mu   sync.Mutex
	rows []models.Attempt
}

func (f *fakeAttempts) Insert(_ context.Context, a *models.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAttempts) ListBySession(_ context.Context, sessionID string, _ int64) ([]models.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Attempt{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].SessionID == sessionID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeAttempts) SetCoachFeedback(_ context.Context, attemptID, feedback string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].AttemptID == attemptID {
			f.rows[i].CoachFeedback = feedback
			return nil
		}
	}
	return utils.ErrNotFound
}

type fakeRecordings struct {
	mu        sync.Mutex
	byID      map[string]models.Recording
	insertErr error
}

func newFakeRecordings() *fakeRecordings { return &fakeRecordings{byID: map[string]models.Recording{}} }

func (f *fakeRecordings) Insert(_ context.Context, r *models.Recording) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.byID[r.ID] = *r
	return nil
}

func (f *fakeRecordings) GetByID(_ context.Context, id string) (*models.Recording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRecordings) ListBySession(_ context.Context, sessionID string) ([]models.Recording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Recording{}
	for _, r := range f.byID {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = b
	return "gs://test/" + name, nil
}

func (s *fakeStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name)
	return nil
}

func (s *fakeStore) SignedGetURL(_ context.Context, name string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + name + "?ttl=" + ttl.String(), nil
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []queue.AnswerJob
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job queue.AnswerJob) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type fakeCoach struct {
	text string
	err  error
}

func (c fakeCoach) StreamAnswer(context.Context, string) (<-chan string, <-chan error) {
	out := make(chan string, 1)
	errs := make(chan error, 1)
	if c.text != "" {
		out <- c.text
	}
	if c.err != nil {
		errs <- c.err
	}
	close(out)
	close(errs)
	return out, errs
}

func (fakeCoach) Close() error { return nil }
