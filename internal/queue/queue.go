// Package queue carries recorded answers from the HTTP layer to the
// transcription workers over a Redis stream.
package queue

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultStream = "answers:stream"
	DefaultGroup  = "answer-workers"

	// MaxAudioBytes bounds one answer recording.
	MaxAudioBytes = 10 << 20
)

// AnswerJob is one recorded answer waiting for transcription.
type AnswerJob struct {
	JobID       string
	SessionID   string
	UserID      string
	ContentType string
	Language    string
	Audio       []byte
	EnqueuedAt  time.Time

	// stream entry id, set on dequeue
	MessageID string
}

type Enqueuer interface {
	Enqueue(ctx context.Context, job AnswerJob) error
}

var ErrMalformedJob = errors.New("malformed answer job")

func (j AnswerJob) Values() map[string]any {
	return map[string]any{
		"job_id":       j.JobID,
		"session_id":   j.SessionID,
		"user_id":      j.UserID,
		"content_type": j.ContentType,
		"language":     j.Language,
		"audio_base64": base64.StdEncoding.EncodeToString(j.Audio),
		"enqueued_at":  j.EnqueuedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ParseMessage rebuilds a job from a stream entry.
func ParseMessage(msg redis.XMessage) (AnswerJob, error) {
	get := func(k string) string {
		s, _ := msg.Values[k].(string)
		return s
	}

	job := AnswerJob{
		MessageID:   msg.ID,
		JobID:       get("job_id"),
		SessionID:   get("session_id"),
		UserID:      get("user_id"),
		ContentType: get("content_type"),
		Language:    get("language"),
	}
	if job.JobID == "" || job.SessionID == "" || job.UserID == "" {
		return job, fmt.Errorf("%w: missing ids", ErrMalformedJob)
	}

	raw := get("audio_base64")
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // data:...;base64,
	}
	audio, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return job, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if len(audio) == 0 {
		return job, fmt.Errorf("%w: empty audio", ErrMalformedJob)
	}
	job.Audio = audio

	if ts := get("enqueued_at"); ts != "" {
		job.EnqueuedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return job, nil
}

type RedisStream struct {
	rdb    redis.UniversalClient
	stream string
	maxLen int64
}

func NewRedisStream(rdb redis.UniversalClient, stream string) *RedisStream {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStream{rdb: rdb, stream: stream, maxLen: 10000}
}

func (q *RedisStream) Stream() string { return q.stream }

func (q *RedisStream) Enqueue(ctx context.Context, job AnswerJob) error {
	if len(job.Audio) == 0 {
		return fmt.Errorf("%w: empty audio", ErrMalformedJob)
	}
	if len(job.Audio) > MaxAudioBytes {
		return fmt.Errorf("%w: audio exceeds %d bytes", ErrMalformedJob, MaxAudioBytes)
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: true,
		Values: job.Values(),
	}).Err()
}
