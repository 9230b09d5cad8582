package workers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yoockh/interviewme/internal/events"
	"github.com/yoockh/interviewme/internal/models"
	"github.com/yoockh/interviewme/internal/observe"
	"github.com/yoockh/interviewme/internal/providers/stt"
	"github.com/yoockh/interviewme/internal/queue"
	"github.com/yoockh/interviewme/internal/services"
)

const sttTimeout = 60 * time.Second

// AnswerWorkerPool consumes recorded answers from the Redis stream,
// transcribes them and submits the transcript as an audio attempt.
type AnswerWorkerPool struct {
	Redis      redis.UniversalClient
	Attempts   services.AttemptService
	STT        stt.Provider
	Events     events.Publisher
	Metrics    *observe.Metrics // optional
	Tracer     trace.Tracer     // global provider when nil
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *AnswerWorkerPool) defaults() error {
	if p.Redis == nil || p.Attempts == nil || p.STT == nil || p.Events == nil {
		return errors.New("AnswerWorkerPool missing dependency: Redis/Attempts/STT/Events must be set")
	}
	if p.Stream == "" {
		p.Stream = queue.DefaultStream
	}
	if p.Group == "" {
		p.Group = queue.DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 4
	}
	if p.Logger == nil {
		p.Logger = logrus.StandardLogger()
	}
	return nil
}

// Run blocks until ctx is done and every consumer has stopped.
func (p *AnswerWorkerPool) Run(ctx context.Context) error {
	if err := p.defaults(); err != nil {
		return err
	}

	err := p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}

	p.Logger.WithFields(logrus.Fields{
		"stream":  p.Stream,
		"group":   p.Group,
		"workers": p.NumWorkers,
	}).Info("answer workers started")

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runConsumer(ctx, consumer)
		}()
	}
	wg.Wait()
	return nil
}

func (p *AnswerWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for ctx.Err() == nil {
		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    4,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				// failures are reported to the client, never retried
				_ = p.Redis.XAck(context.WithoutCancel(ctx), p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *AnswerWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	job, err := queue.ParseMessage(msg)
	if err != nil {
		p.Logger.WithError(err).WithField("redis_id", msg.ID).Warn("dropping answer job")
		p.recordJob(ctx, "failed")
		if job.SessionID != "" {
			p.publishFailure(ctx, job, "invalid audio job")
		}
		return
	}
	if err := p.Process(ctx, job); err != nil {
		p.recordJob(ctx, "failed")
		return
	}
	p.recordJob(ctx, "done")
}

// Process transcribes one job, submits the attempt and publishes the outcome
// on the session channel.
func (p *AnswerWorkerPool) Process(ctx context.Context, job queue.AnswerJob) (err error) {
	ctx, span := p.tracer().Start(ctx, "answer.process", trace.WithAttributes(
		attribute.String("job.id", job.JobID),
		attribute.String("session.id", job.SessionID),
		attribute.Int("audio.bytes", len(job.Audio)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "answer job failed")
		}
		span.End()
	}()

	log := p.Logger.WithFields(logrus.Fields{
		"job_id":     job.JobID,
		"session_id": job.SessionID,
		"redis_id":   job.MessageID,
	})

	text, conf, err := p.transcribe(ctx, job)
	if err != nil {
		log.WithError(err).Error("stt failed")
		p.publishFailure(ctx, job, "transcription failed")
		return err
	}

	attempt, err := p.Attempts.Submit(ctx, services.SubmitInput{
		UserID:        job.UserID,
		SessionID:     job.SessionID,
		Transcript:    text,
		Source:        models.SourceAudio,
		STTConfidence: conf,
	})
	if err != nil {
		log.WithError(err).Error("submit audio attempt failed")
		p.publishFailure(ctx, job, "failed to analyse answer")
		return err
	}

	ev, err := events.NewEvent(events.TypeAnswerResult, job.SessionID, attempt)
	if err != nil {
		return err
	}
	ev.JobID = job.JobID
	if err := p.Events.Publish(ctx, ev); err != nil {
		log.WithError(err).Warn("publish answer result failed")
	}

	fields := logrus.Fields{"attempt_id": attempt.AttemptID, "stt_confidence": conf}
	if !job.EnqueuedAt.IsZero() {
		fields["queued_ms"] = time.Since(job.EnqueuedAt).Milliseconds()
	}
	log.WithFields(fields).Info("audio answer processed")
	return nil
}

func (p *AnswerWorkerPool) transcribe(ctx context.Context, job queue.AnswerJob) (string, float64, error) {
	ctx, span := p.tracer().Start(ctx, "stt.transcribe", trace.WithAttributes(
		attribute.String("content_type", job.ContentType),
		attribute.String("language", job.Language),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, sttTimeout)
	defer cancel()
	text, conf, err := p.STT.Transcribe(ctx, job.Audio, job.ContentType, job.Language)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transcription failed")
		return "", 0, err
	}
	span.SetAttributes(attribute.Float64("stt.confidence", conf))
	return text, conf, nil
}

func (p *AnswerWorkerPool) tracer() trace.Tracer {
	if p.Tracer != nil {
		return p.Tracer
	}
	return otel.Tracer("github.com/yoockh/interviewme/internal/workers")
}

func (p *AnswerWorkerPool) publishFailure(ctx context.Context, job queue.AnswerJob, reason string) {
	ev := events.Event{Type: events.TypeAnswerFailed, SessionID: job.SessionID, JobID: job.JobID, Error: reason}
	if err := p.Events.Publish(ctx, ev); err != nil {
		p.Logger.WithError(err).WithField("job_id", job.JobID).Warn("publish answer failure failed")
	}
}

func (p *AnswerWorkerPool) recordJob(ctx context.Context, status string) {
	if p.Metrics != nil {
		p.Metrics.RecordWorkerJob(ctx, status)
	}
}
