// Package events fans session-scoped notifications out over Redis pub/sub so
// a frame websocket on any instance sees results produced by any worker.
package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	TypeAnswerResult = "answer_result"
	TypeAnswerFailed = "answer_failed"
	TypeSessionEnded = "session_ended"
)

type Event struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	JobID     string          `json:"job_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func NewEvent(typ, sessionID string, data any) (Event, error) {
	ev := Event{Type: typ, SessionID: sessionID}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Event{}, err
		}
		ev.Data = b
	}
	return ev, nil
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Subscriber interface {
	// Subscribe delivers events for sessionID until ctx is done or the
	// returned close func is called.
	Subscribe(ctx context.Context, sessionID string) (<-chan Event, func() error, error)
}

func Channel(sessionID string) string { return "session:" + sessionID + ":events" }

type RedisBus struct {
	rdb redis.UniversalClient
	log *logrus.Logger
}

func NewRedisBus(rdb redis.UniversalClient, log *logrus.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	if ev.SessionID == "" {
		return errors.New("event without session id")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel(ev.SessionID), payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, sessionID string) (<-chan Event, func() error, error) {
	ps := b.rdb.Subscribe(ctx, Channel(sessionID))
	// wait for the subscription confirmation so nothing published after
	// Subscribe returns is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ps.Channel():
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.WithError(err).WithField("channel", msg.Channel).Warn("events: dropping malformed event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, ps.Close, nil
}
