package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/interviewme/internal/analysis/facial"
)

const (
	SessionActive = "active"
	SessionEnded  = "ended"
)

// Session is one mock-interview practice run against a single question.
type Session struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID     string             `bson:"user_id" json:"user_id"`
	QuestionID string             `bson:"question_id" json:"question_id"`
	Status     string             `bson:"status" json:"status"` // active|ended

	// Facial is the tally of the last closed frame stream, if any.
	Facial *facial.Summary `bson:"facial,omitempty" json:"facial,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`

	DurationSeconds int64 `bson:"duration_seconds" json:"duration_seconds"`
}
