package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/interviewme/internal/analysis/speech"
)

const (
	SourceText  = "text"
	SourceAudio = "audio"
)

// Attempt is one answer to a session's question with its speech analysis.
type Attempt struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AttemptID  string             `bson:"attempt_id" json:"attempt_id"`
	SessionID  string             `bson:"session_id" json:"session_id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	QuestionID string             `bson:"question_id" json:"question_id"`

	Source        string  `bson:"source" json:"source"` // text|audio
	Transcript    string  `bson:"transcript" json:"transcript"`
	STTConfidence float64 `bson:"stt_confidence,omitempty" json:"stt_confidence,omitempty"`

	Report        speech.Report `bson:"report" json:"report"`
	CoachFeedback string        `bson:"coach_feedback,omitempty" json:"coach_feedback,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
