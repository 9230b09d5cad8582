package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Question is an interview prompt with the reference answer used for
// relevance scoring.
type Question struct {
	ID              string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Prompt          string         `gorm:"column:prompt;type:text;not null" json:"prompt"`
	ReferenceAnswer string         `gorm:"column:reference_answer;type:text;not null" json:"reference_answer"`
	Category        string         `gorm:"column:category;type:text;index" json:"category"`
	Difficulty      string         `gorm:"column:difficulty;type:text" json:"difficulty"` // easy|medium|hard
	Tags            pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`

	// free-form scoring notes for reviewers
	Rubric datatypes.JSON `gorm:"column:rubric;type:jsonb" json:"rubric,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Question) TableName() string { return "questions" }
