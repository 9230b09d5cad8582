package models

import "time"

// Recording is metadata for an uploaded answer video; the bytes live in GCS.
type Recording struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;type:text;index" json:"user_id"`
	SessionID   string    `gorm:"column:session_id;type:uuid;index" json:"session_id"`
	FileName    string    `gorm:"column:file_name;type:text" json:"file_name"`
	ObjectName  string    `gorm:"column:object_name;type:text" json:"object_name"`
	ContentType string    `gorm:"column:content_type;type:text" json:"content_type"`
	SizeBytes   int64     `gorm:"column:size_bytes;type:bigint" json:"size_bytes"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;type:timestamptz" json:"uploaded_at"`
}

func (Recording) TableName() string { return "recordings" }
