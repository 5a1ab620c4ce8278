package models

import "time"

// Job statuses.
const (
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobSkipped    = "skipped"
	JobFailed     = "failed"
)

// TranscriptionJob records one invocation of the pipeline, successful or
// not. The original function swallowed failures; this row is the audit
// trail that makes them observable.
type TranscriptionJob struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Bucket string `gorm:"column:bucket;type:text;index" json:"bucket"`
	Object string `gorm:"column:object;type:text;index" json:"object"`
	Format string `gorm:"column:format;type:text" json:"format"`

	Status       string `gorm:"column:status;type:text;index" json:"status"`
	ErrorCode    string `gorm:"column:error_code;type:text" json:"error_code,omitempty"`
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	ConvertedObject  string `gorm:"column:converted_object;type:text" json:"converted_object,omitempty"`
	TranscriptObject string `gorm:"column:transcript_object;type:text" json:"transcript_object,omitempty"`
	TranscriptChars  int    `gorm:"column:transcript_chars;type:integer" json:"transcript_chars"`

	StartedAt  time.Time  `gorm:"column:started_at;type:timestamptz" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at;type:timestamptz" json:"finished_at,omitempty"`
	DurationMS int64      `gorm:"column:duration_ms;type:bigint" json:"duration_ms"`
}

func (TranscriptionJob) TableName() string { return "transcription_jobs" }
