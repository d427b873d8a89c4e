// Package models defines database models.
package models

import "time"

// TranslationLog is one audited translation request.
type TranslationLog struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`
	SourceLang     string    `gorm:"size:16;index:idx_lang_pair" json:"source_lang"`
	TargetLang     string    `gorm:"size:16;index:idx_lang_pair" json:"target_lang"`
	SourceText     string    `gorm:"type:text" json:"source_text"`
	TranslatedText string    `gorm:"type:text" json:"translated_text"`
	Cached         bool      `json:"cached"`
	QualityScore   *int      `json:"quality_score,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	Success        bool      `gorm:"index" json:"success"`
	ErrorCode      string    `gorm:"size:64" json:"error_code,omitempty"`
}

// TableName overrides the default table name.
func (TranslationLog) TableName() string {
	return "translation_logs"
}
