// Package services contains background services supporting the HTTP layer.
package services

import (
	"context"
	"sync"
	"time"

	"lingo-gate/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	logFlushInterval = 30 * time.Second
	logFlushBatch    = 100
)

// TranslationLogService buffers translation audit records in memory and
// flushes them to the database periodically or when the buffer fills.
type TranslationLogService struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []models.TranslationLog

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewTranslationLogService creates the audit log service.
func NewTranslationLogService(db *gorm.DB) *TranslationLogService {
	return &TranslationLogService{
		db:       db,
		stopChan: make(chan struct{}),
	}
}

// Start launches the periodic flush loop.
func (s *TranslationLogService) Start() {
	s.wg.Add(1)
	go s.flushLoop()
	logrus.Debug("Translation log service started")
}

// Stop flushes outstanding records and stops the loop.
func (s *TranslationLogService) Stop(ctx context.Context) {
	close(s.stopChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logrus.Warn("Translation log service stop timed out")
		return
	}

	s.flush()
	logrus.Debug("Translation log service stopped")
}

// Record queues one audit entry. The entry gets a fresh request ID.
func (s *TranslationLogService) Record(entry models.TranslationLog) {
	entry.ID = uuid.NewString()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	s.mu.Lock()
	s.pending = append(s.pending, entry)
	shouldFlush := len(s.pending) >= logFlushBatch
	s.mu.Unlock()

	if shouldFlush {
		s.flush()
	}
}

func (s *TranslationLogService) flushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(logFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.stopChan:
			return
		}
	}
}

func (s *TranslationLogService) flush() {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, logFlushBatch).Error; err != nil {
		logrus.WithError(err).Errorf("Failed to flush %d translation log entries", len(batch))
		return
	}
	logrus.Debugf("Flushed %d translation log entries", len(batch))
}

// LogQuery filters translation log listings.
type LogQuery struct {
	SourceLang string
	TargetLang string
	Success    *bool
	Page       int
	PageSize   int
}

// List returns a page of audit entries, newest first, with the total count.
func (s *TranslationLogService) List(query LogQuery) ([]models.TranslationLog, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 200 {
		query.PageSize = 50
	}

	tx := s.db.Model(&models.TranslationLog{})
	if query.SourceLang != "" {
		tx = tx.Where("source_lang = ?", query.SourceLang)
	}
	if query.TargetLang != "" {
		tx = tx.Where("target_lang = ?", query.TargetLang)
	}
	if query.Success != nil {
		tx = tx.Where("success = ?", *query.Success)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.TranslationLog
	err := tx.Order("timestamp desc").
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&entries).Error
	return entries, total, err
}
