package repository

import (
	"context"

	"github.com/fourloop/sourceflow/internal/domain"
	"gorm.io/gorm"
)

type RequestNoteRepository struct {
	db *gorm.DB
}

func NewRequestNoteRepository(db *gorm.DB) *RequestNoteRepository {
	return &RequestNoteRepository{db: db}
}

func (r *RequestNoteRepository) WithTx(tx *gorm.DB) *RequestNoteRepository {
	return &RequestNoteRepository{db: tx}
}

func (r *RequestNoteRepository) Create(ctx context.Context, note *domain.RequestNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// ListByRequest returns a request's notes, newest first
func (r *RequestNoteRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.RequestNote, error) {
	var notes []domain.RequestNote
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("note_id DESC").
		Find(&notes).Error
	return notes, err
}

func (r *RequestNoteRepository) DeleteByRequest(ctx context.Context, requestID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("request_id = ?", requestID).Delete(&domain.RequestNote{})
	return result.RowsAffected, result.Error
}
