package repository

import (
	"context"
	"time"

	"github.com/fourloop/sourceflow/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *RequestRepository) WithTx(tx *gorm.DB) *RequestRepository {
	return &RequestRepository{db: tx}
}

// Create inserts the request row only; associations are written separately
func (r *RequestRepository) Create(ctx context.Context, request *domain.Request) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(request).Error
}

// GetByID loads a request with its status and customer
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	var request domain.Request
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Customer").
		Where("request_id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns every request with its status, newest first
func (r *RequestRepository) List(ctx context.Context) ([]domain.Request, error) {
	var requests []domain.Request
	err := r.db.WithContext(ctx).
		Preload("Status").
		Order("request_id DESC").
		Find(&requests).Error
	return requests, err
}

// Update overwrites the editable columns. Returns gorm.ErrRecordNotFound if no row matched.
func (r *RequestRepository) Update(ctx context.Context, id int64, input *domain.RequestInput) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("request_id = ?", id).
		Updates(map[string]interface{}{
			"status_id":  input.StatusID,
			"item_name":  input.ItemName,
			"brand":      input.Brand,
			"budget_gbp": input.BudgetGBP,
			"size":       input.Size,
			"colour":     input.Colour,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the request row. Returns gorm.ErrRecordNotFound if no row matched.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Request{}, "request_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RequestRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Request{}).Where("request_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Request{}).Count(&count).Error
	return count, err
}
