package repository

import (
	"context"

	"github.com/fourloop/sourceflow/internal/domain"
	"gorm.io/gorm"
)

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) WithTx(tx *gorm.DB) *StatusRepository {
	return &StatusRepository{db: tx}
}

func (r *StatusRepository) List(ctx context.Context) ([]domain.Status, error) {
	var statuses []domain.Status
	err := r.db.WithContext(ctx).Order("status_id ASC").Find(&statuses).Error
	return statuses, err
}

func (r *StatusRepository) Exists(ctx context.Context, id domain.StatusID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Status{}).Where("status_id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountRequests returns the number of requests per status, including statuses with none
func (r *StatusRepository) CountRequests(ctx context.Context) ([]domain.StatusCount, error) {
	var counts []domain.StatusCount
	err := r.db.WithContext(ctx).
		Table("statuses AS s").
		Select("s.status_id AS status_id, s.status_name AS status_name, COUNT(r.request_id) AS count").
		Joins("LEFT JOIN requests AS r ON r.status_id = s.status_id").
		Group("s.status_id, s.status_name").
		Order("s.status_id ASC").
		Scan(&counts).Error
	return counts, err
}
