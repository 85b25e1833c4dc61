package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/fourloop/sourceflow/internal/mapper"
	"github.com/fourloop/sourceflow/internal/metrics"
	"github.com/fourloop/sourceflow/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RequestService struct {
	requestRepo  *repository.RequestRepository
	noteRepo     *repository.RequestNoteRepository
	statusRepo   *repository.StatusRepository
	customerRepo *repository.CustomerRepository
	db           *gorm.DB
	logger       *zap.Logger
}

func NewRequestService(
	requestRepo *repository.RequestRepository,
	noteRepo *repository.RequestNoteRepository,
	statusRepo *repository.StatusRepository,
	customerRepo *repository.CustomerRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		noteRepo:     noteRepo,
		statusRepo:   statusRepo,
		customerRepo: customerRepo,
		db:           db,
		logger:       logger,
	}
}

// List returns every request, newest first
func (s *RequestService) List(ctx context.Context) ([]domain.RequestView, error) {
	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return mapper.ToRequestViews(requests), nil
}

// ListStatuses returns every status ordered by id
func (s *RequestService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	statuses, err := s.statusRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}

// ListStatusOptions returns the status select options with selected marked
func (s *RequestService) ListStatusOptions(ctx context.Context, selected string) ([]domain.StatusOption, error) {
	statuses, err := s.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToStatusOptions(statuses, selected), nil
}

// Get returns a request with its status and customer
func (s *RequestService) Get(ctx context.Context, id int64) (*domain.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return request, nil
}

// GetDetail returns a request with its customer and notes, newest note first
func (s *RequestService) GetDetail(ctx context.Context, id int64) (*domain.RequestDetail, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListByRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return mapper.ToRequestDetail(request, notes), nil
}

// GetForm returns the edit form pre-filled from the stored request
func (s *RequestService) GetForm(ctx context.Context, id int64) (*domain.RequestForm, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form := mapper.ToRequestForm(request)
	return &form, nil
}

// Create files a new request under the default customer, with its first note if given
func (s *RequestService) Create(ctx context.Context, input *domain.RequestInput) (*domain.Request, error) {
	var request *domain.Request

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkStatus(ctx, tx, input.StatusID); err != nil {
			return err
		}

		customer, err := s.customerRepo.WithTx(tx).GetDefault(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoDefaultCustomer
			}
			return fmt.Errorf("failed to get default customer: %w", err)
		}

		request = &domain.Request{
			CustomerID: customer.ID,
			StatusID:   input.StatusID,
			ItemName:   input.ItemName,
			Brand:      input.Brand,
			BudgetGBP:  input.BudgetGBP,
			Size:       input.Size,
			Colour:     input.Colour,
		}
		if err := s.requestRepo.WithTx(tx).Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		return s.appendNote(ctx, tx, request.ID, input.Note)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordOperation(metrics.OperationCreate)
	s.logger.Info("Request created",
		zap.Int64("request_id", request.ID),
		zap.Int64("status_id", int64(request.StatusID)),
	)
	return request, nil
}

// Update overwrites the editable fields of a request and appends the note if given
func (s *RequestService) Update(ctx context.Context, id int64, input *domain.RequestInput) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkStatus(ctx, tx, input.StatusID); err != nil {
			return err
		}

		if err := s.requestRepo.WithTx(tx).Update(ctx, id, input); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to update request: %w", err)
		}

		return s.appendNote(ctx, tx, id, input.Note)
	})
	if err != nil {
		return err
	}

	metrics.RecordOperation(metrics.OperationUpdate)
	s.logger.Info("Request updated", zap.Int64("request_id", id))
	return nil
}

// AddNote appends a note to an existing request
func (s *RequestService) AddNote(ctx context.Context, id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalidInput
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.requestRepo.WithTx(tx).Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check request: %w", err)
		}
		if !exists {
			return ErrRequestNotFound
		}
		return s.appendNote(ctx, tx, id, text)
	})
	if err != nil {
		return err
	}

	metrics.RecordOperation(metrics.OperationNote)
	return nil
}

// Delete removes a request and its notes
func (s *RequestService) Delete(ctx context.Context, id int64) error {
	var notes int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		notes, err = s.noteRepo.WithTx(tx).DeleteByRequest(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete notes: %w", err)
		}

		if err := s.requestRepo.WithTx(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to delete request: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordOperation(metrics.OperationDelete)
	s.logger.Info("Request deleted",
		zap.Int64("request_id", id),
		zap.Int64("notes_deleted", notes),
	)
	return nil
}

// StatusSummary counts requests per status, including empty statuses
func (s *RequestService) StatusSummary(ctx context.Context) ([]domain.StatusCount, error) {
	counts, err := s.statusRepo.CountRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	return counts, nil
}

func (s *RequestService) checkStatus(ctx context.Context, tx *gorm.DB, id domain.StatusID) error {
	if id < 1 {
		return ErrUnknownStatus
	}
	exists, err := s.statusRepo.WithTx(tx).Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check status: %w", err)
	}
	if !exists {
		return ErrUnknownStatus
	}
	return nil
}

func (s *RequestService) appendNote(ctx context.Context, tx *gorm.DB, requestID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	note := &domain.RequestNote{RequestID: requestID, Text: text}
	if err := s.noteRepo.WithTx(tx).Create(ctx, note); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}
