package repository_test

import (
	"context"
	"testing"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/fourloop/sourceflow/internal/repository"
	"github.com/fourloop/sourceflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRequestRepository_CreateAndGetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)
	ctx := context.Background()

	budget := 450.0
	request := &domain.Request{
		CustomerID: 1,
		StatusID:   domain.StatusInProgress,
		ItemName:   "Black Prada loafers",
		Brand:      "Prada",
		BudgetGBP:  &budget,
		Size:       "UK 7",
		Colour:     "Black",
	}
	require.NoError(t, repo.Create(ctx, request))
	assert.NotZero(t, request.ID)

	found, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Black Prada loafers", found.ItemName)
	assert.Equal(t, "Prada", found.Brand)
	require.NotNil(t, found.BudgetGBP)
	assert.Equal(t, 450.0, *found.BudgetGBP)
	assert.Equal(t, "In Progress", found.StatusName())
	require.NotNil(t, found.Customer)
	assert.Equal(t, "Demo Customer", found.Customer.FullName)
	assert.False(t, found.CreatedAt.IsZero())
	assert.False(t, found.UpdatedAt.IsZero())
}

func TestRequestRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRequestRepository_ListNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)

	first := testutil.CreateTestRequest(t, db, "Scarf", domain.StatusNew)
	second := testutil.CreateTestRequest(t, db, "Watch", domain.StatusSourced)

	requests, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, second.ID, requests[0].ID)
	assert.Equal(t, first.ID, requests[1].ID)
	assert.Equal(t, "Sourced", requests[0].StatusName())
}

func TestRequestRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)
	ctx := context.Background()

	request := testutil.CreateTestRequest(t, db, "Scarf", domain.StatusNew)

	t.Run("updates editable columns", func(t *testing.T) {
		budget := 80.0
		err := repo.Update(ctx, request.ID, &domain.RequestInput{
			StatusID:  domain.StatusCompleted,
			ItemName:  "Silk scarf",
			Brand:     "Hermès",
			BudgetGBP: &budget,
			Size:      "90cm",
			Colour:    "Blue",
		})
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, "Silk scarf", found.ItemName)
		assert.Equal(t, "Hermès", found.Brand)
		assert.Equal(t, "Completed", found.StatusName())
		require.NotNil(t, found.BudgetGBP)
		assert.Equal(t, 80.0, *found.BudgetGBP)
		assert.False(t, found.UpdatedAt.Before(found.CreatedAt))
	})

	t.Run("clears budget", func(t *testing.T) {
		err := repo.Update(ctx, request.ID, &domain.RequestInput{StatusID: domain.StatusCompleted, ItemName: "Silk scarf"})
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Nil(t, found.BudgetGBP)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := repo.Update(ctx, 9999, &domain.RequestInput{StatusID: domain.StatusNew, ItemName: "Nothing"})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestRequestRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestRepository(db)
	ctx := context.Background()

	request := testutil.CreateTestRequest(t, db, "Scarf", domain.StatusNew)

	require.NoError(t, repo.Delete(ctx, request.ID))

	exists, err := repo.Exists(ctx, request.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.Delete(ctx, request.ID), gorm.ErrRecordNotFound)
}

func TestRequestNoteRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewRequestNoteRepository(db)
	ctx := context.Background()

	request := testutil.CreateTestRequest(t, db, "Scarf", domain.StatusNew)
	other := testutil.CreateTestRequest(t, db, "Watch", domain.StatusNew)

	require.NoError(t, repo.Create(ctx, &domain.RequestNote{RequestID: request.ID, Text: "first"}))
	require.NoError(t, repo.Create(ctx, &domain.RequestNote{RequestID: request.ID, Text: "second"}))
	require.NoError(t, repo.Create(ctx, &domain.RequestNote{RequestID: other.ID, Text: "elsewhere"}))

	notes, err := repo.ListByRequest(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Text)
	assert.Equal(t, "first", notes[1].Text)

	deleted, err := repo.DeleteByRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, int64(1), testutil.CountNotes(t, db, other.ID))
}

func TestStatusRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewStatusRepository(db)
	ctx := context.Background()

	statuses, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 4)
	assert.Equal(t, domain.StatusNew, statuses[0].ID)

	exists, err := repo.Exists(ctx, domain.StatusSourced)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)

	testutil.CreateTestRequest(t, db, "Scarf", domain.StatusNew)
	testutil.CreateTestRequest(t, db, "Watch", domain.StatusNew)
	testutil.CreateTestRequest(t, db, "Bag", domain.StatusSourced)

	counts, err := repo.CountRequests(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 4)
	assert.Equal(t, domain.StatusCount{StatusID: domain.StatusNew, StatusName: "New", Count: 2}, counts[0])
	assert.Equal(t, int64(0), counts[1].Count)
	assert.Equal(t, int64(1), counts[2].Count)
	assert.Equal(t, int64(0), counts[3].Count)
}

func TestCustomerRepository_GetDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Customer{FullName: "Second", Email: "second@example.com"}))

	customer, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Demo Customer", customer.FullName)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCustomerRepository_GetDefault_Empty(t *testing.T) {
	db := testutil.SetupUnseededTestDB(t)
	repo := repository.NewCustomerRepository(db)

	_, err := repo.GetDefault(context.Background())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
