package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type mockLibraryItemRepo struct {
	items map[string]*models.LibraryItem
}

func (m *mockLibraryItemRepo) List(ctx context.Context, p *models.Principal, filter models.LibraryItemFilter) ([]models.LibraryItem, int, error) {
	var out []models.LibraryItem
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, len(out), nil
}

func (m *mockLibraryItemRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.LibraryItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *item
	return &copy, nil
}

func (m *mockLibraryItemRepo) Create(ctx context.Context, item *models.LibraryItem) error {
	item.ID = "item-new"
	copy := *item
	m.items[item.ID] = &copy
	return nil
}

func (m *mockLibraryItemRepo) Update(ctx context.Context, item *models.LibraryItem) error {
	copy := *item
	m.items[item.ID] = &copy
	return nil
}

func (m *mockLibraryItemRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// mockBorrowingRepo mirrors the item status bookkeeping done in SQL.
type mockBorrowingRepo struct {
	items      *mockLibraryItemRepo
	borrowings map[string]*models.LibraryBorrowing
}

func (m *mockBorrowingRepo) List(ctx context.Context, p *models.Principal, filter models.LibraryBorrowingFilter) ([]models.LibraryBorrowingDetail, int, error) {
	var out []models.LibraryBorrowingDetail
	for _, b := range m.borrowings {
		out = append(out, models.LibraryBorrowingDetail{LibraryBorrowing: *b})
	}
	return out, len(out), nil
}

func (m *mockBorrowingRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.LibraryBorrowingDetail, error) {
	b, ok := m.borrowings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.LibraryBorrowingDetail{LibraryBorrowing: *b}, nil
}

func (m *mockBorrowingRepo) claim(id string) error {
	item, ok := m.items.items[id]
	if !ok {
		return repository.ErrInvalidReference
	}
	if item.Status != models.LibraryItemAvailable {
		return repository.ErrItemUnavailable
	}
	item.Status = models.LibraryItemBorrowed
	return nil
}

func (m *mockBorrowingRepo) Create(ctx context.Context, b *models.LibraryBorrowing) error {
	if !b.Returned {
		if err := m.claim(b.LibraryItemID); err != nil {
			return err
		}
	}
	b.ID = "loan-new"
	copy := *b
	m.borrowings[b.ID] = &copy
	return nil
}

func (m *mockBorrowingRepo) Update(ctx context.Context, prev, next *models.LibraryBorrowing) error {
	if !prev.Returned {
		m.items.items[prev.LibraryItemID].Status = models.LibraryItemAvailable
	}
	if !next.Returned {
		if err := m.claim(next.LibraryItemID); err != nil {
			return err
		}
	}
	copy := *next
	m.borrowings[next.ID] = &copy
	return nil
}

func (m *mockBorrowingRepo) Delete(ctx context.Context, b *models.LibraryBorrowing) error {
	if !b.Returned {
		m.items.items[b.LibraryItemID].Status = models.LibraryItemAvailable
	}
	delete(m.borrowings, b.ID)
	return nil
}

const (
	bookID    = "3c5e7a9b-1d3f-4a5b-8c7d-9e1f3a5b7c9d"
	studentID = "8e0a2c4d-6f8b-4c1d-9e3f-5a7b9c1d3e5f"
)

func newLibraryFixture() (*LibraryService, *mockLibraryItemRepo, *mockBorrowingRepo) {
	items := &mockLibraryItemRepo{items: map[string]*models.LibraryItem{
		bookID: {ID: bookID, Title: "Dune", ItemType: "book", Status: models.LibraryItemAvailable},
	}}
	loans := &mockBorrowingRepo{items: items, borrowings: map[string]*models.LibraryBorrowing{}}
	svc := NewLibraryService(items, loans, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC) }
	return svc, items, loans
}

func TestLibraryServiceBorrowAndReturn(t *testing.T) {
	svc, items, _ := newLibraryFixture()
	ctx := context.Background()

	loan, err := svc.CreateBorrowing(ctx, staffPrincipal, dto.LibraryBorrowingRequest{LibraryItemID: bookID, StudentID: studentID})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", loan.BorrowDate.String())
	assert.Equal(t, models.LibraryItemBorrowed, items.items[bookID].Status)

	_, err = svc.CreateBorrowing(ctx, staffPrincipal, dto.LibraryBorrowingRequest{LibraryItemID: bookID, StudentID: studentID})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "library_item")

	returned := true
	loan, err = svc.UpdateBorrowing(ctx, staffPrincipal, loan.ID, dto.UpdateLibraryBorrowingRequest{Returned: &returned})
	require.NoError(t, err)
	require.NotNil(t, loan.ReturnDate)
	assert.Equal(t, "2024-02-10", loan.ReturnDate.String())
	assert.Equal(t, models.LibraryItemAvailable, items.items[bookID].Status)
}

func TestLibraryServiceRejectsReturnBeforeBorrow(t *testing.T) {
	svc, _, _ := newLibraryFixture()

	_, err := svc.CreateBorrowing(context.Background(), staffPrincipal, dto.LibraryBorrowingRequest{
		LibraryItemID: bookID,
		StudentID:     studentID,
		BorrowDate:    "2024-02-10",
		ReturnDate:    "2024-02-01",
		Returned:      true,
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "return_date")
}

func TestLibraryServiceDeleteOpenLoanFreesItem(t *testing.T) {
	svc, items, _ := newLibraryFixture()
	ctx := context.Background()

	loan, err := svc.CreateBorrowing(ctx, staffPrincipal, dto.LibraryBorrowingRequest{LibraryItemID: bookID, StudentID: studentID})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBorrowing(ctx, staffPrincipal, loan.ID))
	assert.Equal(t, models.LibraryItemAvailable, items.items[bookID].Status)
}

func TestLibraryServiceCreateItemDefaultsAvailable(t *testing.T) {
	svc, _, _ := newLibraryFixture()

	item, err := svc.CreateItem(context.Background(), adminPrincipal, dto.LibraryItemRequest{Title: "Atlas", ItemType: "map"})
	require.NoError(t, err)
	assert.Equal(t, models.LibraryItemAvailable, item.Status)
	assert.Equal(t, "admin", item.CreatedBy)
}
