package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type libraryItemRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.LibraryItemFilter) ([]models.LibraryItem, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.LibraryItem, error)
	Create(ctx context.Context, item *models.LibraryItem) error
	Update(ctx context.Context, item *models.LibraryItem) error
	Delete(ctx context.Context, id string) error
}

type libraryBorrowingRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.LibraryBorrowingFilter) ([]models.LibraryBorrowingDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.LibraryBorrowingDetail, error)
	Create(ctx context.Context, b *models.LibraryBorrowing) error
	Update(ctx context.Context, prev, next *models.LibraryBorrowing) error
	Delete(ctx context.Context, b *models.LibraryBorrowing) error
}

// LibraryService manages the catalogue and loans.
type LibraryService struct {
	items      libraryItemRepository
	borrowings libraryBorrowingRepository
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewLibraryService constructs the service.
func NewLibraryService(items libraryItemRepository, borrowings libraryBorrowingRepository, validate *validator.Validate, logger *zap.Logger) *LibraryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryService{
		items:      items,
		borrowings: borrowings,
		validator:  defaultValidator(validate),
		logger:     logger,
		now:        time.Now,
	}
}

// ListItems returns catalogue entries.
func (s *LibraryService) ListItems(ctx context.Context, p *models.Principal, filter models.LibraryItemFilter) ([]models.LibraryItem, *models.Pagination, error) {
	items, total, err := s.items.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "library item", "list library items")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// GetItem returns one catalogue entry.
func (s *LibraryService) GetItem(ctx context.Context, p *models.Principal, id string) (*models.LibraryItem, error) {
	item, err := s.items.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "library item", "load library item")
	}
	return item, nil
}

// CreateItem catalogues an item, available unless stated otherwise.
func (s *LibraryService) CreateItem(ctx context.Context, p *models.Principal, req dto.LibraryItemRequest) (*models.LibraryItem, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	item := &models.LibraryItem{
		Title:     req.Title,
		ItemType:  req.ItemType,
		ISBN:      req.ISBN,
		Status:    models.LibraryItemAvailable,
		CreatedBy: p.UserID,
	}
	if req.Status != "" {
		item.Status = models.LibraryItemStatus(req.Status)
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, storeError(err, "library item", "create library item")
	}
	return item, nil
}

// UpdateItem modifies a catalogue entry.
func (s *LibraryService) UpdateItem(ctx context.Context, p *models.Principal, id string, req dto.UpdateLibraryItemRequest) (*models.LibraryItem, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	item, err := s.items.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "library item", "load library item")
	}
	setString(&item.Title, req.Title)
	setString(&item.ItemType, req.ItemType)
	setString(&item.ISBN, req.ISBN)
	if req.Status != nil {
		item.Status = models.LibraryItemStatus(*req.Status)
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, storeError(err, "library item", "update library item")
	}
	return item, nil
}

// DeleteItem removes a catalogue entry.
func (s *LibraryService) DeleteItem(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.items.Get(ctx, p, id); err != nil {
		return storeError(err, "library item", "load library item")
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return storeError(err, "library item", "delete library item")
	}
	return nil
}

// ListBorrowings returns loans visible to the caller.
func (s *LibraryService) ListBorrowings(ctx context.Context, p *models.Principal, filter models.LibraryBorrowingFilter) ([]models.LibraryBorrowingDetail, *models.Pagination, error) {
	items, total, err := s.borrowings.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "library borrowing", "list library borrowings")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// GetBorrowing returns a loan visible to the caller.
func (s *LibraryService) GetBorrowing(ctx context.Context, p *models.Principal, id string) (*models.LibraryBorrowingDetail, error) {
	b, err := s.borrowings.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "library borrowing", "load library borrowing")
	}
	return b, nil
}

// CreateBorrowing lends an item. An open loan marks the item borrowed.
func (s *LibraryService) CreateBorrowing(ctx context.Context, p *models.Principal, req dto.LibraryBorrowingRequest) (*models.LibraryBorrowingDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	b := &models.LibraryBorrowing{
		LibraryItemID: req.LibraryItemID,
		StudentID:     req.StudentID,
		BorrowDate:    models.NewDate(s.now()),
		Returned:      req.Returned,
		CreatedBy:     p.UserID,
	}
	var err error
	if req.BorrowDate != "" {
		if b.BorrowDate, err = parseDate("borrow_date", req.BorrowDate); err != nil {
			return nil, err
		}
	}
	if req.ReturnDate != "" {
		returned, err := parseDate("return_date", req.ReturnDate)
		if err != nil {
			return nil, err
		}
		b.ReturnDate = &returned
	}
	if err := s.settle(b); err != nil {
		return nil, err
	}
	if err := s.borrowings.Create(ctx, b); err != nil {
		return nil, borrowingError(err, "create library borrowing")
	}
	return s.GetBorrowing(ctx, p, b.ID)
}

// UpdateBorrowing modifies a loan. Marking it returned frees the item.
func (s *LibraryService) UpdateBorrowing(ctx context.Context, p *models.Principal, id string, req dto.UpdateLibraryBorrowingRequest) (*models.LibraryBorrowingDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.borrowings.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "library borrowing", "load library borrowing")
	}
	prev := current.LibraryBorrowing
	next := prev
	setString(&next.LibraryItemID, req.LibraryItemID)
	setString(&next.StudentID, req.StudentID)
	if req.BorrowDate != nil {
		if next.BorrowDate, err = parseDate("borrow_date", *req.BorrowDate); err != nil {
			return nil, err
		}
	}
	if req.ReturnDate != nil {
		returned, err := parseDate("return_date", *req.ReturnDate)
		if err != nil {
			return nil, err
		}
		next.ReturnDate = &returned
	}
	if req.Returned != nil {
		next.Returned = *req.Returned
		if !next.Returned && req.ReturnDate == nil {
			next.ReturnDate = nil
		}
	}
	if err := s.settle(&next); err != nil {
		return nil, err
	}
	if err := s.borrowings.Update(ctx, &prev, &next); err != nil {
		return nil, borrowingError(err, "update library borrowing")
	}
	return s.GetBorrowing(ctx, p, id)
}

// DeleteBorrowing removes a loan, freeing the item if it was still out.
func (s *LibraryService) DeleteBorrowing(ctx context.Context, p *models.Principal, id string) error {
	current, err := s.borrowings.Get(ctx, p, id)
	if err != nil {
		return storeError(err, "library borrowing", "load library borrowing")
	}
	if err := s.borrowings.Delete(ctx, &current.LibraryBorrowing); err != nil {
		return storeError(err, "library borrowing", "delete library borrowing")
	}
	return nil
}

// settle fills the return date of returned loans and checks date order.
func (s *LibraryService) settle(b *models.LibraryBorrowing) error {
	if b.Returned && b.ReturnDate == nil {
		today := models.NewDate(s.now())
		b.ReturnDate = &today
	}
	if b.ReturnDate != nil && b.ReturnDate.Before(b.BorrowDate.Time) {
		return appErrors.Field("return_date", "must not be before borrow_date")
	}
	return nil
}

func borrowingError(err error, action string) error {
	if errors.Is(err, repository.ErrItemUnavailable) {
		return appErrors.Field("library_item", "is already borrowed")
	}
	return storeError(err, "library borrowing", action)
}
