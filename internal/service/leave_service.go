package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type leaveRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.LeaveApplicationFilter) ([]models.LeaveApplicationDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.LeaveApplicationDetail, error)
	Create(ctx context.Context, leave *models.LeaveApplication) error
	Update(ctx context.Context, leave *models.LeaveApplication) error
	Delete(ctx context.Context, id string) error
}

// LeaveService handles leave applications and their approval.
type LeaveService struct {
	repo      leaveRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs the service.
func NewLeaveService(repo leaveRepository, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, validator: defaultValidator(validate), logger: logger}
}

// List returns applications visible to the caller.
func (s *LeaveService) List(ctx context.Context, p *models.Principal, filter models.LeaveApplicationFilter) ([]models.LeaveApplicationDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "leave application", "list leave applications")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an application visible to the caller.
func (s *LeaveService) Get(ctx context.Context, p *models.Principal, id string) (*models.LeaveApplicationDetail, error) {
	leave, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "leave application", "load leave application")
	}
	return leave, nil
}

// Create files a pending application for the caller.
func (s *LeaveService) Create(ctx context.Context, p *models.Principal, req dto.LeaveApplicationRequest) (*models.LeaveApplicationDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	leave := &models.LeaveApplication{
		UserID: p.UserID,
		Reason: req.Reason,
		Status: models.LeavePending,
	}
	var err error
	if leave.StartDate, err = parseDate("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if leave.EndDate, err = parseDate("end_date", req.EndDate); err != nil {
		return nil, err
	}
	if err := checkLeaveDates(leave); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, storeError(err, "leave application", "create leave application")
	}
	return s.Get(ctx, p, leave.ID)
}

// Update edits an application. Only admins may move its status, which
// records them as the approver; reverting to pending clears the approver.
// Other owners may edit pending applications.
func (s *LeaveService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateLeaveApplicationRequest) (*models.LeaveApplicationDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "leave application", "load leave application")
	}
	leave := current.LeaveApplication

	if req.Status != nil && models.LeaveStatus(*req.Status) != leave.Status {
		if !p.Unrestricted() {
			return nil, forbidden("only an admin can change the status of a leave application")
		}
		leave.Status = models.LeaveStatus(*req.Status)
		if leave.Status == models.LeavePending {
			leave.ApprovedBy = nil
		} else {
			approver := p.UserID
			leave.ApprovedBy = &approver
		}
	} else if !p.Unrestricted() && leave.Status != models.LeavePending {
		return nil, forbidden("only pending leave applications can be edited")
	}

	if req.StartDate != nil {
		if leave.StartDate, err = parseDate("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if leave.EndDate, err = parseDate("end_date", *req.EndDate); err != nil {
			return nil, err
		}
	}
	setString(&leave.Reason, req.Reason)
	if err := checkLeaveDates(&leave); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &leave); err != nil {
		return nil, storeError(err, "leave application", "update leave application")
	}
	if leave.Status != current.Status {
		s.logger.Info("leave application status changed",
			zap.String("leave_id", leave.ID),
			zap.String("status", string(leave.Status)),
			zap.String("approved_by", p.UserID),
		)
	}
	return s.Get(ctx, p, id)
}

// Delete withdraws an application. Non-admins may only withdraw pending ones.
func (s *LeaveService) Delete(ctx context.Context, p *models.Principal, id string) error {
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return storeError(err, "leave application", "load leave application")
	}
	if !p.Unrestricted() && current.Status != models.LeavePending {
		return forbidden("only pending leave applications can be withdrawn")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "leave application", "delete leave application")
	}
	return nil
}

func checkLeaveDates(leave *models.LeaveApplication) error {
	if leave.EndDate.Before(leave.StartDate.Time) {
		return appErrors.Field("end_date", "must not be before start_date")
	}
	return nil
}
