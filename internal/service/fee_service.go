package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
	"github.com/noah-isme/elite-academy-api/pkg/export"
)

type feeRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, int, error)
	ListAll(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.FeeDetail, error)
	Create(ctx context.Context, fee *models.Fee) error
	Update(ctx context.Context, fee *models.Fee) error
	Delete(ctx context.Context, id string) error
	Pay(ctx context.Context, p *models.Principal, id, method string) (*models.FeePayment, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

var feeExportHeaders = []string{"admission_number", "student", "amount", "balance", "date", "payment_method", "status"}

// FeeService raises, settles and exports student fees.
type FeeService struct {
	repo      feeRepository
	exporter  csvRenderer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeService constructs the service. A nil exporter falls back to CSV.
func NewFeeService(repo feeRepository, exporter csvRenderer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewCSVExporter()
	}
	return &FeeService{repo: repo, exporter: exporter, metrics: metrics, validator: defaultValidator(validate), logger: logger}
}

// List returns fees visible to the caller.
func (s *FeeService) List(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "fee", "list fees")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a fee visible to the caller.
func (s *FeeService) Get(ctx context.Context, p *models.Principal, id string) (*models.FeeDetail, error) {
	fee, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "fee", "load fee")
	}
	return fee, nil
}

// Create raises a fee. The balance starts at the full amount unless given.
func (s *FeeService) Create(ctx context.Context, p *models.Principal, req dto.FeeRequest) (*models.FeeDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	fee := &models.Fee{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		Balance:       req.Amount,
		Date:          date,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		CreatedBy:     p.UserID,
	}
	if req.Balance != nil {
		fee.Balance = *req.Balance
	}
	if err := checkBalance(fee); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, fee); err != nil {
		return nil, storeError(err, "fee", "create fee")
	}
	return s.Get(ctx, p, fee.ID)
}

// Update modifies a visible fee.
func (s *FeeService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateFeeRequest) (*models.FeeDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "fee", "load fee")
	}
	fee := current.Fee
	setString(&fee.StudentID, req.StudentID)
	setString(&fee.PaymentMethod, req.PaymentMethod)
	if req.Amount != nil {
		fee.Amount = *req.Amount
	}
	if req.Balance != nil {
		fee.Balance = *req.Balance
	}
	if req.Date != nil {
		if fee.Date, err = parseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if err := checkBalance(&fee); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &fee); err != nil {
		return nil, storeError(err, "fee", "update fee")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a visible fee.
func (s *FeeService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if _, err := s.repo.Get(ctx, p, id); err != nil {
		return storeError(err, "fee", "load fee")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "fee", "delete fee")
	}
	return nil
}

// Pay settles the whole outstanding balance. A fee with nothing owing is
// rejected and left untouched.
func (s *FeeService) Pay(ctx context.Context, p *models.Principal, id string, req dto.PayFeeRequest) (*models.FeePayment, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = models.DefaultPaymentMethod
	}

	payment, err := s.repo.Pay(ctx, p, id, method)
	if err != nil {
		if errors.Is(err, repository.ErrFeeAlreadyPaid) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyPaid, "")
		}
		return nil, storeError(err, "fee", "pay fee")
	}

	s.metrics.RecordFeePayment(method, payment.AmountPaid)
	s.logger.Info("fee paid",
		zap.String("fee_id", payment.Fee.ID),
		zap.String("user_id", p.UserID),
		zap.String("method", method),
		zap.Float64("amount", payment.AmountPaid),
	)
	return payment, nil
}

// Export renders every fee visible to the caller as CSV.
func (s *FeeService) Export(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]byte, error) {
	fees, err := s.repo.ListAll(ctx, p, filter)
	if err != nil {
		return nil, storeError(err, "fee", "export fees")
	}
	data := export.Dataset{Headers: feeExportHeaders, Rows: make([]map[string]string, 0, len(fees))}
	for _, f := range fees {
		status := "outstanding"
		if f.Paid() {
			status = "paid"
		}
		data.Rows = append(data.Rows, map[string]string{
			"admission_number": f.Student.AdmissionNumber,
			"student":          f.Student.FullName,
			"amount":           strconv.FormatFloat(f.Amount, 'f', 2, 64),
			"balance":          strconv.FormatFloat(f.Balance, 'f', 2, 64),
			"date":             f.Date.String(),
			"payment_method":   f.PaymentMethod,
			"status":           status,
		})
	}
	out, err := s.exporter.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export fees")
	}
	return out, nil
}

func checkBalance(fee *models.Fee) error {
	if fee.Balance < 0 {
		return appErrors.Field("balance", "must not be negative")
	}
	if fee.Balance > fee.Amount {
		return appErrors.Field("balance", "must not exceed amount")
	}
	return nil
}
