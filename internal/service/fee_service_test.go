package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type mockFeeRepo struct {
	fees       map[string]*models.FeeDetail
	created    *models.Fee
	payMethods []string
	payErr     error
}

func (m *mockFeeRepo) List(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, int, error) {
	items, err := m.ListAll(ctx, p, filter)
	return items, len(items), err
}

func (m *mockFeeRepo) ListAll(ctx context.Context, p *models.Principal, filter models.FeeFilter) ([]models.FeeDetail, error) {
	var out []models.FeeDetail
	for _, f := range m.fees {
		out = append(out, *f)
	}
	return out, nil
}

func (m *mockFeeRepo) Get(ctx context.Context, p *models.Principal, id string) (*models.FeeDetail, error) {
	f, ok := m.fees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *f
	return &copy, nil
}

func (m *mockFeeRepo) Create(ctx context.Context, fee *models.Fee) error {
	fee.ID = "fee-new"
	m.created = fee
	m.fees[fee.ID] = &models.FeeDetail{Fee: *fee}
	return nil
}

func (m *mockFeeRepo) Update(ctx context.Context, fee *models.Fee) error {
	m.fees[fee.ID].Fee = *fee
	return nil
}

func (m *mockFeeRepo) Delete(ctx context.Context, id string) error {
	delete(m.fees, id)
	return nil
}

func (m *mockFeeRepo) Pay(ctx context.Context, p *models.Principal, id, method string) (*models.FeePayment, error) {
	m.payMethods = append(m.payMethods, method)
	if m.payErr != nil {
		return nil, m.payErr
	}
	f, ok := m.fees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if f.Paid() {
		return nil, repository.ErrFeeAlreadyPaid
	}
	paid := f.Balance
	f.Balance = 0
	f.PaymentMethod = method
	return &models.FeePayment{Fee: f.Fee, AmountPaid: paid, AuditLog: models.AuditLog{Action: models.AuditActionPayFee, ObjectID: id}}, nil
}

var staffPrincipal = &models.Principal{UserID: "staff-1", Role: models.RoleStaff}

func newFeeFixture() (*FeeService, *mockFeeRepo) {
	repo := &mockFeeRepo{fees: map[string]*models.FeeDetail{
		"fee-1": {
			Fee:     models.Fee{ID: "fee-1", StudentID: "s-1", Amount: 250, Balance: 250},
			Student: models.StudentSummary{ID: "s-1", AdmissionNumber: "ADM-001", FullName: "Ada Lovelace"},
		},
	}}
	return NewFeeService(repo, nil, NewMetricsService(), nil, zap.NewNop()), repo
}

func TestFeeServicePayDefaultsToCash(t *testing.T) {
	svc, repo := newFeeFixture()

	payment, err := svc.Pay(context.Background(), staffPrincipal, "fee-1", dto.PayFeeRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{models.DefaultPaymentMethod}, repo.payMethods)
	assert.Equal(t, 250.0, payment.AmountPaid)
	assert.Zero(t, payment.Fee.Balance)
	assert.Equal(t, models.AuditActionPayFee, payment.AuditLog.Action)
}

func TestFeeServicePayTwiceIsRejected(t *testing.T) {
	svc, repo := newFeeFixture()
	ctx := context.Background()

	_, err := svc.Pay(ctx, staffPrincipal, "fee-1", dto.PayFeeRequest{PaymentMethod: "Card"})
	require.NoError(t, err)

	_, err = svc.Pay(ctx, staffPrincipal, "fee-1", dto.PayFeeRequest{PaymentMethod: "Card"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "already paid", appErr.Message)
	assert.Equal(t, "Card", repo.fees["fee-1"].PaymentMethod)
}

func TestFeeServicePayInvisibleFee(t *testing.T) {
	svc, _ := newFeeFixture()

	_, err := svc.Pay(context.Background(), staffPrincipal, "missing", dto.PayFeeRequest{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestFeeServicePayStoreFailureIsOpaque(t *testing.T) {
	svc, repo := newFeeFixture()
	repo.payErr = errors.New("connection reset")

	_, err := svc.Pay(context.Background(), staffPrincipal, "fee-1", dto.PayFeeRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 500, appErr.Status)
	assert.NotContains(t, appErr.Message, "connection reset")
}

func TestFeeServiceCreateDefaultsBalance(t *testing.T) {
	svc, repo := newFeeFixture()

	fee, err := svc.Create(context.Background(), staffPrincipal, dto.FeeRequest{
		StudentID: "0b0c8f0a-1d2e-4f3a-9b4c-5d6e7f8a9b0c",
		Amount:    120,
		Date:      "2024-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, fee.Balance)
	assert.Equal(t, "staff-1", repo.created.CreatedBy)
}

func TestFeeServiceRejectsBalanceAboveAmount(t *testing.T) {
	svc, _ := newFeeFixture()
	balance := 500.0

	_, err := svc.Update(context.Background(), staffPrincipal, "fee-1", dto.UpdateFeeRequest{Balance: &balance})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "balance")
}

func TestFeeServiceExportCSV(t *testing.T) {
	svc, _ := newFeeFixture()

	out, err := svc.Export(context.Background(), staffPrincipal, models.FeeFilter{})
	require.NoError(t, err)
	assert.Equal(t,
		"admission_number,student,amount,balance,date,payment_method,status\nADM-001,Ada Lovelace,250.00,250.00,,,outstanding\n",
		string(out))
}
