// File: internal/services/billing/service_test.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/payment"
	"github.com/jucoreach/jucoreach/internal/services"
)

type fakeProvider struct {
	checkouts int
	portals   int
	failNext  bool
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, customerEmail, priceID string) (*CheckoutSession, error) {
	if f.failNext {
		return nil, errors.New("provider unavailable")
	}
	f.checkouts++
	return &CheckoutSession{
		SessionID: fmt.Sprintf("cs_test_%d", f.checkouts),
		URL:       "https://billing.example.com/checkout",
	}, nil
}

func (f *fakeProvider) CreatePortalSession(ctx context.Context, customerID string) (*PortalSession, error) {
	f.portals++
	return &PortalSession{URL: "https://billing.example.com/portal/" + customerID}, nil
}

type fakePaymentRepo struct {
	byID      map[uint]*domain.Payment
	bySession map[string]uint
	nextID    uint
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		byID:      make(map[uint]*domain.Payment),
		bySession: make(map[string]uint),
		nextID:    1,
	}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.byID[p.ID] = &cp
	f.bySession[p.SessionID] = p.ID
	return p, nil
}

func (f *fakePaymentRepo) FindBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	id, ok := f.bySession[sessionID]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	cp := *f.byID[id]
	return &cp, nil
}

func (f *fakePaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	if _, ok := f.byID[p.ID]; !ok {
		return payment.ErrPaymentNotFound
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range f.byID {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Summary(ctx context.Context) (*payment.FinanceSummary, error) {
	summary := &payment.FinanceSummary{
		RevenueByPlan: make(map[domain.SubscriptionPlan]decimal.Decimal),
	}
	for _, p := range f.byID {
		switch p.Status {
		case domain.PaymentSucceeded:
			summary.TotalRevenue = summary.TotalRevenue.Add(p.Amount)
			summary.PaymentCount++
			summary.RevenueByPlan[p.Plan] = summary.RevenueByPlan[p.Plan].Add(p.Amount)
		case domain.PaymentPending:
			summary.PendingCount++
		case domain.PaymentFailed:
			summary.FailedCount++
		}
	}
	return summary, nil
}

type fakeBillingUserRepo struct {
	byID map[uint]*domain.User
}

func (f *fakeBillingUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeBillingUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeBillingUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, errors.New("user not found")
}

func (f *fakeBillingUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, errors.New("user not found")
}

func (f *fakeBillingUserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return nil, errors.New("user not found")
}

func (f *fakeBillingUserRepo) Update(ctx context.Context, u *domain.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeBillingUserRepo) Delete(ctx context.Context, userID uint) error {
	delete(f.byID, userID)
	return nil
}

func (f *fakeBillingUserRepo) ResetFailedAttempts(ctx context.Context, id uint) error {
	return nil
}

func (f *fakeBillingUserRepo) FindAllWithPagination(ctx context.Context, limit, offset int, search string) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeBillingUserRepo) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	return 0, nil
}

func newBillingFixture() (*Service, *fakeProvider, *fakePaymentRepo, *fakeBillingUserRepo) {
	provider := &fakeProvider{}
	payments := newFakePaymentRepo()
	users := &fakeBillingUserRepo{byID: map[uint]*domain.User{
		1: {Username: "scout_kate", Email: "kate@example.com", Role: domain.RoleRecruiter, Plan: domain.PlanScout},
		2: {Username: "midfield7", Email: "mid@example.com", Role: domain.RolePlayer, Plan: domain.PlanScout},
		3: {Username: "pro_coach", Email: "pro@example.com", Role: domain.RoleCoach, Plan: domain.PlanPro},
	}}
	for id, u := range users.byID {
		u.ID = id
	}
	cfg := &Config{
		SecretKey:       "sk_test_123",
		APIBaseURL:      "https://billing.example.com",
		ProPriceID:      "price_pro_monthly",
		SuccessURL:      "https://app.example.com/billing/success",
		CancelURL:       "https://app.example.com/billing/cancel",
		PortalReturnURL: "https://app.example.com/account",
	}
	svc := NewService(provider, payments, users, cfg, &services.NoOpLogger{})
	return svc, provider, payments, users
}

func TestStartCheckout_RecordsPendingPayment(t *testing.T) {
	svc, provider, payments, _ := newBillingFixture()

	session, err := svc.StartCheckout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.checkouts)
	assert.NotEmpty(t, session.URL)

	p, err := payments.FindBySessionID(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.UserID)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, domain.PlanPro, p.Plan)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(29)))
}

func TestStartCheckout_PlayersCannotSubscribe(t *testing.T) {
	svc, _, _, _ := newBillingFixture()

	_, err := svc.StartCheckout(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotRecruiter)
}

func TestStartCheckout_AlreadyPro(t *testing.T) {
	svc, _, _, _ := newBillingFixture()

	_, err := svc.StartCheckout(context.Background(), 3)
	assert.ErrorIs(t, err, ErrAlreadyPro)
}

func TestCompleteCheckout_UpgradesPlan(t *testing.T) {
	svc, _, payments, users := newBillingFixture()
	ctx := context.Background()

	session, err := svc.StartCheckout(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.CompleteCheckout(ctx, session.SessionID))

	p, err := payments.FindBySessionID(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSucceeded, p.Status)

	u, err := users.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPro, u.Plan)
	assert.Equal(t, session.SessionID, u.BillingCustomerID)
}

func TestCompleteCheckout_Idempotent(t *testing.T) {
	svc, _, _, _ := newBillingFixture()
	ctx := context.Background()

	session, err := svc.StartCheckout(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.CompleteCheckout(ctx, session.SessionID))
	require.NoError(t, svc.CompleteCheckout(ctx, session.SessionID))
}

func TestCompleteCheckout_UnknownSession(t *testing.T) {
	svc, _, _, _ := newBillingFixture()

	err := svc.CompleteCheckout(context.Background(), "cs_never_seen")
	assert.ErrorIs(t, err, ErrUnknownSession)

	err = svc.CompleteCheckout(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestOpenPortal_RequiresBillingAccount(t *testing.T) {
	svc, _, _, _ := newBillingFixture()

	_, err := svc.OpenPortal(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoBillingAccount)
}

func TestOpenPortal_AfterCheckout(t *testing.T) {
	svc, provider, _, _ := newBillingFixture()
	ctx := context.Background()

	session, err := svc.StartCheckout(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, svc.CompleteCheckout(ctx, session.SessionID))

	portal, err := svc.OpenPortal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.portals)
	assert.Contains(t, portal.URL, session.SessionID)
}

func TestHistory_ListsOwnPaymentsOnly(t *testing.T) {
	svc, _, payments, _ := newBillingFixture()
	ctx := context.Background()

	_, err := svc.StartCheckout(ctx, 1)
	require.NoError(t, err)
	_, err = payments.Create(ctx, &domain.Payment{UserID: 9, SessionID: "cs_other", Status: domain.PaymentSucceeded})
	require.NoError(t, err)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, uint(1), history[0].UserID)
}
