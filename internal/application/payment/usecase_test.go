package payment_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/application/payment"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/event"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	initCalls []payment.InitRequest
	initErr   error
	status    string
	getErr    error
	// paid importe cobrado; vacío = el de la última llamada a Init
	paid decimal.Decimal
	// barrier, si no es nil, retiene GetPayment hasta que lleguen todas las llamadas esperadas
	barrier *sync.WaitGroup
}

func (g *fakeGateway) InitPayment(_ context.Context, in payment.InitRequest) (*payment.InitResult, error) {
	g.initCalls = append(g.initCalls, in)
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &payment.InitResult{PayURL: "https://pay.example/" + in.OrderID, PaymentRef: "ref-" + in.OrderID}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, ref string) (*payment.GatewayPayment, error) {
	if g.barrier != nil {
		g.barrier.Done()
		g.barrier.Wait()
	}
	if g.getErr != nil {
		return nil, g.getErr
	}
	paid := g.paid
	if paid.IsZero() && len(g.initCalls) > 0 {
		paid = g.initCalls[len(g.initCalls)-1].Amount
	}
	return &payment.GatewayPayment{Ref: ref, Status: g.status, Amount: paid}, nil
}

type fakePayments struct {
	mu       sync.Mutex
	rows     map[string]*entity.PaymentTransaction
	storeErr error
}

func newFakePayments() *fakePayments {
	return &fakePayments{rows: map[string]*entity.PaymentTransaction{}}
}

func (r *fakePayments) Store(_ context.Context, tx *entity.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	cp := *tx
	r.rows[tx.OrderID] = &cp
	return nil
}

func (r *fakePayments) GetByOrderID(_ context.Context, orderID string) (*entity.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[orderID]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakePayments) transition(orderID, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[orderID]
	if !ok || row.Status == entity.PaymentCompleted {
		return false, nil
	}
	row.Status = status
	return true, nil
}

func (r *fakePayments) MarkCompleted(_ context.Context, orderID string) (bool, error) {
	return r.transition(orderID, entity.PaymentCompleted)
}

func (r *fakePayments) MarkFailed(_ context.Context, orderID string) (bool, error) {
	return r.transition(orderID, entity.PaymentFailed)
}

func (r *fakePayments) Reopen(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[orderID]
	if !ok || row.Status != entity.PaymentCompleted {
		return domain.ErrNotFound
	}
	row.Status = entity.PaymentPending
	return nil
}

func (r *fakePayments) status(orderID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[orderID].Status
}

type fakeSubscriptions struct {
	mu          sync.Mutex
	activations int
	activateErr error
	current     *entity.Subscription
}

func (s *fakeSubscriptions) Current(context.Context, string) (*entity.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

func (s *fakeSubscriptions) Activate(_ context.Context, userID, plan, orderID string) (*entity.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activateErr != nil {
		return nil, s.activateErr
	}
	s.activations++
	s.current = &entity.Subscription{UserID: userID, Plan: plan, OrderID: orderID, Status: entity.SubscriptionActive,
		StartedAt: time.Now(), ExpiresAt: time.Now().AddDate(1, 0, 0)}
	return s.current, nil
}

type failingPublisher struct {
	mu    sync.Mutex
	calls int
}

func (p *failingPublisher) Publish(context.Context, event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return errors.New("broker caído")
}

type fixture struct {
	gw   *fakeGateway
	repo *fakePayments
	subs *fakeSubscriptions
	pub  *failingPublisher
	uc   *payment.UseCase
}

func newFixture() *fixture {
	f := &fixture{gw: &fakeGateway{status: "completed"}, repo: newFakePayments(), subs: &fakeSubscriptions{}, pub: &failingPublisher{}}
	f.uc = payment.NewUseCase(f.gw, f.repo, f.subs, f.pub, payment.Config{
		FrontendURL: "https://app.example.tn/",
		Prices:      map[string]decimal.Decimal{entity.PlanAnnual: decimal.NewFromInt(100)},
	}, nil)
	return f
}

func validRequest() dto.InitPaymentRequest {
	return dto.InitPaymentRequest{Amount: decimal.RequireFromString("120.5"), OrderID: "ord-1", Email: "a@b.tn", Plan: "annual"}
}

// ── Init ──────────────────────────────────────────────────────────────────────

func TestInit_SinAmountUOrderID_NoLlamaPasarela(t *testing.T) {
	f := newFixture()
	cases := map[string]dto.InitPaymentRequest{
		"sin amount":      {OrderID: "ord-1"},
		"amount negativo": {OrderID: "ord-1", Amount: decimal.NewFromInt(-3)},
		"sin orderId":     {Amount: decimal.NewFromInt(10)},
		"orderId blanco":  {Amount: decimal.NewFromInt(10), OrderID: "   "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Init(context.Background(), "u1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.gw.initCalls)
	assert.Empty(t, f.repo.rows)
}

func TestInit_ConstruyeURLsYRegistra(t *testing.T) {
	f := newFixture()
	out, err := f.uc.Init(context.Background(), "u1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/ord-1", out.PayURL)
	assert.Equal(t, "ref-ord-1", out.PaymentRef)

	require.Len(t, f.gw.initCalls, 1)
	call := f.gw.initCalls[0]
	success, err := url.Parse(call.SuccessURL)
	require.NoError(t, err)
	assert.Equal(t, "/paiement-reussi", success.Path)
	assert.Equal(t, "ord-1", success.Query().Get("orderId"))
	assert.Equal(t, "annual", success.Query().Get("plan"))
	assert.Equal(t, "https://app.example.tn/paiement-echoue?orderId=ord-1", call.FailURL)

	row := f.repo.rows["ord-1"]
	require.NotNil(t, row)
	assert.Equal(t, entity.PaymentPending, row.Status)
	assert.Equal(t, "u1", row.UserID)
	assert.Equal(t, 1, f.pub.calls, "el fallo del bus no aborta")
}

func TestInit_FalloDeRegistroSeIgnora(t *testing.T) {
	f := newFixture()
	f.repo.storeErr = errors.New("db caída")
	out, err := f.uc.Init(context.Background(), "u1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "ref-ord-1", out.PaymentRef)
}

func TestInit_ErrorDePasarela(t *testing.T) {
	f := newFixture()
	f.gw.initErr = &payment.GatewayError{Status: 400, Message: "Invalid wallet id"}
	_, err := f.uc.Init(context.Background(), "u1", validRequest())

	var gwErr *payment.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "Invalid wallet id", gwErr.Message)
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Empty(t, f.repo.rows)

	f.gw.initErr = errors.New("dial tcp: timeout")
	_, err = f.uc.Init(context.Background(), "u1", validRequest())
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "dial tcp: timeout", gwErr.Message)
}

func TestInit_PlanPorDefectoYPlanInvalido(t *testing.T) {
	f := newFixture()
	in := validRequest()
	in.Plan = ""
	_, err := f.uc.Init(context.Background(), "u1", in)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanAnnual, f.repo.rows["ord-1"].Plan)

	in.Plan = "gold"
	_, err = f.uc.Init(context.Background(), "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInit_ImporteInferiorAlPrecioDelPlan(t *testing.T) {
	f := newFixture()
	in := validRequest()
	in.Amount = decimal.RequireFromString("0.001")

	_, err := f.uc.Init(context.Background(), "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.gw.initCalls, "la pasarela no se llama")

	in.Amount = decimal.NewFromInt(100)
	_, err = f.uc.Init(context.Background(), "u1", in)
	assert.NoError(t, err, "el precio exacto se acepta")
}

func TestInit_PlanSinPrecioNoSeVende(t *testing.T) {
	f := newFixture()
	in := validRequest()
	in.Plan = entity.PlanTrial

	_, err := f.uc.Init(context.Background(), "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.gw.initCalls)
}

// ── Confirm / Fail ────────────────────────────────────────────────────────────

func TestConfirm_ActivaUnaSolaVez(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.uc.Init(ctx, "u1", validRequest())
	require.NoError(t, err)

	out, err := f.uc.Confirm(ctx, "u1", "ord-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, out.Status)
	assert.True(t, out.Subscription.Active)
	assert.Equal(t, entity.PaymentCompleted, f.repo.status("ord-1"))

	_, err = f.uc.Confirm(ctx, "u1", "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.subs.activations)
}

func TestConfirm_ConfirmacionesSimultaneasActivanUnaVez(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.uc.Init(ctx, "u1", validRequest())
	require.NoError(t, err)

	const n = 2
	f.gw.barrier = &sync.WaitGroup{}
	f.gw.barrier.Add(n)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Confirm(ctx, "u1", "ord-1")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, f.subs.activations)
	assert.Equal(t, entity.PaymentCompleted, f.repo.status("ord-1"))
}

func TestConfirm_ImporteCobradoInsuficiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.uc.Init(ctx, "u1", validRequest())
	require.NoError(t, err)
	f.gw.paid = decimal.RequireFromString("0.001")

	_, err = f.uc.Confirm(ctx, "u1", "ord-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, f.subs.activations)
	assert.Equal(t, entity.PaymentPending, f.repo.status("ord-1"))
}

func TestConfirm_FalloDeActivacionReabrePedido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.uc.Init(ctx, "u1", validRequest())
	require.NoError(t, err)

	f.subs.activateErr = errors.New("db caída")
	_, err = f.uc.Confirm(ctx, "u1", "ord-1")
	require.Error(t, err)
	assert.Equal(t, entity.PaymentPending, f.repo.status("ord-1"))

	f.subs.activateErr = nil
	_, err = f.uc.Confirm(ctx, "u1", "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.subs.activations)
}

func TestConfirm_PagoPendienteEnPasarela(t *testing.T) {
	f := newFixture()
	f.gw.status = "pending"
	ctx := context.Background()
	_, _ = f.uc.Init(ctx, "u1", validRequest())

	_, err := f.uc.Confirm(ctx, "u1", "ord-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, f.subs.activations)
}

func TestConfirm_PedidoAjenoODesconocido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.uc.Init(ctx, "u1", validRequest())

	_, err := f.uc.Confirm(ctx, "u2", "ord-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Confirm(ctx, "u1", "ord-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFail_MarcaFallido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.uc.Init(ctx, "u1", validRequest())

	require.NoError(t, f.uc.Fail(ctx, "u1", "ord-1"))
	assert.Equal(t, entity.PaymentFailed, f.repo.status("ord-1"))
}

func TestFail_NoPisaPagoCompletado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.uc.Init(ctx, "u1", validRequest())
	_, err := f.uc.Confirm(ctx, "u1", "ord-1")
	require.NoError(t, err)

	err = f.uc.Fail(ctx, "u1", "ord-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.PaymentCompleted, f.repo.status("ord-1"))
}
