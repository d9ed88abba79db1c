package commands_test

import (
	"context"
	"sync"
	"testing"

	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/memory"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/logistics"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/refund"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/services"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoryUoWFactory struct {
	factory *memory.UnitOfWorkFactory
}

func (f memoryUoWFactory) Create() commands.UoW {
	return f.factory.Create()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kernel.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...kernel.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type MockPayment struct{ mock.Mock }

func (m *MockPayment) Refund(ctx context.Context, orderID kernel.UUID, amount kernel.Money) error {
	args := m.Called(ctx, orderID, amount)
	return args.Error(0)
}

type MockEvidenceStore struct{ mock.Mock }

func (m *MockEvidenceStore) Store(ctx context.Context, attachments []ports.Attachment) ([]string, error) {
	args := m.Called(ctx, attachments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEvidenceStore) Load(ctx context.Context, reference string) (ports.Attachment, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(ports.Attachment), args.Error(1)
}

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) Lookup(ctx context.Context, courierID kernel.UUID) (ports.CourierInfo, error) {
	args := m.Called(ctx, courierID)
	return args.Get(0).(ports.CourierInfo), args.Error(1)
}

// harness wires every handler to one in-memory store.
type harness struct {
	uows      commands.UoWFactory
	publisher *recordingPublisher
	payment   *MockPayment
	evidence  *MockEvidenceStore
	directory *MockCourierDirectory

	place       commands.PlaceOrderCommandHandler
	transition  commands.TransitionOrderCommandHandler
	cancel      commands.CancelOrderCommandHandler
	partial     commands.ProcessPartialOrderCommandHandler
	request     commands.RequestRefundCommandHandler
	respond     commands.RespondToRefundCommandHandler
	process     commands.ProcessRefundCommandHandler
	assign      commands.AssignCourierCommandHandler
	courierStep commands.UpdateCourierStatusCommandHandler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithPolicy(t, services.NewRoleTablePolicy())
}

func newHarnessWithPolicy(t *testing.T, policy ports.AccessPolicy) *harness {
	t.Helper()

	uows := memoryUoWFactory{factory: memory.NewUnitOfWorkFactory(memory.NewStore())}
	publisher := &recordingPublisher{}
	payment := new(MockPayment)
	evidence := new(MockEvidenceStore)
	directory := new(MockCourierDirectory)

	process := commands.NewProcessRefundCommandHandler(uows, publisher, policy, payment, 0)
	h := &harness{
		uows:        uows,
		publisher:   publisher,
		payment:     payment,
		evidence:    evidence,
		directory:   directory,
		place:       commands.NewPlaceOrderCommandHandler(uows, publisher),
		transition:  commands.NewTransitionOrderCommandHandler(uows, publisher, policy),
		cancel:      commands.NewCancelOrderCommandHandler(uows, publisher, policy),
		partial:     commands.NewProcessPartialOrderCommandHandler(uows, publisher, policy),
		request:     commands.NewRequestRefundCommandHandler(uows, publisher, policy, evidence),
		respond:     commands.NewRespondToRefundCommandHandler(uows, publisher, policy, process),
		process:     process,
		assign:      commands.NewAssignCourierCommandHandler(uows, publisher, policy, directory),
		courierStep: commands.NewUpdateCourierStatusCommandHandler(uows, publisher, policy),
	}

	t.Cleanup(func() {
		payment.AssertExpectations(t)
		evidence.AssertExpectations(t)
		directory.AssertExpectations(t)
	})
	return h
}

func lineItem(t *testing.T, productID string, qty int, price string) order.LineItem {
	t.Helper()
	li, err := order.NewLineItem(productID, qty, kernel.MustMoney(price))
	require.NoError(t, err)
	return li
}

// placeOrder places buyer-1's order of two sku-1 at 10.00 and one sku-2 at
// 5.50 from seller-1.
func (h *harness) placeOrder(t *testing.T) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), "buyer-1", "seller-1", []order.LineItem{
		lineItem(t, "sku-1", 2, "10.00"),
		lineItem(t, "sku-2", 1, "5.50"),
	})
	require.NoError(t, err)
	res, err := h.place.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return res.Order.ID
}

func (h *harness) apply(
	t *testing.T,
	orderID kernel.UUID,
	actorID string,
	role order.Role,
	intent order.Intent,
) (commands.OrderResult, error) {
	t.Helper()
	cmd, err := commands.NewTransitionOrderCommand(orderID, actorID, role, intent, nil)
	require.NoError(t, err)
	return h.transition.Handle(t.Context(), cmd)
}

func (h *harness) mustApply(t *testing.T, orderID kernel.UUID, actorID string, role order.Role, intent order.Intent) {
	t.Helper()
	_, err := h.apply(t, orderID, actorID, role, intent)
	require.NoError(t, err)
}

func (h *harness) confirmedOrder(t *testing.T) kernel.UUID {
	t.Helper()
	id := h.placeOrder(t)
	h.mustApply(t, id, "seller-1", order.RoleSeller, order.IntentConfirm)
	return id
}

func (h *harness) deliveredOrder(t *testing.T) kernel.UUID {
	t.Helper()
	id := h.confirmedOrder(t)
	h.mustApply(t, id, "seller-1", order.RoleSeller, order.IntentShip)
	h.mustApply(t, id, "courier-1", order.RoleCourier, order.IntentDeliver)
	return id
}

func (h *harness) requestRefund(t *testing.T, orderID kernel.UUID) (commands.RefundResult, error) {
	t.Helper()
	cmd, err := commands.NewRequestRefundCommand(orderID, "buyer-1", "arrived broken", nil)
	require.NoError(t, err)
	return h.request.Handle(t.Context(), cmd)
}

func (h *harness) respondToRefund(
	t *testing.T,
	orderID kernel.UUID,
	decision refund.Decision,
) (commands.RefundResult, error) {
	t.Helper()
	cmd, err := commands.NewRespondToRefundCommand(orderID, "admin-1", order.RoleAdmin, decision, "")
	require.NoError(t, err)
	return h.respond.Handle(t.Context(), cmd)
}

func (h *harness) load(t *testing.T, orderID kernel.UUID) order.Snapshot {
	t.Helper()
	uow := h.uows.Create()
	require.NoError(t, uow.Begin(t.Context()))
	defer func() { _ = uow.Rollback(t.Context()) }()
	o, err := uow.OrderRepository().Get(t.Context(), orderID)
	require.NoError(t, err)
	return o.Snapshot()
}

func (h *harness) entry(t *testing.T, orderID kernel.UUID) logistics.Snapshot {
	t.Helper()
	uow := h.uows.Create()
	require.NoError(t, uow.Begin(t.Context()))
	defer func() { _ = uow.Rollback(t.Context()) }()
	e, err := uow.LogisticsRepository().GetByOrder(t.Context(), orderID)
	require.NoError(t, err)
	return e.Snapshot()
}

func historyOf(s order.Snapshot) []order.Status {
	out := make([]order.Status, 0, len(s.History))
	for _, h := range s.History {
		out = append(out, h.Status)
	}
	return out
}

func amountOf(expected string) any {
	return mock.MatchedBy(func(m kernel.Money) bool {
		return m.String() == expected
	})
}
