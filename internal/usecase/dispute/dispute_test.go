package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/velmart/settlement-service/internal/domain"
	publisher "github.com/velmart/settlement-service/internal/infrastructure/kafka"
	"github.com/velmart/settlement-service/internal/infrastructure/logger"
	"github.com/velmart/settlement-service/internal/infrastructure/metrics"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

var testMetrics = metrics.NewSettlementMetrics()

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func (f *fakeOrderRepo) CreateOrder(order *domain.Order) error { return nil }

func (f *fakeOrderRepo) GetOrderByID(orderID string) (*domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) TransitionStatus(orderID string, from, to domain.OrderStatus) error {
	return nil
}

func (f *fakeOrderRepo) SetShippingInfo(orderID, courier, trackingNumber string, shippedAt time.Time) error {
	return nil
}

func (f *fakeOrderRepo) SetDeliveredAt(orderID string, deliveredAt time.Time) error { return nil }

func (f *fakeOrderRepo) SetDeliveryStatus(orderID string, status domain.DeliveryStatus) error {
	return nil
}

func (f *fakeOrderRepo) GetOrders(filters domain.OrderFilters, page, limit int) ([]*domain.Order, int64, error) {
	return nil, 0, nil
}

type fakeEscrowRepo struct {
	mu        sync.Mutex
	escrow    *domain.EscrowRecord
	suspended bool
	resumed   bool
}

func (f *fakeEscrowRepo) CreateEscrow(escrow *domain.EscrowRecord) error { return nil }

func (f *fakeEscrowRepo) GetEscrowByID(escrowID string) (*domain.EscrowRecord, error) {
	return nil, domain.ErrEscrowNotFound
}

func (f *fakeEscrowRepo) GetEscrowByOrderID(orderID string) (*domain.EscrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.escrow == nil || f.escrow.OrderID != orderID {
		return nil, domain.ErrEscrowNotFound
	}
	copied := *f.escrow
	return &copied, nil
}

func (f *fakeEscrowRepo) MarkReleased(escrowID string, trigger domain.ReleaseTrigger, recipient domain.Recipient, reason string) error {
	return nil
}

func (f *fakeEscrowRepo) MarkFailed(escrowID string, reason string) error { return nil }

func (f *fakeEscrowRepo) Schedule(orderID string, releaseDate time.Time) error { return nil }

func (f *fakeEscrowRepo) SuspendSchedule(orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suspended = true
	return nil
}

func (f *fakeEscrowRepo) ResumeSchedule(orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumed = true
	return nil
}

func (f *fakeEscrowRepo) ClaimDue(now time.Time, limit int) ([]*domain.EscrowRecord, error) {
	return nil, nil
}

func (f *fakeEscrowRepo) FindStalePending(now time.Time) ([]*domain.EscrowRecord, error) {
	return nil, nil
}

func (f *fakeEscrowRepo) ListEscrows(status domain.ReleaseStatus, page, limit int) ([]*domain.EscrowRecord, int64, error) {
	return nil, 0, nil
}

type fakeDisputeRepo struct {
	mu       sync.Mutex
	disputes map[string]*domain.Dispute
	messages []*domain.DisputeMessage
}

func newFakeDisputeRepo(disputes ...*domain.Dispute) *fakeDisputeRepo {
	f := &fakeDisputeRepo{disputes: make(map[string]*domain.Dispute)}
	for _, d := range disputes {
		f.disputes[d.ID] = d
	}
	return f
}

func (f *fakeDisputeRepo) CreateDispute(dispute *domain.Dispute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.disputes {
		if d.OrderID == dispute.OrderID && d.Status == domain.DisputePending {
			return domain.ErrAlreadyDisputed
		}
	}
	copied := *dispute
	f.disputes[dispute.ID] = &copied
	return nil
}

func (f *fakeDisputeRepo) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disputes[disputeID]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDisputeRepo) GetOpenDisputeByOrderID(orderID string) (*domain.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.disputes {
		if d.OrderID == orderID && d.Status == domain.DisputePending {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domain.ErrDisputeNotFound
}

func (f *fakeDisputeRepo) Resolve(disputeID string, verdict domain.Verdict, resolution string, resolvedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disputes[disputeID]
	if !ok || d.Status != domain.DisputePending {
		return domain.ErrDisputeNotFound
	}
	d.Status = domain.DisputeResolved
	d.Verdict = verdict
	d.Resolution = resolution
	return nil
}

func (f *fakeDisputeRepo) Cancel(disputeID string, cancelledAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disputes[disputeID]
	if !ok || d.Status != domain.DisputePending {
		return domain.ErrDisputeNotFound
	}
	d.Status = domain.DisputeCancelled
	return nil
}

func (f *fakeDisputeRepo) AppendMessage(msg *domain.DisputeMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *msg
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeDisputeRepo) GetMessages(disputeID string) ([]*domain.DisputeMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.DisputeMessage
	for _, m := range f.messages {
		if m.DisputeID == disputeID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeDisputeRepo) GetDisputes(filters domain.DisputeFilters, page, limit int) ([]*domain.Dispute, int64, error) {
	return nil, 0, nil
}

type fakeCoordinator struct {
	mu         sync.Mutex
	calls      int
	trigger    domain.ReleaseTrigger
	recipient  domain.Recipient
	lastResult *settlementuc.Result
}

func (f *fakeCoordinator) ConfirmReceipt(ctx context.Context, orderID, buyerID string) (*settlementuc.Result, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCoordinator) AttemptRelease(ctx context.Context, orderID string, trigger domain.ReleaseTrigger, recipient domain.Recipient) (*settlementuc.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.trigger = trigger
	f.recipient = recipient
	f.lastResult = &settlementuc.Result{
		Outcome:   settlementuc.OutcomeReleased,
		Trigger:   trigger,
		Recipient: recipient,
	}
	return f.lastResult, nil
}

func (f *fakeCoordinator) GetEscrowStatus(orderID, buyerID string) (*settlementuc.EscrowStatus, error) {
	return nil, errors.New("not implemented")
}

type noopAuditLogger struct{}

func (noopAuditLogger) LogReleaseAttempt(ctx context.Context, event logger.ReleaseAuditEvent) error {
	return nil
}

func (noopAuditLogger) LogDisputeAction(ctx context.Context, event logger.DisputeAuditEvent) error {
	return nil
}

type fixture struct {
	uc          *DefaultDisputeUsecase
	orders      *fakeOrderRepo
	escrows     *fakeEscrowRepo
	disputes    *fakeDisputeRepo
	coordinator *fakeCoordinator
}

func newFixture(orderStatus domain.OrderStatus, escrowStatus domain.ReleaseStatus, disputes ...*domain.Dispute) *fixture {
	releaseDate := time.Now().Add(48 * time.Hour)
	orders := &fakeOrderRepo{orders: map[string]*domain.Order{
		"order-1": {ID: "order-1", BuyerID: "buyer-1", Status: orderStatus},
	}}
	escrows := &fakeEscrowRepo{escrow: &domain.EscrowRecord{
		ID:            "escrow-1",
		OrderID:       "order-1",
		AmountHeld:    80,
		Currency:      "USD",
		ReleaseStatus: escrowStatus,
		ReleaseDate:   &releaseDate,
	}}
	disputeRepo := newFakeDisputeRepo(disputes...)
	coordinator := &fakeCoordinator{}

	uc := NewDefaultDisputeUsecase(
		disputeRepo,
		orders,
		escrows,
		coordinator,
		settlementuc.NewOrderLocks(),
		publisher.NewKafkaPublisher([]string{"127.0.0.1:1"}),
		"dispute-events",
		noopAuditLogger{},
		testMetrics,
	)
	return &fixture{
		uc:          uc,
		orders:      orders,
		escrows:     escrows,
		disputes:    disputeRepo,
		coordinator: coordinator,
	}
}

func openInput() *OpenDisputeInput {
	return &OpenDisputeInput{
		OrderID: "order-1",
		BuyerID: "buyer-1",
		Type:    domain.DisputeItemNotReceived,
		Reason:  "package never arrived",
	}
}

func TestOpenDispute(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending)

	dispute, err := f.uc.OpenDispute(context.Background(), openInput())
	if err != nil {
		t.Fatalf("OpenDispute: %v", err)
	}
	if dispute.Status != domain.DisputePending {
		t.Errorf("status = %s, want PENDING", dispute.Status)
	}
	if dispute.ID == "" {
		t.Error("dispute ID must be generated")
	}
	if !f.escrows.suspended {
		t.Error("auto-release schedule should be suspended by an open dispute")
	}
}

func TestOpenDisputeWrongBuyer(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending)

	input := openInput()
	input.BuyerID = "intruder"
	_, err := f.uc.OpenDispute(context.Background(), input)
	if !errors.Is(err, domain.ErrNotOrderBuyer) {
		t.Fatalf("err = %v, want ErrNotOrderBuyer", err)
	}
}

func TestOpenDisputeBeforeShipment(t *testing.T) {
	f := newFixture(domain.StatusConfirmed, domain.ReleasePending)

	_, err := f.uc.OpenDispute(context.Background(), openInput())
	if !errors.Is(err, domain.ErrNotShippedOrDelivered) {
		t.Fatalf("err = %v, want ErrNotShippedOrDelivered", err)
	}
}

func TestOpenDisputeAfterRelease(t *testing.T) {
	f := newFixture(domain.StatusCompleted, domain.ReleaseReleased)
	// buyer confirmed seconds ago; disputing paid-out funds is refused
	f.orders.orders["order-1"].Status = domain.StatusDelivered

	_, err := f.uc.OpenDispute(context.Background(), openInput())
	if !errors.Is(err, domain.ErrAlreadyReleased) {
		t.Fatalf("err = %v, want ErrAlreadyReleased", err)
	}
}

func TestOpenDisputeAfterDeadline(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending)
	past := time.Now().Add(-time.Minute)
	f.escrows.escrow.ReleaseDate = &past

	_, err := f.uc.OpenDispute(context.Background(), openInput())
	if !errors.Is(err, domain.ErrConfirmationClosed) {
		t.Fatalf("err = %v, want ErrConfirmationClosed", err)
	}
}

func TestOpenDisputeTwice(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending)

	if _, err := f.uc.OpenDispute(context.Background(), openInput()); err != nil {
		t.Fatalf("first OpenDispute: %v", err)
	}
	_, err := f.uc.OpenDispute(context.Background(), openInput())
	if !errors.Is(err, domain.ErrAlreadyDisputed) {
		t.Fatalf("err = %v, want ErrAlreadyDisputed", err)
	}
}

func TestResolveDispute(t *testing.T) {
	cases := []struct {
		verdict   domain.Verdict
		recipient domain.Recipient
	}{
		{domain.VerdictReleaseToSeller, domain.RecipientSeller},
		{domain.VerdictRefundToBuyer, domain.RecipientBuyer},
		{domain.VerdictSplit, domain.RecipientSplit},
	}

	for _, tc := range cases {
		t.Run(string(tc.verdict), func(t *testing.T) {
			f := newFixture(domain.StatusDelivered, domain.ReleasePending, &domain.Dispute{
				ID: "d-1", OrderID: "order-1", BuyerID: "buyer-1", Status: domain.DisputePending,
			})

			result, err := f.uc.ResolveDispute(context.Background(), "d-1", tc.verdict, "admin reviewed evidence")
			if err != nil {
				t.Fatalf("ResolveDispute: %v", err)
			}
			if result.Outcome != settlementuc.OutcomeReleased {
				t.Errorf("outcome = %s, want released", result.Outcome)
			}
			if f.coordinator.trigger != domain.TriggerDisputeResolution {
				t.Errorf("trigger = %s, want dispute_resolution", f.coordinator.trigger)
			}
			if f.coordinator.recipient != tc.recipient {
				t.Errorf("recipient = %s, want %s", f.coordinator.recipient, tc.recipient)
			}

			dispute, _ := f.disputes.GetDisputeByID("d-1")
			if dispute.Status != domain.DisputeResolved {
				t.Errorf("dispute status = %s, want RESOLVED", dispute.Status)
			}
		})
	}
}

func TestResolveDisputeInvalidVerdict(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending, &domain.Dispute{
		ID: "d-1", OrderID: "order-1", BuyerID: "buyer-1", Status: domain.DisputePending,
	})

	_, err := f.uc.ResolveDispute(context.Background(), "d-1", "keep-the-money", "")
	if !errors.Is(err, domain.ErrInvalidVerdict) {
		t.Fatalf("err = %v, want ErrInvalidVerdict", err)
	}
	if f.coordinator.calls != 0 {
		t.Errorf("coordinator calls = %d, want 0", f.coordinator.calls)
	}
}

func TestResolveDisputeAlreadyClosed(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending, &domain.Dispute{
		ID: "d-1", OrderID: "order-1", BuyerID: "buyer-1", Status: domain.DisputeResolved,
	})

	_, err := f.uc.ResolveDispute(context.Background(), "d-1", domain.VerdictRefundToBuyer, "")
	if !errors.Is(err, domain.ErrDisputeClosed) {
		t.Fatalf("err = %v, want ErrDisputeClosed", err)
	}
}

func TestCancelDispute(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending, &domain.Dispute{
		ID: "d-1", OrderID: "order-1", BuyerID: "buyer-1", Status: domain.DisputePending,
	})

	if err := f.uc.CancelDispute(context.Background(), "d-1", "buyer-1"); err != nil {
		t.Fatalf("CancelDispute: %v", err)
	}
	if !f.escrows.resumed {
		t.Error("auto-release schedule should be re-armed on dispute cancellation")
	}

	dispute, _ := f.disputes.GetDisputeByID("d-1")
	if dispute.Status != domain.DisputeCancelled {
		t.Errorf("dispute status = %s, want CANCELLED", dispute.Status)
	}
}

func TestCancelDisputeWrongBuyer(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending, &domain.Dispute{
		ID: "d-1", OrderID: "order-1", BuyerID: "buyer-1", Status: domain.DisputePending,
	})

	err := f.uc.CancelDispute(context.Background(), "d-1", "intruder")
	if !errors.Is(err, domain.ErrNotDisputeOwner) {
		t.Fatalf("err = %v, want ErrNotDisputeOwner", err)
	}
}

func TestAddMessage(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending, &domain.Dispute{
		ID: "d-1", OrderID: "order-1", BuyerID: "buyer-1", Status: domain.DisputePending,
	})

	msg, err := f.uc.AddMessage(&AddMessageInput{
		DisputeID:  "d-1",
		AuthorID:   "seller-1",
		AuthorRole: "seller",
		Body:       "the courier shows delivery at 14:02",
	})
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if msg.ID == "" {
		t.Error("message ID must be generated")
	}

	messages, err := f.uc.GetMessages("d-1")
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(messages) != 1 || messages[0].Body != msg.Body {
		t.Errorf("messages = %+v, want the appended entry", messages)
	}
}

func TestAddMessageToClosedDispute(t *testing.T) {
	f := newFixture(domain.StatusDelivered, domain.ReleasePending, &domain.Dispute{
		ID: "d-1", OrderID: "order-1", BuyerID: "buyer-1", Status: domain.DisputeCancelled,
	})

	_, err := f.uc.AddMessage(&AddMessageInput{DisputeID: "d-1", AuthorID: "buyer-1", Body: "hello"})
	if !errors.Is(err, domain.ErrDisputeClosed) {
		t.Fatalf("err = %v, want ErrDisputeClosed", err)
	}
}
