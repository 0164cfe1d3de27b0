package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/velmart/settlement-service/internal/domain"
	"github.com/velmart/settlement-service/internal/infrastructure/metrics"
	settlementuc "github.com/velmart/settlement-service/internal/usecase/settlement"
)

var testMetrics = metrics.NewSettlementMetrics()

type fakeEscrowRepo struct {
	mu      sync.Mutex
	escrows map[string]*domain.EscrowRecord
}

func newFakeEscrowRepo(escrows ...*domain.EscrowRecord) *fakeEscrowRepo {
	f := &fakeEscrowRepo{escrows: make(map[string]*domain.EscrowRecord)}
	for _, e := range escrows {
		f.escrows[e.OrderID] = e
	}
	return f
}

func (f *fakeEscrowRepo) CreateEscrow(escrow *domain.EscrowRecord) error { return nil }

func (f *fakeEscrowRepo) GetEscrowByID(escrowID string) (*domain.EscrowRecord, error) {
	return nil, domain.ErrEscrowNotFound
}

func (f *fakeEscrowRepo) GetEscrowByOrderID(orderID string) (*domain.EscrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.escrows[orderID]
	if !ok {
		return nil, domain.ErrEscrowNotFound
	}
	copied := *e
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
	if e, ok := f.escrows[orderID]; ok {
		e.ScheduleSuspended = true
	}
	return nil
}

func (f *fakeEscrowRepo) ResumeSchedule(orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.escrows[orderID]; ok && e.ReleaseStatus == domain.ReleasePending {
		e.ScheduleSuspended = false
		e.AutoFiredAt = nil
	}
	return nil
}

func (f *fakeEscrowRepo) ClaimDue(now time.Time, limit int) ([]*domain.EscrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var claimed []*domain.EscrowRecord
	for _, e := range f.escrows {
		if len(claimed) == limit {
			break
		}
		if e.ReleaseStatus != domain.ReleasePending || e.ScheduleSuspended ||
			e.ReleaseDate == nil || e.ReleaseDate.After(now) || e.AutoFiredAt != nil {
			continue
		}
		firedAt := now
		e.AutoFiredAt = &firedAt
		copied := *e
		claimed = append(claimed, &copied)
	}
	return claimed, nil
}

func (f *fakeEscrowRepo) FindStalePending(now time.Time) ([]*domain.EscrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stale []*domain.EscrowRecord
	for _, e := range f.escrows {
		if e.ReleaseStatus == domain.ReleasePending && !e.ScheduleSuspended && e.AutoFiredAt != nil {
			copied := *e
			stale = append(stale, &copied)
		}
	}
	return stale, nil
}

func (f *fakeEscrowRepo) ListEscrows(status domain.ReleaseStatus, page, limit int) ([]*domain.EscrowRecord, int64, error) {
	return nil, 0, nil
}

type fakeReleaser struct {
	mu       sync.Mutex
	attempts []string
	triggers []domain.ReleaseTrigger
	repo     *fakeEscrowRepo
}

func (f *fakeReleaser) AttemptRelease(ctx context.Context, orderID string, trigger domain.ReleaseTrigger, recipient domain.Recipient) (*settlementuc.Result, error) {
	f.mu.Lock()
	f.attempts = append(f.attempts, orderID)
	f.triggers = append(f.triggers, trigger)
	f.mu.Unlock()

	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	escrow := f.repo.escrows[orderID]
	escrow.ReleaseStatus = domain.ReleaseReleased
	return &settlementuc.Result{
		Outcome:   settlementuc.OutcomeReleased,
		Trigger:   trigger,
		Recipient: recipient,
	}, nil
}

func (f *fakeReleaser) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attempts)
}

func pending(orderID string, releaseDate time.Time) *domain.EscrowRecord {
	return &domain.EscrowRecord{
		ID:            "escrow-" + orderID,
		OrderID:       orderID,
		AmountHeld:    50,
		Currency:      "USD",
		ReleaseStatus: domain.ReleasePending,
		ReleaseDate:   &releaseDate,
	}
}

func TestPollOnceFiresDueEscrows(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	repo := newFakeEscrowRepo(
		pending("due-1", past),
		pending("due-2", past),
		pending("not-yet", future),
	)
	releaser := &fakeReleaser{repo: repo}
	s := NewReleaseScheduler(repo, releaser, testMetrics, time.Second, 100)

	if err := s.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if got := releaser.attemptCount(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
	for _, trigger := range releaser.triggers {
		if trigger != domain.TriggerAutoRelease {
			t.Errorf("trigger = %s, want auto_release", trigger)
		}
	}

	// the claim is consumed; the next poll fires nothing new
	if err := s.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if got := releaser.attemptCount(); got != 2 {
		t.Errorf("attempts after second poll = %d, want 2", got)
	}
}

func TestPollOnceSkipsSuspendedSchedules(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	disputed := pending("disputed", past)
	disputed.ScheduleSuspended = true
	repo := newFakeEscrowRepo(disputed)
	releaser := &fakeReleaser{repo: repo}
	s := NewReleaseScheduler(repo, releaser, testMetrics, time.Second, 100)

	if err := s.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if got := releaser.attemptCount(); got != 0 {
		t.Errorf("attempts = %d, want 0", got)
	}
}

func TestPollOnceHonorsBatchSize(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := newFakeEscrowRepo(
		pending("a", past), pending("b", past), pending("c", past),
	)
	releaser := &fakeReleaser{repo: repo}
	s := NewReleaseScheduler(repo, releaser, testMetrics, time.Second, 2)

	if err := s.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if got := releaser.attemptCount(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}

	if err := s.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if got := releaser.attemptCount(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestPollOnceFiresAgainAfterResume(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	// the poller consumed the claim right as a dispute froze the
	// schedule, so the attempt was rejected and the claim burned
	frozen := pending("frozen", past)
	frozen.ScheduleSuspended = true
	frozen.AutoFiredAt = &past
	repo := newFakeEscrowRepo(frozen)
	releaser := &fakeReleaser{repo: repo}
	s := NewReleaseScheduler(repo, releaser, testMetrics, time.Second, 100)

	if err := s.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if got := releaser.attemptCount(); got != 0 {
		t.Fatalf("attempts while frozen = %d, want 0", got)
	}

	// cancelling the dispute resumes the schedule and clears the claim
	if err := repo.ResumeSchedule("frozen"); err != nil {
		t.Fatalf("ResumeSchedule: %v", err)
	}
	if err := s.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce: %v", err)
	}
	if got := releaser.attemptCount(); got != 1 {
		t.Errorf("attempts after resume = %d, want 1", got)
	}
}

func TestRecoverRefiresStaleClaims(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	// claimed by a previous process that died before settling
	stale := pending("stale", past)
	stale.AutoFiredAt = &past
	repo := newFakeEscrowRepo(stale)
	releaser := &fakeReleaser{repo: repo}
	s := NewReleaseScheduler(repo, releaser, testMetrics, time.Second, 100)

	if err := s.Recover(context.Background()); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if got := releaser.attemptCount(); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}

	// settled now, a second recovery pass finds nothing
	if err := s.Recover(context.Background()); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if got := releaser.attemptCount(); got != 1 {
		t.Errorf("attempts after second recover = %d, want 1", got)
	}
}
