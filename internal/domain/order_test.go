package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusProcessing, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusDelivered, StatusCompleted, true},

		{StatusPending, StatusShipped, false},
		{StatusPending, StatusProcessing, false},
		{StatusConfirmed, StatusShipped, false},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusCompleted, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusDelivered, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusDelivered, StatusShipped, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCancellable(t *testing.T) {
	cancellable := []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing}
	for _, s := range cancellable {
		if !s.Cancellable() {
			t.Errorf("expected %s to be cancellable", s)
		}
	}

	frozen := []OrderStatus{StatusShipped, StatusDelivered, StatusCompleted, StatusCancelled}
	for _, s := range frozen {
		if s.Cancellable() {
			t.Errorf("expected %s to not be cancellable", s)
		}
	}
}

func TestVerdictRecipient(t *testing.T) {
	if got := VerdictReleaseToSeller.Recipient(); got != RecipientSeller {
		t.Errorf("expected seller, got %s", got)
	}
	if got := VerdictRefundToBuyer.Recipient(); got != RecipientBuyer {
		t.Errorf("expected buyer, got %s", got)
	}
	if got := VerdictSplit.Recipient(); got != RecipientSplit {
		t.Errorf("expected split, got %s", got)
	}
}
