package domain

import (
	"testing"
	"time"
)

func pendingBooking() Booking {
	return Booking{
		ID:          "booking-1",
		CarID:       "car-1",
		CarModel:    "Corolla",
		PricePerDay: 85,
		Period: RentalPeriod{
			StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
		},
		UserEmail:   "renter@example.com",
		Status:      BookingStatusPending,
		BookingDate: time.Now(),
	}
}

// ──────────────────────────────────────────────
// TRANSITION TABLE
// ──────────────────────────────────────────────

func TestCanTransition_Table(t *testing.T) {
	t.Parallel()

	allowed := map[[2]BookingStatus]bool{
		{BookingStatusPending, BookingStatusConfirmed}:   true,
		{BookingStatusPending, BookingStatusCanceled}:    true,
		{BookingStatusConfirmed, BookingStatusCompleted}: true,
		{BookingStatusConfirmed, BookingStatusCanceled}:  true,
	}

	all := []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCanceled,
		BookingStatusCompleted,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]BookingStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestApplyTransition_TerminalStatesHaveNoExit(t *testing.T) {
	t.Parallel()

	events := []TransitionEvent{
		{Kind: EventPaymentSucceeded, ActorEmail: "renter@example.com", PaymentIntentID: "pi_1", PaidAmount: 477.5},
		{Kind: EventCancel, ActorEmail: "admin@example.com"},
		{Kind: EventComplete, ActorEmail: "owner@example.com"},
	}

	for _, terminal := range []BookingStatus{BookingStatusCanceled, BookingStatusCompleted} {
		b := pendingBooking()
		b.Status = terminal
		for _, ev := range events {
			if _, err := ApplyTransition(b, ev); err != ErrInvalidTransition {
				t.Errorf("status %s event %s: expected ErrInvalidTransition, got %v", terminal, ev.Kind, err)
			}
		}
	}
}

func TestApplyTransition_UnknownEventFails(t *testing.T) {
	t.Parallel()

	b := pendingBooking()
	if _, err := ApplyTransition(b, TransitionEvent{Kind: "REFUND"}); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// CONFIRMATION
// ──────────────────────────────────────────────

func TestApplyTransition_ConfirmRecordsPaymentArtifacts(t *testing.T) {
	t.Parallel()

	b := pendingBooking()
	updated, err := ApplyTransition(b, TransitionEvent{
		Kind:            EventPaymentSucceeded,
		ActorEmail:      "renter@example.com",
		PaymentIntentID: "pi_123",
		PaidAmount:      477.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != BookingStatusConfirmed {
		t.Errorf("expected status confirmed, got %s", updated.Status)
	}
	if updated.PaymentIntentID != "pi_123" {
		t.Errorf("expected payment intent pi_123, got %q", updated.PaymentIntentID)
	}
	if updated.PaidAmount != 477.5 {
		t.Errorf("expected paid amount 477.50, got %f", updated.PaidAmount)
	}
}

func TestApplyTransition_ConfirmWithoutProofFails(t *testing.T) {
	t.Parallel()

	cases := []TransitionEvent{
		{Kind: EventPaymentSucceeded, PaidAmount: 477.5},                         // no reference
		{Kind: EventPaymentSucceeded, PaymentIntentID: "pi_1"},                   // no amount
		{Kind: EventPaymentSucceeded, PaymentIntentID: "pi_1", PaidAmount: -1.0}, // negative
	}

	for i, ev := range cases {
		b := pendingBooking()
		if _, err := ApplyTransition(b, ev); err != ErrMissingPaymentProof {
			t.Errorf("case %d: expected ErrMissingPaymentProof, got %v", i, err)
		}
	}
}

func TestApplyTransition_DoubleConfirmFails(t *testing.T) {
	t.Parallel()

	ev := TransitionEvent{
		Kind:            EventPaymentSucceeded,
		ActorEmail:      "renter@example.com",
		PaymentIntentID: "pi_1",
		PaidAmount:      477.5,
	}

	confirmed, err := ApplyTransition(pendingBooking(), ev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ApplyTransition(confirmed, ev); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition on second confirm, got %v", err)
	}
}

// ──────────────────────────────────────────────
// CANCELLATION AND COMPLETION
// ──────────────────────────────────────────────

func TestApplyTransition_CancelConfirmedKeepsPaymentArtifacts(t *testing.T) {
	t.Parallel()

	b := pendingBooking()
	b.Status = BookingStatusConfirmed
	b.PaymentIntentID = "pi_123"
	b.PaidAmount = 477.5

	canceled, err := ApplyTransition(b, TransitionEvent{Kind: EventCancel, ActorEmail: "admin@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if canceled.Status != BookingStatusCanceled {
		t.Errorf("expected status canceled, got %s", canceled.Status)
	}
	// Refunds are an external concern; the charge record must survive.
	if canceled.PaymentIntentID != "pi_123" || canceled.PaidAmount != 477.5 {
		t.Errorf("payment artifacts lost on cancel: %+v", canceled)
	}
}

func TestApplyTransition_CompleteRequiresConfirmed(t *testing.T) {
	t.Parallel()

	if _, err := ApplyTransition(pendingBooking(), TransitionEvent{Kind: EventComplete}); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition completing a pending booking, got %v", err)
	}

	b := pendingBooking()
	b.Status = BookingStatusConfirmed
	done, err := ApplyTransition(b, TransitionEvent{Kind: EventComplete, ActorEmail: "owner@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.Status != BookingStatusCompleted {
		t.Errorf("expected status completed, got %s", done.Status)
	}
}

func TestApplyTransition_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	b := pendingBooking()
	_, err := ApplyTransition(b, TransitionEvent{
		Kind:            EventPaymentSucceeded,
		ActorEmail:      "renter@example.com",
		PaymentIntentID: "pi_1",
		PaidAmount:      477.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Status != BookingStatusPending || b.PaymentIntentID != "" || b.PaidAmount != 0 {
		t.Errorf("input booking was mutated: %+v", b)
	}
}

// ──────────────────────────────────────────────
// RENTAL PERIOD
// ──────────────────────────────────────────────

func TestRentalPeriod_Overlaps(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time {
		return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
	}

	base := RentalPeriod{StartDate: day(10), EndDate: day(15)}

	cases := []struct {
		name  string
		other RentalPeriod
		want  bool
	}{
		{"identical", RentalPeriod{day(10), day(15)}, true},
		{"contained", RentalPeriod{day(11), day(12)}, true},
		{"overlaps start", RentalPeriod{day(8), day(10)}, true},
		{"overlaps end", RentalPeriod{day(15), day(20)}, true},
		{"before", RentalPeriod{day(1), day(9)}, false},
		{"after", RentalPeriod{day(16), day(20)}, false},
	}

	for _, tc := range cases {
		if got := base.Overlaps(tc.other); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.other.Overlaps(base); got != tc.want {
			t.Errorf("%s (reversed): Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}
