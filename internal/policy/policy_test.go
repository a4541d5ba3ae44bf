package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

func scheduledAppt(start time.Time, rescheduleCount int) *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		PatientID:       10,
		DoctorID:        20,
		Department:      "cardiology",
		Slot:            domain.Slot{Start: start, End: start.Add(30 * time.Minute)},
		Status:          domain.StatusScheduled,
		RescheduleCount: rescheduleCount,
	}
}

func TestRules_CanReschedule(t *testing.T) {
	rules := DefaultRules()
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		slotStart       time.Time
		rescheduleCount int
		wantAllowed     bool
		wantReason      string
	}{
		{
			name:            "well before cutoff, no reschedules yet",
			slotStart:       now.Add(24 * time.Hour),
			rescheduleCount: 0,
			wantAllowed:     true,
		},
		{
			name:            "one reschedule left",
			slotStart:       now.Add(24 * time.Hour),
			rescheduleCount: 1,
			wantAllowed:     true,
		},
		{
			name:            "max reschedules reached",
			slotStart:       now.Add(24 * time.Hour),
			rescheduleCount: 2,
			wantAllowed:     false,
			wantReason:      ReasonMaxReschedules,
		},
		{
			name:            "count above max",
			slotStart:       now.Add(24 * time.Hour),
			rescheduleCount: 3,
			wantAllowed:     false,
			wantReason:      ReasonMaxReschedules,
		},
		{
			name:            "exactly at cutoff boundary is allowed",
			slotStart:       now.Add(time.Hour),
			rescheduleCount: 0,
			wantAllowed:     true,
		},
		{
			name:            "one second inside cutoff is denied",
			slotStart:       now.Add(time.Hour - time.Second),
			rescheduleCount: 0,
			wantAllowed:     false,
			wantReason:      ReasonWithinCutoff,
		},
		{
			name:            "slot already started",
			slotStart:       now.Add(-10 * time.Minute),
			rescheduleCount: 0,
			wantAllowed:     false,
			wantReason:      ReasonWithinCutoff,
		},
		{
			name:            "limit is checked before cutoff",
			slotStart:       now.Add(10 * time.Minute),
			rescheduleCount: 2,
			wantAllowed:     false,
			wantReason:      ReasonMaxReschedules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := scheduledAppt(tt.slotStart, tt.rescheduleCount)

			allowed, reason := rules.CanReschedule(appt, now)

			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestRules_Cancellation(t *testing.T) {
	rules := DefaultRules()
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	billAmount := 200.0

	tests := []struct {
		name           string
		slotStart      time.Time
		wantRefundType RefundType
		wantFee        float64
	}{
		{
			name:           "well before refund window - full refund",
			slotStart:      now.Add(48 * time.Hour),
			wantRefundType: RefundFull,
			wantFee:        0,
		},
		{
			name:           "one second outside window - full refund",
			slotStart:      now.Add(2*time.Hour + time.Second),
			wantRefundType: RefundFull,
			wantFee:        0,
		},
		{
			name:           "exactly at window boundary - partial refund",
			slotStart:      now.Add(2 * time.Hour),
			wantRefundType: RefundPartial,
			wantFee:        100,
		},
		{
			name:           "inside window - partial refund",
			slotStart:      now.Add(30 * time.Minute),
			wantRefundType: RefundPartial,
			wantFee:        100,
		},
		{
			name:           "slot already started - partial refund",
			slotStart:      now.Add(-10 * time.Minute),
			wantRefundType: RefundPartial,
			wantFee:        100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := scheduledAppt(tt.slotStart, 0)

			outcome := rules.Cancellation(appt, now, billAmount)

			assert.Equal(t, tt.wantRefundType, outcome.RefundType)
			assert.InDelta(t, tt.wantFee, outcome.Fee, 0.001)
		})
	}
}

func TestRules_CanMarkNoShow(t *testing.T) {
	rules := DefaultRules()
	slotStart := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	appt := scheduledAppt(slotStart, 0)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "before slot start",
			now:  slotStart.Add(-time.Hour),
			want: false,
		},
		{
			name: "right at slot start",
			now:  slotStart,
			want: false,
		},
		{
			name: "one second before grace period elapses",
			now:  slotStart.Add(15*time.Minute - time.Second),
			want: false,
		},
		{
			name: "exactly when grace period elapses",
			now:  slotStart.Add(15 * time.Minute),
			want: true,
		},
		{
			name: "long after grace period",
			now:  slotStart.Add(2 * time.Hour),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.CanMarkNoShow(appt, tt.now))
		})
	}
}

func TestRules_NoShowFee(t *testing.T) {
	rules := DefaultRules()

	assert.InDelta(t, 200.0, rules.NoShowFee(200.0), 0.001)
	assert.InDelta(t, 0.0, rules.NoShowFee(0), 0.001)

	// Половинный штраф при пониженном коэффициенте
	rules.NoShowFeeRatio = 0.5
	assert.InDelta(t, 100.0, rules.NoShowFee(200.0), 0.001)
}
