package mark_no_show

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	billingClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/billingservice"
	"github.com/m04kA/HMS-AppointmentService/internal/policy"
)

type fakeApptRepo struct {
	getByIDFn      func(ctx context.Context, id int64) (*domain.Appointment, error)
	updateStatusFn func(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeApptRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return f.updateStatusFn(ctx, id, status)
}

type fakeBillingClient struct {
	getBillFn    func(ctx context.Context, appointmentID int64) (*billingClient.Bill, error)
	updateBillFn func(ctx context.Context, billID int64, update *billingClient.UpdateBillRequest, idempotencyKey string) (*billingClient.Bill, error)
}

func (f *fakeBillingClient) GetBillByAppointment(ctx context.Context, appointmentID int64) (*billingClient.Bill, error) {
	return f.getBillFn(ctx, appointmentID)
}

func (f *fakeBillingClient) UpdateBill(ctx context.Context, billID int64, update *billingClient.UpdateBillRequest, idempotencyKey string) (*billingClient.Bill, error) {
	return f.updateBillFn(ctx, billID, update, idempotencyKey)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

// scheduledAppt возвращает запись, слот которой начался startedAgo назад
func scheduledAppt(startedAgo time.Duration) *domain.Appointment {
	start := testNow.Add(-startedAgo)
	return &domain.Appointment{
		ID:         1,
		PatientID:  10,
		DoctorID:   20,
		Department: "cardiology",
		Slot:       domain.Slot{Start: start, End: start.Add(30 * time.Minute)},
		Status:     domain.StatusScheduled,
	}
}

func okBill(ctx context.Context, appointmentID int64) (*billingClient.Bill, error) {
	return &billingClient.Bill{
		ID:            500,
		AppointmentID: appointmentID,
		PatientID:     10,
		Amount:        200,
		Status:        billingClient.BillStatusOpen,
	}, nil
}

func newTestUseCase(repo *fakeApptRepo, billing *fakeBillingClient) *UseCase {
	uc := NewUseCase(repo, billing, policy.DefaultRules(), nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func TestUseCase_Execute_Success(t *testing.T) {
	var statusWritten domain.AppointmentStatus
	var billUpdate *billingClient.UpdateBillRequest
	var usedKey string

	repo := &fakeApptRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			// Слот начался 20 минут назад, grace period в 15 минут истёк
			return scheduledAppt(20 * time.Minute), nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status domain.AppointmentStatus) error {
			statusWritten = status
			return nil
		},
	}
	billing := &fakeBillingClient{
		getBillFn: okBill,
		updateBillFn: func(ctx context.Context, billID int64, update *billingClient.UpdateBillRequest, idempotencyKey string) (*billingClient.Bill, error) {
			billUpdate = update
			usedKey = idempotencyKey
			return &billingClient.Bill{ID: billID}, nil
		},
	}

	uc := newTestUseCase(repo, billing)

	resp, err := uc.Execute(context.Background(), 1)

	require.NoError(t, err)
	assert.InDelta(t, 200.0, resp.FeeCharged, 0.001)

	assert.Equal(t, domain.StatusNoShow, statusWritten)
	assert.Equal(t, "appointment-1-no-show", usedKey)

	// Списывается полная сумма счёта
	require.NotNil(t, billUpdate)
	require.NotNil(t, billUpdate.Amount)
	assert.InDelta(t, 200.0, *billUpdate.Amount, 0.001)
	assert.Equal(t, billingClient.BillStatusCharged, billUpdate.Status)
}

func TestUseCase_Execute_GracePeriodActive(t *testing.T) {
	tests := []struct {
		name       string
		startedAgo time.Duration
	}{
		{name: "slot has not started yet", startedAgo: -time.Hour},
		{name: "right at slot start", startedAgo: 0},
		{name: "one minute before grace elapses", startedAgo: 14 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeApptRepo{
				getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
					return scheduledAppt(tt.startedAgo), nil
				},
			}

			uc := newTestUseCase(repo, &fakeBillingClient{})

			resp, err := uc.Execute(context.Background(), 1)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrGracePeriodActive)
		})
	}
}

func TestUseCase_Execute_ExactlyAtGraceBoundary(t *testing.T) {
	repo := &fakeApptRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			// Ровно 15 минут после начала слота — фиксация уже разрешена
			return scheduledAppt(15 * time.Minute), nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status domain.AppointmentStatus) error {
			return nil
		},
	}
	billing := &fakeBillingClient{
		getBillFn: okBill,
		updateBillFn: func(ctx context.Context, billID int64, update *billingClient.UpdateBillRequest, idempotencyKey string) (*billingClient.Bill, error) {
			return &billingClient.Bill{ID: billID}, nil
		},
	}

	uc := newTestUseCase(repo, billing)

	resp, err := uc.Execute(context.Background(), 1)

	require.NoError(t, err)
	assert.InDelta(t, 200.0, resp.FeeCharged, 0.001)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	repo := &fakeApptRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return nil, apptRepo.ErrAppointmentNotFound
		},
	}

	uc := newTestUseCase(repo, &fakeBillingClient{})

	resp, err := uc.Execute(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUseCase_Execute_NotScheduled(t *testing.T) {
	repo := &fakeApptRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			appt := scheduledAppt(20 * time.Minute)
			appt.Status = domain.StatusCompleted
			return appt, nil
		},
	}

	uc := newTestUseCase(repo, &fakeBillingClient{})

	resp, err := uc.Execute(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNotScheduled)
}

func TestUseCase_Execute_LedgerFailureLeavesStatusUntouched(t *testing.T) {
	statusCalled := false

	repo := &fakeApptRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return scheduledAppt(20 * time.Minute), nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status domain.AppointmentStatus) error {
			statusCalled = true
			return nil
		},
	}
	billing := &fakeBillingClient{
		getBillFn: okBill,
		updateBillFn: func(ctx context.Context, billID int64, update *billingClient.UpdateBillRequest, idempotencyKey string) (*billingClient.Bill, error) {
			return nil, billingClient.ErrUpdateFailed
		},
	}

	uc := newTestUseCase(repo, billing)

	resp, err := uc.Execute(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrLedgerUpdateFailed)
	assert.False(t, statusCalled, "appointment status must stay SCHEDULED when the ledger call fails")
}

func TestUseCase_Execute_ConcurrentTransitionWins(t *testing.T) {
	// Между чтением и записью статус успел смениться конкурирующим переходом:
	// compare-and-set не затрагивает строку, терминальный статус не перезаписывается
	repo := &fakeApptRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return scheduledAppt(20 * time.Minute), nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status domain.AppointmentStatus) error {
			return apptRepo.ErrAppointmentNotScheduled
		},
	}
	billing := &fakeBillingClient{
		getBillFn: okBill,
		updateBillFn: func(ctx context.Context, billID int64, update *billingClient.UpdateBillRequest, idempotencyKey string) (*billingClient.Bill, error) {
			return &billingClient.Bill{ID: billID}, nil
		},
	}

	uc := newTestUseCase(repo, billing)

	resp, err := uc.Execute(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrNotScheduled)
}

func TestUseCase_Execute_BillNotFound(t *testing.T) {
	repo := &fakeApptRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Appointment, error) {
			return scheduledAppt(20 * time.Minute), nil
		},
	}
	billing := &fakeBillingClient{
		getBillFn: func(ctx context.Context, appointmentID int64) (*billingClient.Bill, error) {
			return nil, billingClient.ErrBillNotFound
		},
	}

	uc := newTestUseCase(repo, billing)

	resp, err := uc.Execute(context.Background(), 1)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrBillNotFound)
}
