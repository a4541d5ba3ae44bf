package mark_no_show

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/billingservice"
	"github.com/m04kA/HMS-AppointmentService/internal/policy"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// BillingServiceClient интерфейс клиента для BillingService
type BillingServiceClient interface {
	GetBillByAppointment(ctx context.Context, appointmentID int64) (*billingservice.Bill, error)
	UpdateBill(ctx context.Context, billID int64, update *billingservice.UpdateBillRequest, idempotencyKey string) (*billingservice.Bill, error)
}

// PolicyRules правила жизненного цикла, применяемые при фиксации неявки
type PolicyRules interface {
	CanMarkNoShow(appt *domain.Appointment, now time.Time) bool
	NoShowFee(billAmount float64) float64
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Проверка соответствия интерфейсу
var _ PolicyRules = policy.Rules{}
