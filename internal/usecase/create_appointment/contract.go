package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/doctorservice"
	"github.com/m04kA/HMS-AppointmentService/internal/integrations/patientservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	FindOverlapping(ctx context.Context, doctorID int64, slot domain.Slot, excludeID *int64) ([]*domain.Appointment, error)
}

// PatientServiceClient интерфейс клиента для PatientService
type PatientServiceClient interface {
	GetPatient(ctx context.Context, patientID int64) (*patientservice.Patient, error)
}

// DoctorServiceClient интерфейс клиента для DoctorService
type DoctorServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*doctorservice.Doctor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
