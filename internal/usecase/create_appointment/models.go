package create_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// Request модель запроса на создание записи на приём
type Request struct {
	PatientID  int64     // ID пациента
	DoctorID   int64     // ID врача
	Department string    // Департамент, должен совпадать с департаментом врача
	SlotStart  time.Time // Начало слота (включительно)
	SlotEnd    time.Time // Конец слота (не включительно)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	PatientID       int64
	DoctorID        int64
	Department      string
	SlotStart       time.Time
	SlotEnd         time.Time
	Status          string
	RescheduleCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FromDomain конвертирует доменную модель в response
func FromDomain(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		PatientID:       appt.PatientID,
		DoctorID:        appt.DoctorID,
		Department:      appt.Department,
		SlotStart:       appt.Slot.Start,
		SlotEnd:         appt.Slot.End,
		Status:          string(appt.Status),
		RescheduleCount: appt.RescheduleCount,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
