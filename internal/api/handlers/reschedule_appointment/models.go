package reschedule_appointment

import (
	"time"

	rescheduleAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/reschedule_appointment"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	SlotStart string `json:"slotStart"` // RFC 3339
	SlotEnd   string `json:"slotEnd"`   // RFC 3339
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	PatientID       int64  `json:"patientId"`
	DoctorID        int64  `json:"doctorId"`
	Department      string `json:"department"`
	SlotStart       string `json:"slotStart"`
	SlotEnd         string `json:"slotEnd"`
	Status          string `json:"status"`
	RescheduleCount int    `json:"rescheduleCount"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	slotStart, err := time.Parse(time.RFC3339, r.SlotStart)
	if err != nil {
		return nil, err
	}

	slotEnd, err := time.Parse(time.RFC3339, r.SlotEnd)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		NewSlotStart:  slotStart,
		NewSlotEnd:    slotEnd,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		PatientID:       resp.PatientID,
		DoctorID:        resp.DoctorID,
		Department:      resp.Department,
		SlotStart:       resp.SlotStart.Format(time.RFC3339),
		SlotEnd:         resp.SlotEnd.Format(time.RFC3339),
		Status:          resp.Status,
		RescheduleCount: resp.RescheduleCount,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
