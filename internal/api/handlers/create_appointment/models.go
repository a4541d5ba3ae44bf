package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PatientID  int64  `json:"patientId"`
	DoctorID   int64  `json:"doctorId"`
	Department string `json:"department"`
	SlotStart  string `json:"slotStart"` // RFC 3339, например "2025-10-15T10:00:00+03:00"
	SlotEnd    string `json:"slotEnd"`   // RFC 3339
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом временных меток)
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	slotStart, err := time.Parse(time.RFC3339, r.SlotStart)
	if err != nil {
		return nil, err
	}

	slotEnd, err := time.Parse(time.RFC3339, r.SlotEnd)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		PatientID:  r.PatientID,
		DoctorID:   r.DoctorID,
		Department: r.Department,
		SlotStart:  slotStart,
		SlotEnd:    slotEnd,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
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
