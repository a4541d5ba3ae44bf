package cancel_appointment

import (
	cancelAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/cancel_appointment"
)

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	RefundType string  `json:"refundType"` // "full" | "partial"
	Fee        float64 `json:"fee"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		RefundType: resp.RefundType,
		Fee:        resp.Fee,
	}
}
