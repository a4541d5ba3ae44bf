package mark_no_show

import (
	markNoShow "github.com/m04kA/HMS-AppointmentService/internal/usecase/mark_no_show"
)

// MarkNoShowResponse HTTP response model
type MarkNoShowResponse struct {
	FeeCharged float64 `json:"feeCharged"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *markNoShow.Response) *MarkNoShowResponse {
	return &MarkNoShowResponse{
		FeeCharged: resp.FeeCharged,
	}
}
