package cancel_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	cancelAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/cancel_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgNotFound             = "запись не найдена"
	msgNotScheduled         = "запись уже завершена или отменена"
	msgBillNotFound         = "для записи отсутствует счёт, отмена невозможна"
	msgLedgerUpdateFailed   = "не удалось изменить счёт, отмена не выполнена"
	msgGatewayUnavailable   = "внешний сервис временно недоступен, повторите запрос"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)

		case errors.Is(err, cancelAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelAppointment.ErrNotScheduled):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Not scheduled: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotScheduled)

		case errors.Is(err, cancelAppointment.ErrBillNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Bill not found: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgBillNotFound)

		case errors.Is(err, cancelAppointment.ErrLedgerUpdateFailed):
			h.logger.Error("PATCH /appointments/{id}/cancel - Ledger update failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadGateway(w, msgLedgerUpdateFailed)

		case errors.Is(err, cancelAppointment.ErrGatewayUnavailable):
			h.logger.Error("PATCH /appointments/{id}/cancel - Upstream unavailable: %v", err)
			handlers.RespondBadGateway(w, msgGatewayUnavailable)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Cancelled successfully: appointment_id=%d, refund=%s, fee=%.2f",
		appointmentID, result.RefundType, result.Fee)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
