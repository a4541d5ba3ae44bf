package mark_no_show

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	markNoShow "github.com/m04kA/HMS-AppointmentService/internal/usecase/mark_no_show"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgNotFound             = "запись не найдена"
	msgNotScheduled         = "запись уже завершена или отменена"
	msgGracePeriodActive    = "льготный период ещё не истёк, фиксация неявки недоступна"
	msgBillNotFound         = "для записи отсутствует счёт, фиксация неявки невозможна"
	msgLedgerUpdateFailed   = "не удалось изменить счёт, неявка не зафиксирована"
	msgGatewayUnavailable   = "внешний сервис временно недоступен, повторите запрос"
)

type Handler struct {
	useCase MarkNoShowUseCase
	logger  Logger
}

func NewHandler(useCase MarkNoShowUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/no-show
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/no-show - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, markNoShow.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/no-show - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)

		case errors.Is(err, markNoShow.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/no-show - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, markNoShow.ErrNotScheduled):
			h.logger.Warn("PATCH /appointments/{id}/no-show - Not scheduled: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotScheduled)

		case errors.Is(err, markNoShow.ErrGracePeriodActive):
			h.logger.Warn("PATCH /appointments/{id}/no-show - Grace period active: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgGracePeriodActive)

		case errors.Is(err, markNoShow.ErrBillNotFound):
			h.logger.Warn("PATCH /appointments/{id}/no-show - Bill not found: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgBillNotFound)

		case errors.Is(err, markNoShow.ErrLedgerUpdateFailed):
			h.logger.Error("PATCH /appointments/{id}/no-show - Ledger update failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadGateway(w, msgLedgerUpdateFailed)

		case errors.Is(err, markNoShow.ErrGatewayUnavailable):
			h.logger.Error("PATCH /appointments/{id}/no-show - Upstream unavailable: %v", err)
			handlers.RespondBadGateway(w, msgGatewayUnavailable)

		default:
			h.logger.Error("PATCH /appointments/{id}/no-show - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/no-show - Marked successfully: appointment_id=%d, fee=%.2f",
		appointmentID, result.FeeCharged)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
