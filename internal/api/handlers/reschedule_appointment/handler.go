package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	rescheduleAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidSlot          = "некорректный временной интервал, ожидается RFC 3339 и start < end"
	msgNotFound             = "запись не найдена"
	msgNotScheduled         = "запись уже завершена или отменена"
	msgMaxReschedules       = "исчерпан лимит переносов записи"
	msgWithinCutoff         = "до начала приёма осталось слишком мало времени для переноса"
	msgDoctorNotFound       = "врач не найден"
	msgDepartmentMismatch   = "департамент врача изменился, перенос невозможен"
	msgSlotUnavailable      = "выбранный временной слот занят"
	msgGatewayUnavailable   = "внешний сервис временно недоступен, повторите запрос"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем appointmentId из URL
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrNotScheduled):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Not scheduled: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotScheduled)

		case errors.Is(err, rescheduleAppointment.ErrMaxReschedules):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Max reschedules: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgMaxReschedules)

		case errors.Is(err, rescheduleAppointment.ErrWithinCutoff):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Within cutoff: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgWithinCutoff)

		case errors.Is(err, rescheduleAppointment.ErrDoctorNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Doctor not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, rescheduleAppointment.ErrDepartmentMismatch):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Department mismatch: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgDepartmentMismatch)

		case errors.Is(err, rescheduleAppointment.ErrSlotUnavailable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot not available: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, rescheduleAppointment.ErrGatewayUnavailable):
			h.logger.Error("PATCH /appointments/{id}/reschedule - Upstream unavailable: %v", err)
			handlers.RespondBadGateway(w, msgGatewayUnavailable)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Rescheduled successfully: appointment_id=%d, count=%d",
		appointmentID, result.RescheduleCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
