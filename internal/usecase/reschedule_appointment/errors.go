package reschedule_appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrNotScheduled возвращается при попытке перенести запись в терминальном статусе
	ErrNotScheduled = errors.New("reschedule_appointment: appointment is not in scheduled state")

	// ErrPolicyViolation базовая ошибка нарушения бизнес-правил переноса
	ErrPolicyViolation = errors.New("reschedule_appointment: policy violation")

	// ErrMaxReschedules возвращается при исчерпании лимита переносов
	ErrMaxReschedules = fmt.Errorf("%w: max reschedules reached", ErrPolicyViolation)

	// ErrWithinCutoff возвращается при попытке переноса внутри cutoff-окна
	ErrWithinCutoff = fmt.Errorf("%w: within cutoff window", ErrPolicyViolation)

	// ErrDoctorNotFound возвращается, когда врач записи больше не существует
	ErrDoctorNotFound = errors.New("reschedule_appointment: doctor not found")

	// ErrDepartmentMismatch возвращается, когда департамент врача изменился
	ErrDepartmentMismatch = errors.New("reschedule_appointment: department does not match doctor's department")

	// ErrSlotUnavailable возвращается, когда новый интервал пересекается с другой активной записью врача
	ErrSlotUnavailable = errors.New("reschedule_appointment: slot is not available")

	// ErrGatewayUnavailable возвращается, когда внешний сервис недоступен или не ответил вовремя
	ErrGatewayUnavailable = errors.New("reschedule_appointment: upstream service unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
