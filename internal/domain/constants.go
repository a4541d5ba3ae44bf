package domain

import "time"

// Default policy thresholds
// Все значения могут быть переопределены через секцию [policy] в config.toml
const (
	// DefaultMaxReschedules максимальное количество переносов одной записи
	DefaultMaxReschedules = 2

	// DefaultRescheduleCutoff минимальное время до начала слота, при котором перенос ещё разрешён
	DefaultRescheduleCutoff = 1 * time.Hour

	// DefaultPartialRefundWindow окно до начала слота, внутри которого отмена платная (частичный возврат)
	DefaultPartialRefundWindow = 2 * time.Hour

	// DefaultNoShowGracePeriod задержка после начала слота, до истечения которой неявку фиксировать нельзя
	DefaultNoShowGracePeriod = 15 * time.Minute

	// DefaultLateCancellationFeeRatio доля суммы счёта, удерживаемая при поздней отмене
	DefaultLateCancellationFeeRatio = 0.5

	// DefaultNoShowFeeRatio доля суммы счёта, удерживаемая при неявке
	DefaultNoShowFeeRatio = 1.0
)

// TerminalStatuses список терминальных статусов записи
// Из терминального статуса переходы запрещены
var TerminalStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
	StatusCompleted,
}

// AllStatuses список всех допустимых статусов записи
var AllStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusCancelled,
	StatusNoShow,
	StatusCompleted,
}

// ValidStatus returns true if the given status is a known appointment status
func ValidStatus(s AppointmentStatus) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}
