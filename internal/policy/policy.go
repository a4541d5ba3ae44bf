// Package policy содержит чистые детерминированные функции бизнес-правил
// жизненного цикла записи. Функции не выполняют I/O и не читают системные часы:
// текущее время всегда передаётся параметром, чтобы решения были тестируемыми.
package policy

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// Человекочитаемые причины отказа для PolicyViolation
const (
	ReasonMaxReschedules = "max reschedules reached"
	ReasonWithinCutoff   = "within cutoff window"
)

// RefundType тип возврата при отмене записи
type RefundType string

const (
	RefundFull    RefundType = "full"
	RefundPartial RefundType = "partial"
)

// CancellationOutcome результат вычисления условий отмены
type CancellationOutcome struct {
	RefundType RefundType
	Fee        float64
}

// CanReschedule returns whether the appointment may be rescheduled at the given moment.
// Отказ по лимиту переносов или по окну cutoff; граница ровно в cutoff разрешена.
func (r Rules) CanReschedule(appt *domain.Appointment, now time.Time) (bool, string) {
	if appt.RescheduleCount >= r.MaxReschedules {
		return false, ReasonMaxReschedules
	}
	if appt.Slot.Start.Sub(now) < r.RescheduleCutoff {
		return false, ReasonWithinCutoff
	}
	return true, ""
}

// Cancellation computes the refund outcome for cancelling at the given moment.
// Тотальная функция: всегда возвращает результат, ошибок нет.
// Граница ровно в PartialRefundWindow относится к частичному возврату.
func (r Rules) Cancellation(appt *domain.Appointment, now time.Time, billAmount float64) CancellationOutcome {
	if appt.Slot.Start.Sub(now) <= r.PartialRefundWindow {
		return CancellationOutcome{
			RefundType: RefundPartial,
			Fee:        billAmount * r.LateCancellationFeeRatio,
		}
	}
	return CancellationOutcome{
		RefundType: RefundFull,
		Fee:        0,
	}
}

// CanMarkNoShow returns true once the grace period after slot start has elapsed
func (r Rules) CanMarkNoShow(appt *domain.Appointment, now time.Time) bool {
	return !now.Before(appt.Slot.Start.Add(r.NoShowGracePeriod))
}

// NoShowFee computes the fee charged for a no-show.
// Выделено в отдельное правило: размер штрафа — бизнес-решение, а не деталь реализации.
func (r Rules) NoShowFee(billAmount float64) float64 {
	return billAmount * r.NoShowFeeRatio
}
