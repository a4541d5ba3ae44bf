package policy

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// Rules набор бизнес-порогов для решений жизненного цикла записи.
// Все пороги задаются конфигурацией; значения по умолчанию — в domain/constants.go.
type Rules struct {
	MaxReschedules           int
	RescheduleCutoff         time.Duration
	PartialRefundWindow      time.Duration
	NoShowGracePeriod        time.Duration
	LateCancellationFeeRatio float64
	NoShowFeeRatio           float64
}

// DefaultRules returns the rule set with default thresholds
func DefaultRules() Rules {
	return Rules{
		MaxReschedules:           domain.DefaultMaxReschedules,
		RescheduleCutoff:         domain.DefaultRescheduleCutoff,
		PartialRefundWindow:      domain.DefaultPartialRefundWindow,
		NoShowGracePeriod:        domain.DefaultNoShowGracePeriod,
		LateCancellationFeeRatio: domain.DefaultLateCancellationFeeRatio,
		NoShowFeeRatio:           domain.DefaultNoShowFeeRatio,
	}
}
