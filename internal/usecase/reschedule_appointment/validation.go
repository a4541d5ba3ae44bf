package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	slot := domain.Slot{Start: req.NewSlotStart, End: req.NewSlotEnd}
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Перенос в прошлое не имеет смысла
	if req.NewSlotStart.Before(now) {
		return fmt.Errorf("%w: slot must not start in the past", ErrInvalidInput)
	}

	return nil
}
