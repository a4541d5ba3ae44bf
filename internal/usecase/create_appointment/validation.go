package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.Department == "" {
		return fmt.Errorf("%w: department is required", ErrInvalidInput)
	}

	// Интервал должен быть корректным полуоткрытым [start, end)
	slot := domain.Slot{Start: req.SlotStart, End: req.SlotEnd}
	if err := slot.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Запись в прошлое не имеет смысла
	if req.SlotStart.Before(now) {
		return fmt.Errorf("%w: slot must not start in the past", ErrInvalidInput)
	}

	return nil
}
