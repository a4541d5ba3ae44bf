package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	doctorClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/doctorservice"
	"github.com/m04kA/HMS-AppointmentService/internal/policy"
)

// UseCase use case для переноса записи на новый слот
type UseCase struct {
	apptRepo     AppointmentRepository
	doctorClient DoctorServiceClient
	txManager    TransactionManager
	rules        PolicyRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	doctorClient DoctorServiceClient,
	txManager TransactionManager,
	rules PolicyRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		doctorClient: doctorClient,
		txManager:    txManager,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса записи.
// Помимо проверки пересечения слотов заново валидирует врача и департамент:
// между созданием и переносом врач мог быть удалён или переведён в другой департамент.
// Проверка пересечения (исключая саму запись) и обновление интервала выполняются
// в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, newSlot=[%s, %s)",
		req.AppointmentID,
		req.NewSlotStart.Format("2006-01-02 15:04"), req.NewSlotEnd.Format("2006-01-02 15:04"))

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем запись
	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 3. Переносить можно только активную запись
	if !appt.IsScheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d is %s", appt.ID, appt.Status)
		return nil, ErrNotScheduled
	}

	// 4. Бизнес-правила переноса (лимит, cutoff-окно)
	if allowed, reason := uc.rules.CanReschedule(appt, now); !allowed {
		uc.logger.Warn("RescheduleAppointment: policy denied for id=%d: %s", appt.ID, reason)
		return nil, policyError(reason)
	}

	// 5. Повторная валидация врача и департамента
	doctor, err := uc.doctorClient.GetDoctor(ctx, appt.DoctorID)
	if err != nil {
		if errors.Is(err, doctorClient.ErrDoctorNotFound) {
			uc.logger.Warn("RescheduleAppointment: doctor id=%d not found", appt.DoctorID)
			return nil, ErrDoctorNotFound
		}
		if errors.Is(err, doctorClient.ErrServiceUnavailable) {
			uc.logger.Error("RescheduleAppointment: doctor service unavailable: %v", err)
			return nil, fmt.Errorf("%w: doctor service: %v", ErrGatewayUnavailable, err)
		}
		uc.logger.Error("RescheduleAppointment: failed to get doctor id=%d: %v", appt.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	if doctor.Department != appt.Department {
		uc.logger.Warn("RescheduleAppointment: department mismatch for id=%d: appointment=%s, doctor=%s",
			appt.ID, appt.Department, doctor.Department)
		return nil, ErrDepartmentMismatch
	}

	newSlot := domain.Slot{Start: req.NewSlotStart, End: req.NewSlotEnd}

	// 6. Проверка пересечения и обновление — одна сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Перечитываем запись с блокировкой: статус и счётчик могли измениться
		current, err := uc.apptRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
		}

		if !current.IsScheduled() {
			return ErrNotScheduled
		}

		if allowed, reason := uc.rules.CanReschedule(current, now); !allowed {
			return policyError(reason)
		}

		// 6.2. Ищем пересекающиеся записи врача, исключая переносимую
		overlapping, err := uc.apptRepo.FindOverlapping(txCtx, current.DoctorID, newSlot, &current.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlapping slots: %v", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("RescheduleAppointment: slot not available for doctor=%d, %d overlapping",
				current.DoctorID, len(overlapping))
			return ErrSlotUnavailable
		}

		// 6.3. Атомарно: новый интервал + инкремент счётчика переносов
		if err := uc.apptRepo.UpdateSlot(txCtx, current.ID, newSlot); err != nil {
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Перечитываем итоговое состояние для ответа
	updated, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to reload appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled id=%d, count=%d",
		updated.ID, updated.RescheduleCount)

	return FromDomain(updated), nil
}

// policyError конвертирует причину отказа политики в ошибку usecase
func policyError(reason string) error {
	switch reason {
	case policy.ReasonMaxReschedules:
		return ErrMaxReschedules
	case policy.ReasonWithinCutoff:
		return ErrWithinCutoff
	default:
		return fmt.Errorf("%w: %s", ErrPolicyViolation, reason)
	}
}
