package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	doctorClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/doctorservice"
	patientClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/patientservice"
)

// UseCase use case для создания записи на приём
type UseCase struct {
	apptRepo      AppointmentRepository
	patientClient PatientServiceClient
	doctorClient  DoctorServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	patientClient PatientServiceClient,
	doctorClient DoctorServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:      apptRepo,
		patientClient: patientClient,
		doctorClient:  doctorClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания записи.
// Все проверки внешних сервисов выполняются до локальной записи: при отказе любого
// шага валидации в booking store ничего не пишется.
// Проверка пересечения слотов и вставка выполняются в одной сериализуемой транзакции —
// сериализация check-then-act по врачу.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: patient=%d, doctor=%d, department=%s, slot=[%s, %s)",
		req.PatientID, req.DoctorID, req.Department,
		req.SlotStart.Format("2006-01-02 15:04"), req.SlotEnd.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование пациента
	if _, err := uc.patientClient.GetPatient(ctx, req.PatientID); err != nil {
		if errors.Is(err, patientClient.ErrPatientNotFound) {
			uc.logger.Warn("CreateAppointment: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		if errors.Is(err, patientClient.ErrServiceUnavailable) {
			uc.logger.Error("CreateAppointment: patient service unavailable: %v", err)
			return nil, fmt.Errorf("%w: patient service: %v", ErrGatewayUnavailable, err)
		}
		uc.logger.Error("CreateAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// 3. Проверяем существование врача
	doctor, err := uc.doctorClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorClient.ErrDoctorNotFound) {
			uc.logger.Warn("CreateAppointment: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		if errors.Is(err, doctorClient.ErrServiceUnavailable) {
			uc.logger.Error("CreateAppointment: doctor service unavailable: %v", err)
			return nil, fmt.Errorf("%w: doctor service: %v", ErrGatewayUnavailable, err)
		}
		uc.logger.Error("CreateAppointment: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 4. Департамент записи должен совпадать с департаментом врача
	if doctor.Department != req.Department {
		uc.logger.Warn("CreateAppointment: department mismatch: requested=%s, doctor=%s",
			req.Department, doctor.Department)
		return nil, ErrDepartmentMismatch
	}

	slot := domain.Slot{Start: req.SlotStart, End: req.SlotEnd}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 5. Проверка пересечения и вставка — одна сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Ищем пересекающиеся активные записи врача (с блокировкой строк)
		overlapping, err := uc.apptRepo.FindOverlapping(txCtx, req.DoctorID, slot, nil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check overlapping slots: %v", err)
			return fmt.Errorf("%w: failed to check overlapping slots: %v", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("CreateAppointment: slot not available for doctor=%d, %d overlapping",
				req.DoctorID, len(overlapping))
			return ErrSlotUnavailable
		}

		// 5.2. Создаем запись
		appt := &domain.Appointment{
			PatientID:       req.PatientID,
			DoctorID:        req.DoctorID,
			Department:      req.Department,
			Slot:            slot,
			Status:          domain.StatusScheduled,
			RescheduleCount: 0,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return FromDomain(result), nil
}
