package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

// Service сервис чтения записей и завершения приёма
type Service struct {
	apptRepo AppointmentRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(apptRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		apptRepo: apptRepo,
		logger:   logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetPatientAppointments получает историю записей пациента
// Опционально фильтрует по статусу
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: patient=%d, status=%v", req.PatientID, req.Status)

	domainStatus, err := s.parseStatus(req.Status)
	if err != nil {
		s.logger.Warn("GetPatientAppointments: invalid status for patient=%d", req.PatientID)
		return nil, err
	}

	appointments, err := s.apptRepo.GetByPatientID(ctx, req.PatientID, domainStatus)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: fetched %d appointments for patient=%d",
		len(appointments), req.PatientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetDoctorAppointments получает расписание врача
// Опционально фильтрует по статусу
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: doctor=%d, status=%v", req.DoctorID, req.Status)

	domainStatus, err := s.parseStatus(req.Status)
	if err != nil {
		s.logger.Warn("GetDoctorAppointments: invalid status for doctor=%d", req.DoctorID)
		return nil, err
	}

	appointments, err := s.apptRepo.GetByDoctorID(ctx, req.DoctorID, domainStatus)
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: fetched %d appointments for doctor=%d",
		len(appointments), req.DoctorID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Complete переводит запись в статус COMPLETED
// Счёт при завершении не меняется: оплата проведённого приёма — отдельный биллинговый процесс
func (s *Service) Complete(ctx context.Context, id int64) error {
	s.logger.Info("Complete: completing appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Complete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if !appt.CanTransitionTo(domain.StatusCompleted) {
		s.logger.Warn("Complete: appointment id=%d is %s", id, appt.Status)
		return ErrNotScheduled
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, domain.StatusCompleted); err != nil {
		// Compare-and-set не затронул ни одной строки: конкурирующий переход успел первым
		if errors.Is(err, apptRepo.ErrAppointmentNotScheduled) {
			s.logger.Warn("Complete: appointment id=%d left SCHEDULED concurrently", id)
			return ErrNotScheduled
		}
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", id)
	return nil
}

// parseStatus конвертирует опциональный строковый статус в доменный
func (s *Service) parseStatus(status *string) (*domain.AppointmentStatus, error) {
	if status == nil {
		return nil, nil
	}
	domainStatus, err := models.ToDomainStatus(*status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	return &domainStatus, nil
}
