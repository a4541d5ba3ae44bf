package mark_no_show

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	billingClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/billingservice"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
)

// UseCase use case для фиксации неявки пациента
type UseCase struct {
	apptRepo      AppointmentRepository
	billingClient BillingServiceClient
	rules         PolicyRules
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	billingClient BillingServiceClient,
	rules PolicyRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:      apptRepo,
		billingClient: billingClient,
		rules:         rules,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case фиксации неявки.
//
// Порядок шагов тот же, что и при отмене: сначала списание в BillingService,
// затем локальная смена статуса. Запись не может оказаться NO_SHOW без
// проведённого списания.
func (uc *UseCase) Execute(ctx context.Context, appointmentID int64) (*Response, error) {
	uc.logger.Info("MarkNoShow: id=%d", appointmentID)

	if appointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 1. Загружаем запись
	appt, err := uc.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("MarkNoShow: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("MarkNoShow: failed to get appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 2. Неявку можно зафиксировать только для активной записи
	if !appt.IsScheduled() {
		uc.logger.Warn("MarkNoShow: appointment id=%d is %s", appt.ID, appt.Status)
		return nil, ErrNotScheduled
	}

	// 3. Grace period: сразу после начала слота неявку фиксировать нельзя
	if !uc.rules.CanMarkNoShow(appt, now) {
		uc.logger.Warn("MarkNoShow: grace period active for id=%d, slotStart=%s",
			appt.ID, appt.Slot.Start.Format("2006-01-02 15:04"))
		return nil, ErrGracePeriodActive
	}

	// 4. Загружаем счёт
	bill, err := uc.billingClient.GetBillByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, billingClient.ErrBillNotFound) {
			uc.logger.Warn("MarkNoShow: no bill for appointment id=%d", appointmentID)
			return nil, ErrBillNotFound
		}
		if errors.Is(err, billingClient.ErrServiceUnavailable) {
			uc.logger.Error("MarkNoShow: billing service unavailable: %v", err)
			return nil, fmt.Errorf("%w: billing service: %v", ErrGatewayUnavailable, err)
		}
		uc.logger.Error("MarkNoShow: failed to get bill for id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to get bill: %v", ErrInternal, err)
	}

	// 5. Списание полной суммы счёта
	fee := uc.rules.NoShowFee(bill.Amount)

	update := &billingClient.UpdateBillRequest{
		Amount: ptr.Ptr(fee),
		Status: billingClient.BillStatusCharged,
	}

	idempotencyKey := fmt.Sprintf("appointment-%d-no-show", appointmentID)
	if _, err := uc.billingClient.UpdateBill(ctx, bill.ID, update, idempotencyKey); err != nil {
		uc.logger.Error("MarkNoShow: bill update failed for id=%d, bill=%d: %v",
			appointmentID, bill.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrLedgerUpdateFailed, err)
	}

	// 6. Списание проведено — фиксируем терминальный статус записи (compare-and-set по SCHEDULED)
	if err := uc.apptRepo.UpdateStatus(ctx, appointmentID, domain.StatusNoShow); err != nil {
		// Конкурирующий переход успел первым: терминальный статус не перезаписываем,
		// но списание уже проведено — расхождение разрешается вручную по логу
		if errors.Is(err, apptRepo.ErrAppointmentNotScheduled) {
			uc.logger.Error("MarkNoShow: bill charged but appointment id=%d left SCHEDULED concurrently",
				appointmentID)
			return nil, ErrNotScheduled
		}
		uc.logger.Error("MarkNoShow: bill charged but status write failed for id=%d: %v",
			appointmentID, err)
		return nil, fmt.Errorf("%w: status update after ledger mutation: %v", ErrInternal, err)
	}

	uc.logger.Info("MarkNoShow: successfully marked id=%d, fee=%.2f", appointmentID, fee)

	return &Response{FeeCharged: fee}, nil
}
