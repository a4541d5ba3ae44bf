package cancel_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	billingClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/billingservice"
	"github.com/m04kA/HMS-AppointmentService/internal/policy"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
)

// UseCase use case для отмены записи с компенсацией в BillingService
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

// Execute выполняет use case отмены записи.
//
// Порядок шагов фиксированный: сначала мутация счёта в BillingService, затем
// локальная смена статуса. При отказе BillingService запись остаётся SCHEDULED —
// снаружи частичное состояние не видно. Обратный порядок оставлял бы запись
// CANCELLED без согласованного счёта.
//
// Распределённых транзакций нет: если после успешной мутации счёта упадёт
// локальная запись статуса, счёт останется изменённым — принятый риск
// at-least-once, повтор отмены с тем же idempotency key безопасен.
func (uc *UseCase) Execute(ctx context.Context, appointmentID int64) (*Response, error) {
	uc.logger.Info("CancelAppointment: id=%d", appointmentID)

	if appointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 1. Загружаем запись
	appt, err := uc.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: failed to get appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 2. Отменить можно только активную запись
	if !appt.IsScheduled() {
		uc.logger.Warn("CancelAppointment: appointment id=%d is %s", appt.ID, appt.Status)
		return nil, ErrNotScheduled
	}

	// 3. Загружаем счёт: без него отмену провести нельзя
	bill, err := uc.billingClient.GetBillByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, billingClient.ErrBillNotFound) {
			uc.logger.Warn("CancelAppointment: no bill for appointment id=%d", appointmentID)
			return nil, ErrBillNotFound
		}
		if errors.Is(err, billingClient.ErrServiceUnavailable) {
			uc.logger.Error("CancelAppointment: billing service unavailable: %v", err)
			return nil, fmt.Errorf("%w: billing service: %v", ErrGatewayUnavailable, err)
		}
		uc.logger.Error("CancelAppointment: failed to get bill for id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to get bill: %v", ErrInternal, err)
	}

	// 4. Вычисляем условия отмены
	outcome := uc.rules.Cancellation(appt, now, bill.Amount)

	// 5. Мутация счёта:
	//    partial — сумма уменьшается до штрафа, статус CANCELLED
	//    full    — сумма не меняется, статус VOID
	update := &billingClient.UpdateBillRequest{}
	if outcome.RefundType == policy.RefundPartial {
		update.Amount = ptr.Ptr(outcome.Fee)
		update.Status = billingClient.BillStatusCancelled
	} else {
		update.Status = billingClient.BillStatusVoid
	}

	idempotencyKey := fmt.Sprintf("appointment-%d-cancel", appointmentID)
	if _, err := uc.billingClient.UpdateBill(ctx, bill.ID, update, idempotencyKey); err != nil {
		uc.logger.Error("CancelAppointment: bill update failed for id=%d, bill=%d: %v",
			appointmentID, bill.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrLedgerUpdateFailed, err)
	}

	// 6. Счёт изменён — фиксируем терминальный статус записи (compare-and-set по SCHEDULED)
	if err := uc.apptRepo.UpdateStatus(ctx, appointmentID, domain.StatusCancelled); err != nil {
		// Конкурирующий переход успел первым: терминальный статус не перезаписываем,
		// но счёт уже изменён — расхождение разрешается вручную по логу
		if errors.Is(err, apptRepo.ErrAppointmentNotScheduled) {
			uc.logger.Error("CancelAppointment: bill updated but appointment id=%d left SCHEDULED concurrently",
				appointmentID)
			return nil, ErrNotScheduled
		}
		uc.logger.Error("CancelAppointment: bill updated but status write failed for id=%d: %v",
			appointmentID, err)
		return nil, fmt.Errorf("%w: status update after ledger mutation: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelAppointment: successfully cancelled id=%d, refund=%s, fee=%.2f",
		appointmentID, outcome.RefundType, outcome.Fee)

	return &Response{
		RefundType: string(outcome.RefundType),
		Fee:        outcome.Fee,
	}, nil
}
