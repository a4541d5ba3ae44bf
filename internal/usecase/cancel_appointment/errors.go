package cancel_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrNotScheduled возвращается при попытке отменить запись в терминальном статусе
	ErrNotScheduled = errors.New("cancel_appointment: appointment is not in scheduled state")

	// ErrBillNotFound возвращается, когда для записи нет счёта.
	// Это нарушение целостности данных, а не "бесплатная отмена": без счёта
	// отмену провести нельзя.
	ErrBillNotFound = errors.New("cancel_appointment: no bill associated with appointment")

	// ErrLedgerUpdateFailed возвращается, когда BillingService не принял изменение счёта.
	// Статус записи при этом не меняется.
	ErrLedgerUpdateFailed = errors.New("cancel_appointment: ledger update failed")

	// ErrGatewayUnavailable возвращается, когда внешний сервис недоступен или не ответил вовремя
	ErrGatewayUnavailable = errors.New("cancel_appointment: upstream service unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
