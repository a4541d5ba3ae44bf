package mark_no_show

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("mark_no_show: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("mark_no_show: appointment not found")

	// ErrNotScheduled возвращается при попытке отметить неявку для записи в терминальном статусе
	ErrNotScheduled = errors.New("mark_no_show: appointment is not in scheduled state")

	// ErrGracePeriodActive возвращается, когда grace period после начала слота ещё не истёк
	ErrGracePeriodActive = errors.New("mark_no_show: grace period is still active")

	// ErrBillNotFound возвращается, когда для записи нет счёта
	ErrBillNotFound = errors.New("mark_no_show: no bill associated with appointment")

	// ErrLedgerUpdateFailed возвращается, когда BillingService не принял списание.
	// Статус записи при этом не меняется.
	ErrLedgerUpdateFailed = errors.New("mark_no_show: ledger update failed")

	// ErrGatewayUnavailable возвращается, когда внешний сервис недоступен или не ответил вовремя
	ErrGatewayUnavailable = errors.New("mark_no_show: upstream service unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("mark_no_show: internal error")
)
