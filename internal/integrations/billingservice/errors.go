package billingservice

import "errors"

var (
	// ErrBillNotFound возвращается, когда счёт для записи не найден
	ErrBillNotFound = errors.New("billingservice client: bill not found")

	// ErrUpdateFailed возвращается, когда BillingService отклонил изменение счёта
	ErrUpdateFailed = errors.New("billingservice client: bill update failed")

	// ErrServiceUnavailable возвращается при сетевой ошибке или таймауте
	ErrServiceUnavailable = errors.New("billingservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("billingservice client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("billingservice client: internal error")
)
