package doctorservice

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("doctorservice client: doctor not found")

	// ErrServiceUnavailable возвращается при сетевой ошибке или таймауте
	ErrServiceUnavailable = errors.New("doctorservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("doctorservice client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("doctorservice client: internal error")
)
