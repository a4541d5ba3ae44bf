package patientservice

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("patientservice client: patient not found")

	// ErrServiceUnavailable возвращается при сетевой ошибке или таймауте
	ErrServiceUnavailable = errors.New("patientservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("patientservice client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("patientservice client: internal error")
)
