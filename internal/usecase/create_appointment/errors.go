package create_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("create_appointment: patient not found")

	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("create_appointment: doctor not found")

	// ErrDepartmentMismatch возвращается, когда департамент запроса не совпадает с департаментом врача
	ErrDepartmentMismatch = errors.New("create_appointment: department does not match doctor's department")

	// ErrSlotUnavailable возвращается, когда интервал пересекается с активной записью врача
	ErrSlotUnavailable = errors.New("create_appointment: slot is not available")

	// ErrGatewayUnavailable возвращается, когда внешний сервис недоступен или не ответил вовремя
	ErrGatewayUnavailable = errors.New("create_appointment: upstream service unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
