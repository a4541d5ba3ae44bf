package doctorservice

// Doctor модель врача из DoctorService
type Doctor struct {
	ID             int64  `json:"doctor_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
}

// ErrorResponse модель ошибки от DoctorService
type ErrorResponse struct {
	Error string `json:"error"`
}
