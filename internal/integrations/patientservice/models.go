package patientservice

// Patient модель пациента из PatientService
type Patient struct {
	ID    int64  `json:"patient_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	DOB   string `json:"dob"`
}

// ErrorResponse модель ошибки от PatientService
type ErrorResponse struct {
	Error string `json:"error"`
}
