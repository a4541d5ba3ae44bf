package billingservice

// BillStatus статус счёта в BillingService
type BillStatus string

const (
	BillStatusOpen      BillStatus = "OPEN"
	BillStatusCancelled BillStatus = "CANCELLED"
	BillStatusVoid      BillStatus = "VOID"
	BillStatusCharged   BillStatus = "CHARGED"
)

// Bill модель счёта из BillingService
type Bill struct {
	ID            int64      `json:"bill_id"`
	AppointmentID int64      `json:"appointment_id"`
	PatientID     int64      `json:"patient_id"`
	Amount        float64    `json:"amount"`
	Status        BillStatus `json:"status"`
}

// UpdateBillRequest запрос на изменение счёта
// Amount опционален: при полном возврате сумма не меняется
type UpdateBillRequest struct {
	Amount *float64   `json:"amount,omitempty"`
	Status BillStatus `json:"status"`
}

// ErrorResponse модель ошибки от BillingService
type ErrorResponse struct {
	Error string `json:"error"`
}
