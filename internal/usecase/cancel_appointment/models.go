package cancel_appointment

// Response результат отмены записи
type Response struct {
	RefundType string  // "full" | "partial"
	Fee        float64 // Удержанная сумма (0 при полном возврате)
}
