package mark_no_show

// Response результат фиксации неявки
type Response struct {
	FeeCharged float64 // Списанная сумма (100% счёта)
}
