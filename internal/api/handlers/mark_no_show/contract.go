package mark_no_show

import (
	"context"

	markNoShow "github.com/m04kA/HMS-AppointmentService/internal/usecase/mark_no_show"
)

type MarkNoShowUseCase interface {
	Execute(ctx context.Context, appointmentID int64) (*markNoShow.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
