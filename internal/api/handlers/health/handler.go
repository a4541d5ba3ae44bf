package health

import (
	"database/sql"
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
)

type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
