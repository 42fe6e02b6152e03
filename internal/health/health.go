package health

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/abbasrizvi-lab/todoapp/internal/errors"
)

// Pinger is the store connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response is the healthz body. The shape is part of the API contract.
type Response struct {
	Status       string `json:"status"`
	DBConnection string `json:"db_connection"`
}

type Handler struct {
	pinger       Pinger
	checkTimeout time.Duration
}

func NewHandler(pinger Pinger) *Handler {
	return &Handler{
		pinger:       pinger,
		checkTimeout: 5 * time.Second,
	}
}

// Healthz reports 200 only when the document store answers a ping.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		return apperrors.DatabaseError("database connection failed").WithCause(err)
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, Response{
		Status:       "ok",
		DBConnection: "ok",
	})
	return nil
}
