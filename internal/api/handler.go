package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"github.com/amnosapps/condominio-backend/internal/occupancy"
	"github.com/amnosapps/condominio-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	clock   occupancy.Clock
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, clock occupancy.Clock) *Handler {
	if clock == nil {
		clock = occupancy.RealClock{}
	}
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		clock:   clock,
	}
}
