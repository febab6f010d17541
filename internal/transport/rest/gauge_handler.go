package rest

import (
	"errors"
	"net/http"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"
	"horizonx-gauge/internal/storage/snapshot"

	"github.com/google/uuid"
)

type GaugeHandler struct {
	gauges    domain.GaugeService
	instances domain.InstanceService
	store     *snapshot.GaugeStore
	log       logger.Logger
}

func NewGaugeHandler(gauges domain.GaugeService, instances domain.InstanceService, store *snapshot.GaugeStore, log logger.Logger) *GaugeHandler {
	return &GaugeHandler{
		gauges:    gauges,
		instances: instances,
		store:     store,
		log:       log,
	}
}

type gaugesMeta struct {
	Polled bool `json:"polled"`
}

// Index returns the readings of the last completed poll. meta.polled is
// false until the first poll lands.
func (h *GaugeHandler) Index(w http.ResponseWriter, r *http.Request) {
	readings := h.store.Get()
	if readings == nil {
		readings = []domain.GaugeReading{}
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    readings,
		Meta:    gaugesMeta{Polled: h.store.Ready()},
	})
}

func (h *GaugeHandler) Show(w http.ResponseWriter, r *http.Request) {
	instanceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		JSONError(w, http.StatusNotFound, "Instance not found")
		return
	}

	reading, err := h.gauges.Latest(instanceID)
	if err != nil {
		if errors.Is(err, domain.ErrGaugeNotFound) {
			JSONError(w, http.StatusNotFound, "Gauge not found")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    reading,
	})
}

// Refresh polls the instance now instead of waiting for the next tick.
func (h *GaugeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	instanceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		JSONError(w, http.StatusNotFound, "Instance not found")
		return
	}

	instance, err := h.instances.GetByID(r.Context(), instanceID)
	if err != nil {
		if errors.Is(err, domain.ErrInstanceNotFound) {
			JSONError(w, http.StatusNotFound, "Instance not found")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	reading, err := h.gauges.Refresh(r.Context(), instance)
	if err != nil {
		h.log.Error("gauge: refresh failed", "instance_id", instanceID, "error", err)
		JSONError(w, http.StatusUnprocessableEntity, "Instance metrics source is not usable")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    reading,
	})
}
