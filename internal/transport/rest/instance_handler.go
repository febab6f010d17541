package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"

	"github.com/google/uuid"
)

type InstanceHandler struct {
	svc domain.InstanceService
	log logger.Logger
}

func NewInstanceHandler(svc domain.InstanceService, log logger.Logger) *InstanceHandler {
	return &InstanceHandler{
		svc: svc,
		log: log,
	}
}

func (h *InstanceHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	opts := domain.ListOptions{
		Page:       page,
		Limit:      limit,
		Search:     q.Get("search"),
		IsPaginate: q.Get("paginate") == "true",
	}

	result, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.log.Error("instances: list failed", "error", err)
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    result.Data,
		Meta:    result.Meta,
	})
}

func (h *InstanceHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req domain.InstanceSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	instance, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.log.Error("instances: create failed", "error", err)
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusCreated, APIResponse{
		Message: "Instance created successfully",
		Data:    instance,
	})
}

func (h *InstanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	instanceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		JSONError(w, http.StatusNotFound, "Instance not found")
		return
	}

	var req domain.InstanceSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	instance, err := h.svc.Update(r.Context(), req, instanceID)
	if err != nil {
		if errors.Is(err, domain.ErrInstanceNotFound) {
			JSONError(w, http.StatusNotFound, "Instance not found")
			return
		}

		h.log.Error("instances: update failed", "instance_id", instanceID, "error", err)
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Instance updated successfully",
		Data:    instance,
	})
}

func (h *InstanceHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	instanceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		JSONError(w, http.StatusNotFound, "Instance not found")
		return
	}

	if err := h.svc.Delete(r.Context(), instanceID); err != nil {
		if errors.Is(err, domain.ErrInstanceNotFound) {
			JSONError(w, http.StatusNotFound, "Instance not found")
			return
		}

		h.log.Error("instances: delete failed", "instance_id", instanceID, "error", err)
		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Instance deleted successfully",
	})
}
