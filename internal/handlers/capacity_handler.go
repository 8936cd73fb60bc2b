package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AMurtezaj/door-management-system-sub000/internal/cache"
	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/services"
	"github.com/AMurtezaj/door-management-system-sub000/pkg/utils"
)

type CapacityHandler struct {
	capacities *services.CapacityService
}

func NewCapacityHandler(capacities *services.CapacityService) *CapacityHandler {
	return &CapacityHandler{capacities: capacities}
}

func (h *CapacityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	capacity, err := h.capacities.CreateCapacity(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateCapacityList(r.Context())
	utils.JSON(w, http.StatusCreated, capacity)
}

func (h *CapacityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.UpdateCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	capacity, err := h.capacities.UpdateCapacity(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateCapacityList(r.Context())
	utils.JSON(w, http.StatusOK, capacity)
}

// List serves all capacity definitions, cached for a few minutes.
func (h *CapacityHandler) List(w http.ResponseWriter, r *http.Request) {
	if data, ok := cache.GetCached(r.Context(), cache.CapacityListKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	capacities, err := h.capacities.ListCapacities(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	if data, err := json.Marshal(capacities); err == nil {
		cache.Cache(r.Context(), cache.CapacityListKey, data)
	}
	utils.JSON(w, http.StatusOK, capacities)
}

func (h *CapacityHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	capacity, err := h.capacities.GetCapacityByDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, capacity)
}

// CheckAvailability reports whether a product type fits on a day:
// GET /capacities/{date}/availability?product_type=garage_door
func (h *CapacityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	productType := r.URL.Query().Get("product_type")

	available, err := h.capacities.CheckAvailability(r.Context(), date, productType)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"date":         date,
		"product_type": productType,
		"available":    available,
	})
}
