package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/services"
	"github.com/AMurtezaj/door-management-system-sub000/pkg/utils"
)

type SupplementHandler struct {
	supplements *services.SupplementService
}

func NewSupplementHandler(supplements *services.SupplementService) *SupplementHandler {
	return &SupplementHandler{supplements: supplements}
}

func (h *SupplementHandler) Create(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.CreateSupplementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	supplement, err := h.supplements.CreateSupplement(r.Context(), orderID, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, supplement)
}

func (h *SupplementHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	supplements, err := h.supplements.ListByOrder(r.Context(), orderID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, supplements)
}

func (h *SupplementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	supplement, err := h.supplements.GetSupplement(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, supplement)
}

func (h *SupplementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.UpdateSupplementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	supplement, err := h.supplements.UpdateSupplement(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, supplement)
}

func (h *SupplementHandler) AddPartialPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.PartialPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	supplement, err := h.supplements.AddPartialPayment(r.Context(), id, req.Amount)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, supplement)
}

func (h *SupplementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.supplements.DeleteSupplement(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "supplementary order deleted"})
}
