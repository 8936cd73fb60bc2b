package handlers

import (
	"net/http"

	"github.com/AMurtezaj/door-management-system-sub000/internal/repositories"
	"github.com/AMurtezaj/door-management-system-sub000/pkg/utils"
)

// CustomerHandler is a thin read surface; customers are created implicitly
// when orders come in.
type CustomerHandler struct {
	customers *repositories.CustomerRepository
}

func NewCustomerHandler(customers *repositories.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

// Search matches customers by phone substring, for the order form's lookup.
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "phone query parameter is required"})
		return
	}

	customers, err := h.customers.SearchByPhone(r.Context(), phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}
