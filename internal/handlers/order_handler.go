package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AMurtezaj/door-management-system-sub000/internal/cache"
	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/services"
	"github.com/AMurtezaj/door-management-system-sub000/pkg/utils"
)

type OrderHandler struct {
	orders     *services.OrderService
	reschedule *services.RescheduleService
}

func NewOrderHandler(orders *services.OrderService, reschedule *services.RescheduleService) *OrderHandler {
	return &OrderHandler{orders: orders, reschedule: reschedule}
}

// pathID extracts a numeric path variable.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", models.ErrValidation, name)
	}
	return id, nil
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateOrderViews(r.Context())
	utils.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

// ListByDay serves the production day view, cached for a few minutes.
func (h *OrderHandler) ListByDay(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	key := cache.DayViewKey(date)
	if data, ok := cache.GetCached(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	orders, err := h.orders.ListOrdersByDay(r.Context(), date)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if data, err := json.Marshal(orders); err == nil {
		cache.Cache(r.Context(), key, data)
	}
	utils.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListByMeasurementStatus(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrdersByMeasurementStatus(r.Context(), mux.Vars(r)["status"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

// ListDebts serves outstanding orders by debt type: /orders/debts?type=cash
func (h *OrderHandler) ListDebts(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListDebts(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) DebtSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.DebtSummary(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.orders.UpdateOrder(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateOrderViews(r.Context())
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateOrderViews(r.Context())
	cache.InvalidateCapacityList(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func (h *OrderHandler) SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.PaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.orders.SetPaidInFull(r.Context(), id, req.PaidInFull)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) AddPartialPayment(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.orders.AddPartialPayment(r.Context(), id, req.Amount, req.Receiver)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelPartialPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.CancelPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.orders.CancelPartialPayment(r.Context(), id, req.Amount)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

// Reschedule moves an order to another production day. When the target day
// has no headroom the response is a 409 carrying alternative dates.
func (h *OrderHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.reschedule.Reschedule(r.Context(), id, &req)
	if err != nil {
		if result != nil && (errors.Is(err, models.ErrCapacityExhausted) || errors.Is(err, models.ErrCapacityUndefined)) {
			utils.JSON(w, http.StatusConflict, map[string]any{
				"error":        err.Error(),
				"alternatives": result.Alternatives,
			})
			return
		}
		utils.Error(w, err)
		return
	}
	cache.InvalidateOrderViews(r.Context())
	utils.JSON(w, http.StatusOK, result.Order)
}
