package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AMurtezaj/door-management-system-sub000/internal/services"
	"github.com/AMurtezaj/door-management-system-sub000/pkg/utils"
)

// NotificationHandler serves the notification inbox and the background-job
// control plane.
type NotificationHandler struct {
	notifications *services.NotificationService
	scheduler     *services.SchedulerService
}

func NewNotificationHandler(notifications *services.NotificationService, scheduler *services.SchedulerService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, scheduler: scheduler}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifications.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "notification marked read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkAllRead(r.Context()); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "all notifications marked read"})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.notifications.Delete(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}

func (h *NotificationHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.scheduler.Status())
}

func (h *NotificationHandler) StartJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.scheduler.StartJob(name); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "job " + name + " started"})
}

func (h *NotificationHandler) StopJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.scheduler.StopJob(name); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "job " + name + " stopped"})
}

// RunOverdueCheck triggers the overdue sweep outside its schedule.
func (h *NotificationHandler) RunOverdueCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.RunOverdueCheck(r.Context()); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "overdue check completed"})
}

// RunDebtReport triggers the debt report outside its schedule. The last-day
// guard still applies, so off-schedule triggers mid-month publish nothing.
func (h *NotificationHandler) RunDebtReport(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.RunDebtReport(r.Context()); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "debt report completed"})
}
