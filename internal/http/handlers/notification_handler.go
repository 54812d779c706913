// Notification HTTP handlers.
//
//   - GET   /notifications            (recent, newest first, bounded)
//   - PATCH /notifications/{id}/read  (mark one as read, recipient-scoped)
//
// Notifications are written only by the checkout transaction; these
// endpoints are the seller-facing read side.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rishabht13/TripPlanner/internal/http/middleware"
	"github.com/Rishabht13/TripPlanner/internal/services"
)

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List recent notifications for the caller
// @Description Newest first, bounded. Each entry carries the referenced ad's title/category and the order's total and payment reference when those still exist.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(admin1)
//
// @Success     200  {array}  services.NotificationView
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	notifs, err := h.notifSvc.ListRecent(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, notifs)
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark a notification as read
// @Description Flips the read flag on one of the caller's notifications. Notifications addressed to other recipients report not found.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(admin1)
// @Param       id         path    string  true  "Notification ID (UUID)"    format(uuid)
//
// @Success     200  {object} domain.Notification
// @Failure     404  {object} handlers.ErrorResponse "Notification not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications/{id}/read [patch]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	n, err := h.notifSvc.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "notification not found")
			return
		}
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, n)
}
