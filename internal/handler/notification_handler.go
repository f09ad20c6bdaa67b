package handler

import (
	"net/http"
	"strconv"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

const headerUnreadCount = "X-Unread-Count"

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// RegisterRoutes expects g to already require an authenticated user.
func (h *NotificationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListNotifications)
	g.PATCH("/read-all", h.MarkAllAsRead)
	g.PATCH("/:id/read", h.MarkAsRead)
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	notifications, err := h.svc.GetUserNotifications(ctx, userID)
	if err != nil {
		return err
	}
	unread, err := h.svc.UnreadCount(ctx, userID)
	if err != nil {
		return err
	}

	c.Response().Header().Set(headerUnreadCount, strconv.FormatInt(unread, 10))
	return c.JSON(http.StatusOK, dto.ToNotificationResponses(notifications))
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	n, err := h.svc.MarkAsRead(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToNotificationResponse(n))
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.svc.MarkAllAsRead(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}
