package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	svc service.BookingService
	loc *time.Location
}

func NewAdminHandler(svc service.BookingService, loc *time.Location) *AdminHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AdminHandler{svc: svc, loc: loc}
}

// RegisterRoutes expects g to already require the admin role.
func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/bookings", h.ListBookings)
	g.PATCH("/bookings/:id/approve", h.ApproveBooking)
	g.PATCH("/bookings/:id/reject", h.RejectBooking)
}

func (h *AdminHandler) ListBookings(c echo.Context) error {
	bookings, err := h.svc.GetAllBookings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings, h.loc))
}

func (h *AdminHandler) ApproveBooking(c echo.Context) error {
	booking, err := h.svc.ApproveBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking, h.loc))
}

func (h *AdminHandler) RejectBooking(c echo.Context) error {
	booking, err := h.svc.RejectBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking, h.loc))
}
