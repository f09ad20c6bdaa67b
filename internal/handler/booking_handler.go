package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
	loc *time.Location
}

func NewBookingHandler(svc service.BookingService, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BookingHandler{svc: svc, loc: loc}
}

// RegisterRoutes expects g to already require an authenticated user.
func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateBooking)
	g.GET("", h.ListBookings)
	g.GET("/:id", h.GetBooking)
	g.GET("/:id/can-cancel", h.CanCancel)
	g.DELETE("/:id", h.CancelBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), middleware.UserID(c), service.CreateBookingInput{
		Date:           req.Date,
		Time:           req.Time,
		NumberOfPeople: req.NumberOfPeople,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking, h.loc))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.svc.GetUserBookings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings, h.loc))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.svc.GetBookingByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if booking.UserID != middleware.UserID(c) {
		return apperrors.Forbidden("Forbidden")
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking, h.loc))
}

func (h *BookingHandler) CanCancel(c echo.Context) error {
	check, err := h.svc.CanCancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToCanCancelResponse(check))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	booking, err := h.svc.CancelBooking(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking, h.loc))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return c.Validate(req)
}
