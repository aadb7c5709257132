package handlers

import (
	"net/http"

	"meditravel/middleware"
	"meditravel/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateBookingHandler records a pending booking for the caller.
func (h *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	logger := getLogger(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.BookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	booking, err := h.Bookings.CreateBooking(identity.UserID, req)
	if err != nil {
		logger.Error("Booking creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBookingHandler returns one of the caller's bookings.
func (h *HandlerBundle) GetBookingHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	booking, err := h.Bookings.GetBooking(identity.UserID, c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookingsHandler returns all of the caller's bookings.
func (h *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	bookings, err := h.Bookings.ListBookings(identity.UserID)
	if err != nil {
		getLogger(c).Error("Booking listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBookingHandler cancels one of the caller's pending bookings.
func (h *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	booking, err := h.Bookings.CancelBooking(identity.UserID, c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}
