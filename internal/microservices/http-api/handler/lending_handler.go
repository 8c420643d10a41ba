package handler

import (
	"context"
	"net/http"
	"time"

	"libmanage/internal/microservices/http-api/dto"
	"libmanage/internal/microservices/http-api/middleware"
	"libmanage/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type LendingHandler struct {
	lending service.LendingService
	now     service.Clock
}

func NewLendingHandler(lending service.LendingService, clock service.Clock) *LendingHandler {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &LendingHandler{lending: lending, now: clock}
}

// RegisterRoutes mounts the lending endpoints. throttle runs in front of the
// mutating ones.
func (h *LendingHandler) RegisterRoutes(rg *gin.RouterGroup, throttle ...gin.HandlerFunc) {
	mutate := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, throttle...), hf)
	}

	books := rg.Group("/books/:book_id")
	books.POST("/borrow", mutate(h.Borrow)...)
	books.POST("/return", mutate(h.Return)...)
	books.POST("/reserve", mutate(h.Reserve)...)

	rg.DELETE("/reservations/:reservation_id", mutate(h.CancelReservation)...)

	me := rg.Group("/me")
	me.GET("/borrowings", h.Current)
	me.GET("/history", h.History)
	me.GET("/reservations", h.Reservations)

	rg.POST("/admin/scan-overdue", middleware.RequireAdmin(), h.ScanOverdue)
}

// Borrow lends one copy to the caller
// POST /api/books/:book_id/borrow
func (h *LendingHandler) Borrow(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	var req dto.BorrowRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	borrowing, err := h.lending.Borrow(ctx, userID, bookID, req.LoanDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromBorrowing(*borrowing, h.now()))
}

// Return closes the caller's oldest open borrowing of the book
// POST /api/books/:book_id/return
func (h *LendingHandler) Return(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	borrowing, err := h.lending.Return(ctx, userID, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBorrowing(*borrowing, h.now()))
}

// POST /api/books/:book_id/reserve
func (h *LendingHandler) Reserve(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	reservation, err := h.lending.Reserve(ctx, userID, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromReservation(*reservation))
}

// DELETE /api/reservations/:reservation_id
func (h *LendingHandler) CancelReservation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.lending.CancelReservation(ctx, userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/me/borrowings
func (h *LendingHandler) Current(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.lending.CurrentBorrowings(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.FromBorrowings(list, h.now())})
}

// GET /api/me/history
func (h *LendingHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.lending.History(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.FromBorrowings(list, h.now())})
}

// GET /api/me/reservations?open=true
func (h *LendingHandler) Reservations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	openOnly := c.Query("open") == "true"

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.lending.Reservations(ctx, userID, openOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.FromReservations(list)})
}

// ScanOverdue runs one reminder pass on demand
// POST /api/admin/scan-overdue
func (h *LendingHandler) ScanOverdue(c *gin.Context) {
	var req dto.ScanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	at := h.now()
	if req.At != nil {
		at = req.At.UTC()
	}

	// a scan touches every open borrowing, give it more room
	ctx, cancel := context.WithTimeout(c.Request.Context(), 6*requestTimeout)
	defer cancel()

	summary, err := h.lending.ScanOverdue(ctx, at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
