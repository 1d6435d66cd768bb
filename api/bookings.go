package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/etnair/internal/domain"
	authservice "github.com/Domenick1991/etnair/internal/service/auth"
	"github.com/Domenick1991/etnair/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	auth    authservice.AuthUseCase
}

func NewBookingHandler(service booking.BookingUseCase, auth authservice.AuthUseCase) *BookingHandler {
	return &BookingHandler{service: service, auth: auth}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	// Availability is public; everything else belongs to an actor.
	router.POST("/check-availability", h.checkAvailability)

	authed := router.Group("", AuthRequired(h.auth))
	authed.POST("/", h.create)
	authed.GET("/", h.listMine)
	authed.GET("/received", h.listReceived)
	authed.GET("/listing/:listingID", h.listByListing)
	authed.GET("/:id", h.get)
	authed.PUT("/:id", h.transition)
	authed.DELETE("/:id", h.delete)
}

type createBookingRequest struct {
	ListingID  int64     `json:"listing_id"`
	ArriveAt   time.Time `json:"arrive_at"`
	LeaveAt    time.Time `json:"leave_at"`
	GuestCount int       `json:"guest_count"`
	Title      string    `json:"title"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type availabilityRequest struct {
	ListingID int64     `json:"listing_id"`
	ArriveAt  time.Time `json:"arrive_at"`
	LeaveAt   time.Time `json:"leave_at"`
}

type bookingResponse struct {
	ID              int64  `json:"id"`
	Reference       string `json:"reference"`
	ListingID       int64  `json:"listing_id"`
	RequesterID     int64  `json:"requester_id"`
	Title           string `json:"title"`
	ArriveAt        string `json:"arrive_at"`
	LeaveAt         string `json:"leave_at"`
	GuestCount      int    `json:"guest_count"`
	TotalPriceCents int64  `json:"total_price_cents"`
	Status          string `json:"status"`
	City            string `json:"city"`
	Address         string `json:"address"`
	ContactHost     string `json:"contact_host"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		ListingID:       b.ListingID,
		RequesterID:     b.RequesterID,
		Title:           b.Title,
		ArriveAt:        b.ArriveAt.Format(time.RFC3339),
		LeaveAt:         b.LeaveAt.Format(time.RFC3339),
		GuestCount:      b.GuestCount,
		TotalPriceCents: b.TotalPriceCents,
		Status:          string(b.Status),
		City:            b.City,
		Address:         b.Address,
		ContactHost:     b.ContactHost,
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := actor(c)
	created, err := h.service.Create(c.Request.Context(), booking.CreateBookingInput{
		RequesterID: actorID,
		ListingID:   req.ListingID,
		ArriveAt:    req.ArriveAt,
		LeaveAt:     req.LeaveAt,
		GuestCount:  req.GuestCount,
		Title:       req.Title,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) checkAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), req.ListingID, req.ArriveAt, req.LeaveAt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	actorID, role := actor(c)
	found, err := h.service.GetByID(c.Request.Context(), id, actorID, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) transition(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, role := actor(c)
	updated, err := h.service.Transition(c.Request.Context(), id, actorID, role, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	actorID, role := actor(c)
	if err := h.service.Delete(c.Request.Context(), id, actorID, role); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) listMine(c *gin.Context) {
	actorID, _ := actor(c)
	bookings, err := h.service.ListByRequester(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) listReceived(c *gin.Context) {
	actorID, _ := actor(c)
	bookings, err := h.service.ListReceived(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) listByListing(c *gin.Context) {
	listingID, err := pathID(c, "listingID")
	if err != nil {
		return
	}

	bookings, err := h.service.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, err
	}
	return id, nil
}
