package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/Domenick1991/etnair/internal/repository"
	authservice "github.com/Domenick1991/etnair/internal/service/auth"
	"github.com/Domenick1991/etnair/internal/service/listings"
	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	service listings.ListingUseCase
	auth    authservice.AuthUseCase
}

func NewListingHandler(service listings.ListingUseCase, auth authservice.AuthUseCase) *ListingHandler {
	return &ListingHandler{service: service, auth: auth}
}

func (h *ListingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)

	authed := router.Group("", AuthRequired(h.auth))
	authed.POST("/", h.create)
	authed.GET("/mine", h.listMine)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id/active", h.setActive)
	authed.DELETE("/:id", h.delete)
}

type listingResponse struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	OwnerName   string `json:"owner_name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Capacity    int    `json:"capacity"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
}

type listingDetailResponse struct {
	listingResponse
	OwnerEmail    string          `json:"owner_email"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
	BookedRanges  []rangeResponse `json:"booked_ranges"`
}

type rangeResponse struct {
	ArriveAt string `json:"arrive_at"`
	LeaveAt  string `json:"leave_at"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		OwnerName:   l.OwnerName,
		Title:       l.Title,
		Description: l.Description,
		Category:    string(l.Category),
		PriceCents:  l.PriceCents,
		City:        l.City,
		Address:     l.Address,
		Capacity:    l.Capacity,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
}

func toListingResponses(items []domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(items))
	for i := range items {
		out = append(out, toListingResponse(&items[i]))
	}
	return out
}

// list serves the cached catalog when no filters are present, otherwise a
// filtered search. Both orderings are id descending.
func (h *ListingHandler) list(c *gin.Context) {
	filter := repository.ListingFilter{
		City:     c.Query("city"),
		Category: domain.ListingCategory(c.Query("category")),
	}
	filter.MinPriceCents, _ = strconv.ParseInt(c.Query("min_price"), 10, 64)
	filter.MaxPriceCents, _ = strconv.ParseInt(c.Query("max_price"), 10, 64)
	filter.Capacity, _ = strconv.Atoi(c.Query("capacity"))

	var (
		result []domain.Listing
		err    error
	)
	if filter == (repository.ListingFilter{}) {
		result, err = h.service.Catalog(c.Request.Context())
	} else {
		result, err = h.service.Search(c.Request.Context(), filter)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponses(result))
}

func (h *ListingHandler) get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := listingDetailResponse{
		listingResponse: toListingResponse(&detail.Listing),
		OwnerEmail:      detail.Listing.OwnerEmail,
		AverageRating:   detail.Rating.Average,
		ReviewCount:     detail.Rating.Count,
		BookedRanges:    make([]rangeResponse, 0, len(detail.BookedRanges)),
	}
	for _, r := range detail.BookedRanges {
		resp.BookedRanges = append(resp.BookedRanges, rangeResponse{
			ArriveAt: r.ArriveAt.Format(time.RFC3339),
			LeaveAt:  r.LeaveAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) create(c *gin.Context) {
	var req listings.ListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := actor(c)
	created, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toListingResponse(created))
}

func (h *ListingHandler) update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req listings.ListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, role := actor(c)
	updated, err := h.service.Update(c.Request.Context(), id, actorID, role, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(updated))
}

func (h *ListingHandler) setActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, role := actor(c)
	if err := h.service.SetActive(c.Request.Context(), id, actorID, role, req.Active); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": req.Active})
}

func (h *ListingHandler) delete(c *gin.Context) {
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

func (h *ListingHandler) listMine(c *gin.Context) {
	actorID, _ := actor(c)
	owned, err := h.service.ListByOwner(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponses(owned))
}
