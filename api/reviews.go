package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/etnair/internal/domain"
	authservice "github.com/Domenick1991/etnair/internal/service/auth"
	"github.com/Domenick1991/etnair/internal/service/reviews"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service reviews.ReviewUseCase
	auth    authservice.AuthUseCase
}

func NewReviewHandler(service reviews.ReviewUseCase, auth authservice.AuthUseCase) *ReviewHandler {
	return &ReviewHandler{service: service, auth: auth}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	router.GET("/listing/:listingID", h.listByListing)
	router.GET("/listing/:listingID/rating", h.rating)

	authed := router.Group("", AuthRequired(h.auth))
	authed.POST("/", h.create)
	authed.GET("/mine", h.listMine)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

type reviewResponse struct {
	ID         int64  `json:"id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	ListingID  int64  `json:"listing_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:         r.ID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		ListingID:  r.ListingID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func toReviewResponses(items []domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(items))
	for i := range items {
		out = append(out, toReviewResponse(&items[i]))
	}
	return out
}

func (h *ReviewHandler) create(c *gin.Context) {
	var req reviews.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := actor(c)
	req.AuthorID = actorID
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(created))
}

func (h *ReviewHandler) update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}

	var req reviews.UpdateReviewInput
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
	c.JSON(http.StatusOK, toReviewResponse(updated))
}

func (h *ReviewHandler) delete(c *gin.Context) {
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

func (h *ReviewHandler) listByListing(c *gin.Context) {
	listingID, err := pathID(c, "listingID")
	if err != nil {
		return
	}

	items, err := h.service.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponses(items))
}

func (h *ReviewHandler) listMine(c *gin.Context) {
	actorID, _ := actor(c)
	items, err := h.service.ListByAuthor(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponses(items))
}

func (h *ReviewHandler) rating(c *gin.Context) {
	listingID, err := pathID(c, "listingID")
	if err != nil {
		return
	}

	summary, err := h.service.Rating(c.Request.Context(), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": summary.Average, "count": summary.Count})
}
