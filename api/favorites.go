package api

import (
	"net/http"

	authservice "github.com/Domenick1991/etnair/internal/service/auth"
	"github.com/Domenick1991/etnair/internal/service/favorites"
	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	service favorites.FavoriteUseCase
	auth    authservice.AuthUseCase
}

func NewFavoriteHandler(service favorites.FavoriteUseCase, auth authservice.AuthUseCase) *FavoriteHandler {
	return &FavoriteHandler{service: service, auth: auth}
}

func (h *FavoriteHandler) Register(router *gin.RouterGroup) {
	router.GET("/listing/:listingID/count", h.count)

	authed := router.Group("", AuthRequired(h.auth))
	authed.POST("/listing/:listingID/toggle", h.toggle)
	authed.GET("/", h.listMine)
}

func (h *FavoriteHandler) toggle(c *gin.Context) {
	listingID, err := pathID(c, "listingID")
	if err != nil {
		return
	}

	actorID, _ := actor(c)
	isFavorite, err := h.service.Toggle(c.Request.Context(), actorID, listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": isFavorite})
}

func (h *FavoriteHandler) listMine(c *gin.Context) {
	actorID, _ := actor(c)
	items, err := h.service.ListByUser(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *FavoriteHandler) count(c *gin.Context) {
	listingID, err := pathID(c, "listingID")
	if err != nil {
		return
	}

	count, err := h.service.CountByListing(c.Request.Context(), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
