package handler

import (
	"net/http"

	"squadup/backend/internal/models"
	apperr "squadup/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// GetGames godoc
// @Summary      List supported games
// @Description  Lists the supported games with their modes and player ceilings.
// @Tags         games
// @Produce      json
// @Success      200 {array} catalog.GameInfo
// @Router       /games [get]
func (h *Handler) GetGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Games())
}

// GetGameByID godoc
// @Summary      Get a game
// @Description  Gets one supported game by its slug.
// @Tags         games
// @Produce      json
// @Param        id path string true "Game slug" Enums(cod-mobile, pubg-mobile, free-fire)
// @Success      200 {object} catalog.GameInfo
// @Failure      404 {object} ErrorResponse
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	info, ok := h.catalog.Lookup(models.Game(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "game not found", Code: apperr.CodeNotFound})
		return
	}
	c.JSON(http.StatusOK, info)
}
