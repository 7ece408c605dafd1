package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"beerpong/services"

	"github.com/gin-gonic/gin"
)

type GameUpdateHandler struct {
	gameUpdateService *services.GameUpdateService
	gameService       *services.GameService
	hub               *services.Hub
}

func NewGameUpdateHandler(gameUpdateService *services.GameUpdateService, gameService *services.GameService, hub *services.Hub) *GameUpdateHandler {
	return &GameUpdateHandler{
		gameUpdateService: gameUpdateService,
		gameService:       gameService,
		hub:               hub,
	}
}

// Store appends a game update. The editing user must be a participant
// of the game; the game must not be ended.
func (h *GameUpdateHandler) Store(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	editorInGame, err := h.gameService.IsUserInGame(gameID, userID.(uint))
	if err != nil {
		writeGameUpdateError(c, err)
		return
	}
	if !editorInGame {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to edit this game"})
		return
	}

	var req services.CreateGameUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update, err := h.gameUpdateService.CreateGameUpdate(gameID, &req, h.hub)
	if err != nil {
		writeGameUpdateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, update)
}

// Latest returns the highest-id update of the game.
func (h *GameUpdateHandler) Latest(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	update, err := h.gameUpdateService.Latest(gameID)
	if err != nil {
		writeGameUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, update)
}

// DeleteLatest removes the highest-id update of the game (undo).
func (h *GameUpdateHandler) DeleteLatest(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	update, err := h.gameUpdateService.DeleteLatest(gameID, h.hub)
	if err != nil {
		writeGameUpdateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Latest game update deleted", "update": update})
}

func parseGameID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
		return 0, false
	}
	return uint(id), true
}

func writeGameUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoGameUpdates):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGameEnded):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvariantViolation):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
