package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"beerpong/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
	hub         *services.Hub
}

func NewGameHandler(gameService *services.GameService, hub *services.Hub) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		hub:         hub,
	}
}

// CreateGame starts a new game between two users or two teams.
func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(userID.(uint), &req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, game)
}

// MatchHistory returns one page of per-game summaries for a user.
func (h *GameHandler) MatchHistory(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "15"))

	entries, pagination, err := h.gameService.GetMatchHistoryPage(uint(userID), page, perPage)
	if err != nil {
		if errors.Is(err, services.ErrNotParticipant) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"games":      entries,
		"pagination": pagination,
	})
}

// Live returns the live snapshot of a game: participants, latest
// ledger entry and per-user throw statistics.
func (h *GameHandler) Live(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	state, err := h.gameService.GetLiveGameState(gameID)
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
		return
	}

	isParticipant := false
	if userID, exists := c.Get("user_id"); exists {
		isParticipant, _ = h.gameService.IsUserInGame(gameID, userID.(uint))
	}

	c.JSON(http.StatusOK, gin.H{
		"game":           state,
		"is_participant": isParticipant,
		"subscribers":    h.hub.SubscriberCount(gameID),
	})
}

// ThrowStatistics returns one user's throw statistics for a game.
func (h *GameHandler) ThrowStatistics(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	stats, err := h.gameService.GetThrowStatistics(gameID, uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
