package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"beerpong/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// GameUpdateService owns the per-game update ledger and the state
// engine that derives cup counts and win/loss results from it.
type GameUpdateService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewGameUpdateService(db *gorm.DB, redis *redis.Client) *GameUpdateService {
	return &GameUpdateService{
		db:    db,
		redis: redis,
	}
}

type CreateGameUpdateRequest struct {
	UserID               *uint                 `json:"user_id"`
	Type                 models.GameUpdateType `json:"type" binding:"required"`
	SelfCupPositions     []int                 `json:"self_cup_positions"`
	OpponentCupPositions []int                 `json:"opponent_cup_positions"`
	SelfCupsLeft         int                   `json:"self_cups_left" binding:"min=0"`
	OpponentCupsLeft     int                   `json:"opponent_cups_left" binding:"min=0"`
	AffectedCup          *int                  `json:"affected_cup"`
}

// CreateGameUpdate appends one update to a game's ledger and applies
// its effects to both participant links. When a side reaches zero
// cups the game is ended and results are assigned; ledger entry,
// links and the ended flag commit as one transaction. The broadcast
// fires only after a successful commit.
func (s *GameUpdateService) CreateGameUpdate(gameID uint, req *CreateGameUpdateRequest, hub *Hub) (*models.GameUpdate, error) {
	game, err := s.loadGame(gameID)
	if err != nil {
		return nil, err
	}

	if game.IsEnded {
		return nil, ErrGameEnded
	}

	if req.UserID != nil && !game.IsUserInGame(*req.UserID) {
		return nil, ErrNotParticipant
	}

	if err := validateGameUpdate(game, req); err != nil {
		return nil, err
	}

	update := &models.GameUpdate{
		GameID:               game.ID,
		UserID:               req.UserID,
		Type:                 req.Type,
		SelfCupPositions:     req.SelfCupPositions,
		OpponentCupPositions: req.OpponentCupPositions,
		SelfCupsLeft:         req.SelfCupsLeft,
		OpponentCupsLeft:     req.OpponentCupsLeft,
		AffectedCup:          req.AffectedCup,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(update).Error; err != nil {
			return err
		}

		// Neutral updates (no thrower) are recorded in the ledger but
		// never move cups or end the game.
		if update.UserID == nil {
			return nil
		}

		if err := applyCupsToLinks(game, update); err != nil {
			return err
		}

		if updateEndsGame(update) {
			if err := assignResults(game); err != nil {
				return err
			}
			game.IsEnded = true
			if err := tx.Model(game).Update("is_ended", true).Error; err != nil {
				return err
			}
		}

		for i := range game.Users {
			if err := tx.Model(&game.Users[i]).
				Select("cups_left", "result").
				Updates(map[string]interface{}{
					"cups_left": game.Users[i].CupsLeft,
					"result":    game.Users[i].Result,
				}).Error; err != nil {
				return err
			}
		}
		for i := range game.Teams {
			if err := tx.Model(&game.Teams[i]).
				Select("cups_left", "result").
				Updates(map[string]interface{}{
					"cups_left": game.Teams[i].CupsLeft,
					"result":    game.Teams[i].Result,
				}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("Game update creation failed for game %d: %v", gameID, err)
		return nil, err
	}

	s.invalidateLiveState(game.ID)

	if hub != nil {
		hub.BroadcastGameUpdate(update, true)
	}

	return update, nil
}

// DeleteLatest removes the highest-id update of the game. Undoing the
// update that ended a game does not reset the ended flag or results.
func (s *GameUpdateService) DeleteLatest(gameID uint, hub *Hub) (*models.GameUpdate, error) {
	latest, err := s.Latest(gameID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(latest).Error; err != nil {
		return nil, err
	}

	s.invalidateLiveState(gameID)

	if hub != nil {
		hub.BroadcastGameUpdate(latest, false)
	}

	return latest, nil
}

// Latest returns the highest-id update of the game.
func (s *GameUpdateService) Latest(gameID uint) (*models.GameUpdate, error) {
	var update models.GameUpdate
	err := s.db.Where("game_id = ?", gameID).Order("id DESC").First(&update).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGameUpdates
		}
		return nil, err
	}
	return &update, nil
}

// AllFor returns the full ledger of the game in ascending id order.
func (s *GameUpdateService) AllFor(gameID uint) ([]models.GameUpdate, error) {
	var updates []models.GameUpdate
	err := s.db.Where("game_id = ?", gameID).Order("id ASC").Find(&updates).Error
	return updates, err
}

func (s *GameUpdateService) loadGame(gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.
		Preload("Users").
		Preload("Teams.Team.Users").
		First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (s *GameUpdateService) invalidateLiveState(gameID uint) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(context.Background(), liveGameKey(gameID)).Err(); err != nil {
		log.Printf("Failed to invalidate live state for game %d: %v", gameID, err)
	}
}

// updateEndsGame reports whether the update triggers the end of the
// game. Only updates with a thrower can end a game.
func updateEndsGame(update *models.GameUpdate) bool {
	if update.UserID == nil {
		return false
	}
	return update.SelfCupsLeft == 0 || update.OpponentCupsLeft == 0
}

// applyCupsToLinks writes the update's cup counts onto both
// participant links. The thrower's own side gets self_cups_left, the
// other side opponent_cups_left. For team games the thrower's side is
// the team the thrower belongs to.
func applyCupsToLinks(game *models.Game, update *models.GameUpdate) error {
	selfCups := update.SelfCupsLeft
	opponentCups := update.OpponentCupsLeft

	if game.IsSolo {
		for i := range game.Users {
			if game.Users[i].UserID == *update.UserID {
				game.Users[i].CupsLeft = &selfCups
			} else {
				game.Users[i].CupsLeft = &opponentCups
			}
		}
		return nil
	}

	for i := range game.Teams {
		if game.Teams[i].Team.HasUser(*update.UserID) {
			game.Teams[i].CupsLeft = &selfCups
		} else {
			game.Teams[i].CupsLeft = &opponentCups
		}
	}
	return nil
}

// assignResults marks the participant link with zero cups as the
// loser and every other link as the winner. A negative cup count at
// this point is a broken invariant and aborts the operation.
func assignResults(game *models.Game) error {
	for i := range game.Users {
		result, err := resultForCups(game.Users[i].CupsLeft)
		if err != nil {
			return err
		}
		game.Users[i].Result = result
	}
	for i := range game.Teams {
		result, err := resultForCups(game.Teams[i].CupsLeft)
		if err != nil {
			return err
		}
		game.Teams[i].Result = result
	}
	return nil
}

func resultForCups(cupsLeft *int) (*models.GameResult, error) {
	if cupsLeft == nil {
		return nil, fmt.Errorf("%w: cups left not initialized", ErrInvariantViolation)
	}

	var result models.GameResult
	switch {
	case *cupsLeft == 0:
		result = models.GameResultLoss
	case *cupsLeft > 0:
		result = models.GameResultWin
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvariantViolation, *cupsLeft)
	}
	return &result, nil
}

// validateGameUpdate checks the request shape against the game's cup
// count: positions and the affected cup must reference slots 1..N and
// the remaining counts can never exceed N.
func validateGameUpdate(game *models.Game, req *CreateGameUpdateRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrValidation, req.Type)
	}

	maxCups := game.Type.StartingCups()

	if req.SelfCupsLeft > maxCups || req.OpponentCupsLeft > maxCups {
		return fmt.Errorf("%w: cups left out of range for %s game", ErrValidation, game.Type)
	}

	for _, pos := range req.SelfCupPositions {
		if pos < 1 || pos > maxCups {
			return fmt.Errorf("%w: self cup position %d out of range", ErrValidation, pos)
		}
	}
	for _, pos := range req.OpponentCupPositions {
		if pos < 1 || pos > maxCups {
			return fmt.Errorf("%w: opponent cup position %d out of range", ErrValidation, pos)
		}
	}

	if req.AffectedCup != nil {
		if !req.Type.IsThrow() || req.Type == models.GameUpdateTypeMiss {
			return fmt.Errorf("%w: affected cup only applies to HIT and EDGE updates", ErrValidation)
		}
		if *req.AffectedCup < 1 || *req.AffectedCup > maxCups {
			return fmt.Errorf("%w: affected cup %d out of range", ErrValidation, *req.AffectedCup)
		}
	}

	return nil
}
