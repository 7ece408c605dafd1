package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"beerpong/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type GameService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewGameService(db *gorm.DB, redis *redis.Client) *GameService {
	return &GameService{
		db:    db,
		redis: redis,
	}
}

type CreateGameRequest struct {
	IsSolo  bool            `json:"is_solo"`
	Type    models.GameType `json:"type" binding:"required"`
	UserIDs []uint          `json:"user_ids"`
	TeamIDs []uint          `json:"team_ids"`
}

// UserGameEntry is the identity and per-game outcome of one user in
// a match history entry. Result and CupsLeft are nil for users shown
// inside a team, the outcome lives at the team level there.
type UserGameEntry struct {
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	Result   *models.GameResult `json:"result"`
	CupsLeft *int               `json:"cups_left"`
}

type TeamGameEntry struct {
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	Result   *models.GameResult `json:"result"`
	CupsLeft *int               `json:"cups_left"`
	Users    []UserGameEntry    `json:"users"`
}

// MatchHistoryEntry is the per-viewer summary of one game: the game
// attributes, the viewer's throw statistics and both participants
// resolved into primary (the viewer's side) and secondary (opponent).
type MatchHistoryEntry struct {
	ID            uint            `json:"id"`
	IsSolo        bool            `json:"is_solo"`
	Type          models.GameType `json:"type"`
	IsEnded       bool            `json:"is_ended"`
	TotalThrows   int             `json:"total_throws"`
	Hits          int             `json:"hits"`
	HitRate       float64         `json:"hit_rate"`
	EdgeHits      int             `json:"edge_hits"`
	EdgeHitRate   float64         `json:"edge_hit_rate"`
	Misses        int             `json:"misses"`
	MissRate      float64         `json:"miss_rate"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	PrimaryUser   *UserGameEntry  `json:"primary_user"`
	SecondaryUser *UserGameEntry  `json:"secondary_user"`
	PrimaryTeam   *TeamGameEntry  `json:"primary_team"`
	SecondaryTeam *TeamGameEntry  `json:"secondary_team"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	LastPage     int   `json:"lastPage"`
	PerPage      int   `json:"perPage"`
	Total        int64 `json:"total"`
	From         int   `json:"from"`
	To           int   `json:"to"`
	HasMorePages bool  `json:"hasMorePages"`
}

// CreateGame creates a game with exactly two participants attached at
// the starting cup count for the game type. The creating user must be
// one of the participants (solo) or a member of one of the teams.
func (s *GameService) CreateGame(userID uint, req *CreateGameRequest) (*models.Game, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown game type %q", ErrValidation, req.Type)
	}

	if req.IsSolo {
		if len(req.UserIDs) != 2 || req.UserIDs[0] == req.UserIDs[1] {
			return nil, fmt.Errorf("%w: solo games need exactly 2 distinct users", ErrValidation)
		}
		if req.UserIDs[0] != userID && req.UserIDs[1] != userID {
			return nil, errors.New("you can only create games that you are a participant of")
		}
		var count int64
		if err := s.db.Model(&models.User{}).Where("id IN ?", req.UserIDs).Count(&count).Error; err != nil {
			return nil, err
		}
		if count != 2 {
			return nil, fmt.Errorf("%w: unknown user in user_ids", ErrValidation)
		}
	} else {
		if len(req.TeamIDs) != 2 || req.TeamIDs[0] == req.TeamIDs[1] {
			return nil, fmt.Errorf("%w: team games need exactly 2 distinct teams", ErrValidation)
		}
		var teams []models.Team
		if err := s.db.Preload("Users").Where("id IN ?", req.TeamIDs).Find(&teams).Error; err != nil {
			return nil, err
		}
		if len(teams) != 2 {
			return nil, fmt.Errorf("%w: unknown team in team_ids", ErrValidation)
		}
		creatorInTeam := false
		for _, team := range teams {
			if team.HasUser(userID) {
				creatorInTeam = true
				break
			}
		}
		if !creatorInTeam {
			return nil, errors.New("you can only create games with teams you are a member of")
		}
	}

	game := &models.Game{
		Type:    req.Type,
		IsSolo:  req.IsSolo,
		IsEnded: false,
	}

	cupsLeft := req.Type.StartingCups()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(game).Error; err != nil {
			return err
		}

		if req.IsSolo {
			for _, id := range req.UserIDs {
				cups := cupsLeft
				link := models.GameUser{
					GameID:   game.ID,
					UserID:   id,
					CupsLeft: &cups,
				}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}
			return nil
		}

		for _, id := range req.TeamIDs {
			cups := cupsLeft
			link := models.GameTeam{
				GameID:   game.ID,
				TeamID:   id,
				CupsLeft: &cups,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return game, nil
}

// GetGameByID loads a game with participants and ledger preloaded.
func (s *GameService) GetGameByID(gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.
		Preload("Users.User").
		Preload("Teams.Team.Users").
		Preload("GameUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_updates.id ASC")
		}).
		First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// GetMatchHistoryPage returns one page of match history entries for
// the user, newest games first, with pagination metadata.
func (s *GameService) GetMatchHistoryPage(userID uint, page, perPage int) ([]MatchHistoryEntry, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("user not found")
		}
		return nil, nil, err
	}

	userGames := s.db.Model(&models.GameUser{}).Select("game_id").Where("user_id = ?", userID)
	userTeams := s.db.Table("team_user").Select("team_id").Where("user_id = ?", userID)
	teamGames := s.db.Model(&models.GameTeam{}).Select("game_id").Where("team_id IN (?)", userTeams)

	query := s.db.Model(&models.Game{}).
		Where("id IN (?) OR id IN (?)", userGames, teamGames)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var games []models.Game
	err := query.
		Preload("Users.User").
		Preload("Teams.Team.Users").
		Preload("GameUpdates").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&games).Error
	if err != nil {
		return nil, nil, err
	}

	entries := make([]MatchHistoryEntry, 0, len(games))
	for i := range games {
		entry, err := BuildMatchHistoryEntry(&games[i], &user)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, *entry)
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	pagination := &Pagination{
		CurrentPage:  page,
		LastPage:     lastPage,
		PerPage:      perPage,
		Total:        total,
		HasMorePages: page < lastPage,
	}
	if len(entries) > 0 {
		pagination.From = (page-1)*perPage + 1
		pagination.To = (page-1)*perPage + len(entries)
	}

	return entries, pagination, nil
}

// BuildMatchHistoryEntry composes the per-viewer summary of one game.
// The game must be preloaded with participants and its ledger. The
// viewing user must be a participant of the game.
func BuildMatchHistoryEntry(game *models.Game, user *models.User) (*MatchHistoryEntry, error) {
	stats := ComputeThrowStatistics(game.GameUpdates, user.ID)

	entry := &MatchHistoryEntry{
		ID:          game.ID,
		IsSolo:      game.IsSolo,
		Type:        game.Type,
		IsEnded:     game.IsEnded,
		TotalThrows: stats.Total,
		Hits:        stats.Hits,
		HitRate:     stats.HitRate,
		EdgeHits:    stats.EdgeHits,
		EdgeHitRate: stats.EdgeHitRate,
		Misses:      stats.Misses,
		MissRate:    stats.MissRate,
		CreatedAt:   game.CreatedAt,
		UpdatedAt:   game.UpdatedAt,
	}

	if game.IsSolo {
		var primary, secondary *models.GameUser
		for i := range game.Users {
			if game.Users[i].UserID == user.ID {
				primary = &game.Users[i]
			} else if secondary == nil {
				secondary = &game.Users[i]
			}
		}
		if primary == nil {
			return nil, ErrNotParticipant
		}

		entry.PrimaryUser = userGameEntry(primary)
		if secondary != nil {
			entry.SecondaryUser = userGameEntry(secondary)
		}
		return entry, nil
	}

	var primary, secondary *models.GameTeam
	for i := range game.Teams {
		if game.Teams[i].Team.HasUser(user.ID) {
			primary = &game.Teams[i]
			break
		}
	}
	if primary == nil {
		return nil, ErrNotParticipant
	}
	for i := range game.Teams {
		if game.Teams[i].TeamID != primary.TeamID {
			secondary = &game.Teams[i]
			break
		}
	}

	entry.PrimaryTeam = teamGameEntry(primary)
	if secondary != nil {
		entry.SecondaryTeam = teamGameEntry(secondary)
	}
	return entry, nil
}

func userGameEntry(link *models.GameUser) *UserGameEntry {
	return &UserGameEntry{
		ID:       link.UserID,
		Name:     link.User.Name,
		Result:   link.Result,
		CupsLeft: link.CupsLeft,
	}
}

func teamGameEntry(link *models.GameTeam) *TeamGameEntry {
	users := make([]UserGameEntry, 0, len(link.Team.Users))
	for _, u := range link.Team.Users {
		// Individual users in team games carry no result or cup
		// count, the outcome lives on the team link.
		users = append(users, UserGameEntry{
			ID:   u.ID,
			Name: u.Name,
		})
	}

	return &TeamGameEntry{
		ID:       link.TeamID,
		Name:     link.Team.Name,
		Result:   link.Result,
		CupsLeft: link.CupsLeft,
		Users:    users,
	}
}

// GetThrowStatistics loads the game's ledger and computes the throw
// statistics for one user.
func (s *GameService) GetThrowStatistics(gameID, userID uint) (GameThrowStatistics, error) {
	var updates []models.GameUpdate
	err := s.db.Where("game_id = ?", gameID).Find(&updates).Error
	if err != nil {
		return GameThrowStatistics{}, err
	}
	return ComputeThrowStatistics(updates, userID), nil
}

// LiveGameState is the snapshot served to the live game view and
// pushed to clients asking for a state sync. Cached in redis, rebuilt
// from the database whenever the ledger changes.
type LiveGameState struct {
	GameID       uint                         `json:"game_id"`
	Type         models.GameType              `json:"type"`
	IsSolo       bool                         `json:"is_solo"`
	IsEnded      bool                         `json:"is_ended"`
	Users        []UserGameEntry              `json:"users,omitempty"`
	Teams        []TeamGameEntry              `json:"teams,omitempty"`
	LatestUpdate *models.GameUpdate           `json:"latest_update"`
	ThrowStats   map[uint]GameThrowStatistics `json:"throw_stats"`
}

// GetLiveGameState returns the live snapshot of a game, from redis
// when cached, otherwise rebuilt from the database and stored.
func (s *GameService) GetLiveGameState(gameID uint) (*LiveGameState, error) {
	if state := s.getCachedLiveState(gameID); state != nil {
		return state, nil
	}

	game, err := s.GetGameByID(gameID)
	if err != nil {
		return nil, err
	}

	state := &LiveGameState{
		GameID:     game.ID,
		Type:       game.Type,
		IsSolo:     game.IsSolo,
		IsEnded:    game.IsEnded,
		ThrowStats: map[uint]GameThrowStatistics{},
	}

	if game.IsSolo {
		for i := range game.Users {
			state.Users = append(state.Users, *userGameEntry(&game.Users[i]))
			state.ThrowStats[game.Users[i].UserID] = ComputeThrowStatistics(game.GameUpdates, game.Users[i].UserID)
		}
	} else {
		for i := range game.Teams {
			state.Teams = append(state.Teams, *teamGameEntry(&game.Teams[i]))
			for _, u := range game.Teams[i].Team.Users {
				state.ThrowStats[u.ID] = ComputeThrowStatistics(game.GameUpdates, u.ID)
			}
		}
	}

	if len(game.GameUpdates) > 0 {
		state.LatestUpdate = &game.GameUpdates[len(game.GameUpdates)-1]
	}

	s.storeLiveState(gameID, state)
	return state, nil
}

// IsUserInGame checks participation without loading the full ledger.
func (s *GameService) IsUserInGame(gameID, userID uint) (bool, error) {
	var game models.Game
	err := s.db.
		Preload("Users").
		Preload("Teams.Team.Users").
		First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrGameNotFound
		}
		return false, err
	}
	return game.IsUserInGame(userID), nil
}

func liveGameKey(gameID uint) string {
	return fmt.Sprintf("game:%d", gameID)
}

func (s *GameService) storeLiveState(gameID uint, state *LiveGameState) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("Failed to marshal live state for game %d: %v", gameID, err)
		return
	}

	if err := s.redis.Set(context.Background(), liveGameKey(gameID), data, 2*time.Hour).Err(); err != nil {
		log.Printf("Failed to store live state for game %d: %v", gameID, err)
	}
}

func (s *GameService) getCachedLiveState(gameID uint) *LiveGameState {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(context.Background(), liveGameKey(gameID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting live state for game %d: %v", gameID, err)
		}
		return nil
	}

	var state LiveGameState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		log.Printf("Failed to unmarshal live state for game %d: %v", gameID, err)
		return nil
	}
	return &state
}
