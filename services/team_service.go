package services

import (
	"errors"

	"beerpong/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

type CreateTeamRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	UserIDs []uint `json:"user_ids" binding:"required,len=2"`
}

type UpdateTeamRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	UserIDs []uint `json:"user_ids" binding:"required,len=2"`
}

func (s *TeamService) GetTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Preload("Users").Order("name").Find(&teams).Error
	return teams, err
}

func (s *TeamService) GetTeamByID(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.Preload("Users").First(&team, teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("team not found")
		}
		return nil, err
	}
	return &team, nil
}

// GetUserTeams returns all teams the user is a member of.
func (s *TeamService) GetUserTeams(userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.Preload("Users").
		Where("id IN (?)", s.db.Table("team_user").Select("team_id").Where("user_id = ?", userID)).
		Find(&teams).Error
	return teams, err
}

// CreateTeam creates a team of two users. The creating user must be
// one of the members.
func (s *TeamService) CreateTeam(userID uint, req *CreateTeamRequest) (*models.Team, error) {
	if req.UserIDs[0] == req.UserIDs[1] {
		return nil, errors.New("team members must be distinct")
	}
	if req.UserIDs[0] != userID && req.UserIDs[1] != userID {
		return nil, errors.New("you can only create teams that you are a member of")
	}

	var users []models.User
	if err := s.db.Where("id IN ?", req.UserIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != 2 {
		return nil, errors.New("unknown user in user_ids")
	}

	var existing models.Team
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, errors.New("team name already taken")
	}

	team := models.Team{Name: req.Name}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return tx.Model(&team).Association("Users").Append(&users)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTeamByID(team.ID)
}

// UpdateTeam renames a team and replaces its members. Only members
// may update their team.
func (s *TeamService) UpdateTeam(teamID, userID uint, req *UpdateTeamRequest) (*models.Team, error) {
	team, err := s.GetTeamByID(teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasUser(userID) {
		return nil, errors.New("you can only update teams that you are a member of")
	}

	var users []models.User
	if err := s.db.Where("id IN ?", req.UserIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != 2 {
		return nil, errors.New("unknown user in user_ids")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		team.Name = req.Name
		if err := tx.Save(team).Error; err != nil {
			return err
		}
		return tx.Model(team).Association("Users").Replace(&users)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTeamByID(team.ID)
}

// DeleteTeam removes a team. Only members may delete their team.
func (s *TeamService) DeleteTeam(teamID, userID uint) error {
	team, err := s.GetTeamByID(teamID)
	if err != nil {
		return err
	}
	if !team.HasUser(userID) {
		return errors.New("you can only delete teams that you are a member of")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(team).Association("Users").Clear(); err != nil {
			return err
		}
		return tx.Delete(team).Error
	})
}
