package fixtures

import (
	"fmt"
	"log"
	"math/rand"

	"beerpong/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed inserts demo users, teams and a handful of finished games with
// a simulated update ledger. Safe to skip when data already exists.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Skipping seed, users already exist")
		return nil
	}

	users, err := seedUsers(db)
	if err != nil {
		return err
	}

	teams, err := seedTeams(db, users)
	if err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		if err := seedSoloGame(db, users[i], users[i+1]); err != nil {
			return err
		}
	}

	if err := seedTeamGame(db, teams[0], teams[1]); err != nil {
		return err
	}

	log.Println("Seeded demo users, teams and games")
	return nil
}

func seedUsers(db *gorm.DB) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 4)
	for i := range users {
		users[i] = models.User{
			Name:     fmt.Sprintf("player%d", i+1),
			Email:    fmt.Sprintf("player%d@example.com", i+1),
			Password: string(hash),
		}
	}

	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func seedTeams(db *gorm.DB, users []models.User) ([]models.Team, error) {
	teams := []models.Team{
		{Name: "Cup Crushers", Users: []models.User{users[0], users[1]}},
		{Name: "Splash Brothers", Users: []models.User{users[2], users[3]}},
	}

	if err := db.Create(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func seedSoloGame(db *gorm.DB, a, b models.User) error {
	game := models.Game{
		Type:   models.GameTypeTenCup,
		IsSolo: true,
	}
	if err := db.Create(&game).Error; err != nil {
		return err
	}

	cups := game.Type.StartingCups()
	for _, u := range []models.User{a, b} {
		start := cups
		link := models.GameUser{GameID: game.ID, UserID: u.ID, CupsLeft: &start}
		if err := db.Create(&link).Error; err != nil {
			return err
		}
	}

	throwers := []uint{a.ID, b.ID}
	return simulateLedger(db, &game, throwers, map[uint]int{a.ID: 0, b.ID: 1})
}

func seedTeamGame(db *gorm.DB, home, away models.Team) error {
	game := models.Game{
		Type:   models.GameTypeTenCup,
		IsSolo: false,
	}
	if err := db.Create(&game).Error; err != nil {
		return err
	}

	cups := game.Type.StartingCups()
	for _, t := range []models.Team{home, away} {
		start := cups
		link := models.GameTeam{GameID: game.ID, TeamID: t.ID, CupsLeft: &start}
		if err := db.Create(&link).Error; err != nil {
			return err
		}
	}

	var throwers []uint
	sides := map[uint]int{}
	for _, u := range home.Users {
		throwers = append(throwers, u.ID)
		sides[u.ID] = 0
	}
	for _, u := range away.Users {
		throwers = append(throwers, u.ID)
		sides[u.ID] = 1
	}

	return simulateLedger(db, &game, throwers, sides)
}

// simulateLedger writes a START marker and alternating throws until
// one side runs out of cups, then marks results directly the way the
// state engine would.
func simulateLedger(db *gorm.DB, game *models.Game, throwers []uint, sides map[uint]int) error {
	cups := game.Type.StartingCups()

	positions := [2][]int{makeRack(cups), makeRack(cups)}

	start := models.GameUpdate{
		GameID:               game.ID,
		Type:                 models.GameUpdateTypeStart,
		SelfCupPositions:     positions[0],
		OpponentCupPositions: positions[1],
		SelfCupsLeft:         cups,
		OpponentCupsLeft:     cups,
	}
	if err := db.Create(&start).Error; err != nil {
		return err
	}

	throwTypes := []models.GameUpdateType{
		models.GameUpdateTypeMiss,
		models.GameUpdateTypeEdge,
		models.GameUpdateTypeHit,
	}

	for i := 0; len(positions[0]) > 0 && len(positions[1]) > 0; i++ {
		userID := throwers[i%len(throwers)]
		self := sides[userID]
		opponent := 1 - self

		throwType := throwTypes[rand.Intn(len(throwTypes))]

		var affectedCup *int
		if throwType == models.GameUpdateTypeHit || throwType == models.GameUpdateTypeEdge {
			cup := positions[opponent][rand.Intn(len(positions[opponent]))]
			affectedCup = &cup
			if throwType == models.GameUpdateTypeHit {
				positions[opponent] = removeCup(positions[opponent], cup)
			}
		}

		thrower := userID
		update := models.GameUpdate{
			GameID:               game.ID,
			UserID:               &thrower,
			Type:                 throwType,
			SelfCupPositions:     positions[self],
			OpponentCupPositions: positions[opponent],
			SelfCupsLeft:         len(positions[self]),
			OpponentCupsLeft:     len(positions[opponent]),
			AffectedCup:          affectedCup,
		}
		if err := db.Create(&update).Error; err != nil {
			return err
		}
	}

	// Mark the outcome on the links and end the game.
	winner := 0
	if len(positions[0]) == 0 {
		winner = 1
	}

	if game.IsSolo {
		var links []models.GameUser
		if err := db.Where("game_id = ?", game.ID).Find(&links).Error; err != nil {
			return err
		}
		for i := range links {
			side := sides[links[i].UserID]
			if err := finishLink(db, &links[i], len(positions[side]), side == winner); err != nil {
				return err
			}
		}
	} else {
		var links []models.GameTeam
		if err := db.Where("game_id = ?", game.ID).Find(&links).Error; err != nil {
			return err
		}
		for i := range links {
			side := i
			if err := finishLink(db, &links[i], len(positions[side]), side == winner); err != nil {
				return err
			}
		}
	}

	return db.Model(game).Update("is_ended", true).Error
}

func finishLink(db *gorm.DB, link interface{}, cupsLeft int, won bool) error {
	result := models.GameResultLoss
	if won {
		result = models.GameResultWin
	}
	return db.Model(link).
		Updates(map[string]interface{}{"cups_left": cupsLeft, "result": result}).Error
}

func makeRack(cups int) []int {
	rack := make([]int, cups)
	for i := range rack {
		rack[i] = i + 1
	}
	return rack
}

func removeCup(rack []int, cup int) []int {
	out := make([]int, 0, len(rack))
	for _, c := range rack {
		if c != cup {
			out = append(out, c)
		}
	}
	return out
}
