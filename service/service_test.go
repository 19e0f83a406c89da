package service

import (
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"cruxed/app_error"
	"cruxed/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
)

var db *gorm.DB

var enumQueries = []string{
	`CREATE TYPE cruxed.comp_status AS ENUM ('DRAFT', 'ACTIVE', 'COMPLETED')`,
}

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "DATABASE_NAME=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600) // Tell docker to hard kill the container in 10 minutes
	sqlInfo := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable search_path=cruxed",
		resource.GetPort("5432/tcp"))

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err := pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(sqlInfo), &gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				TablePrefix:   "cruxed.",
				SingularTable: false,
			},
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}
		db.Exec(`CREATE SCHEMA IF NOT EXISTS cruxed`)
		for _, query := range enumQueries {
			x := db.Exec(query)
			if x.Error != nil {
				if strings.Contains(x.Error.Error(), "already exists") {
					continue
				}
			}
		}
		return db.AutoMigrate(
			&repository.User{},
			&repository.Comp{},
			&repository.CoAdmin{},
			&repository.Category{},
			&repository.Climb{},
			&repository.Participant{},
			&repository.Score{},
		)
	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}
	}()
	m.Run()
}

func TearDown() {
	db.Exec("DELETE FROM cruxed.scores")
	db.Exec("DELETE FROM cruxed.participants")
	db.Exec("DELETE FROM cruxed.climbs")
	db.Exec("DELETE FROM cruxed.categories")
	db.Exec("DELETE FROM cruxed.co_admins")
	db.Exec("DELETE FROM cruxed.comps")
	db.Exec("DELETE FROM cruxed.users")
}

// SetUp creates an owner, an active comp with default categories and one climb
// using the comp's default point schedule.
func SetUp(t *testing.T) (*repository.User, *repository.Comp, *repository.Climb) {
	userService := NewUserService(db)
	owner, err := userService.Register("owner@example.com", "password123", "Owner")
	assert.Nil(t, err)

	compService := NewCompService(db)
	comp, err := compService.CreateComp(&repository.Comp{
		Name:                 "Spring Jam",
		OwnerId:              owner.Id,
		DefaultPointSchedule: repository.DefaultPointSchedule(),
	}, nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, repository.CompStatusDraft, comp.Status)
	_, err = compService.UpdateComp(comp.Id, owner.Id, func(c *repository.Comp) error {
		return compService.ChangeStatus(c, repository.CompStatusActive)
	})
	assert.Nil(t, err)
	comp, err = compService.GetCompById(comp.Id, "Categories")
	assert.Nil(t, err)

	climbService := NewClimbService(db)
	climb, err := climbService.CreateClimb(comp.Id, "Slab One", 1, 0, nil)
	assert.Nil(t, err)
	return owner, comp, climb
}

func join(t *testing.T, comp *repository.Comp, name string) (*repository.Participant, string) {
	deviceId := uuid.NewString()
	participant, err := NewParticipantService(db).Join(comp.Id, name, deviceId, comp.Categories[0].Id)
	assert.Nil(t, err)
	return participant, deviceId
}

func TestCreateCompDefaults(t *testing.T) {
	TearDown()
	_, comp, _ := SetUp(t)
	assert.Len(t, comp.Categories, 2)
	assert.Equal(t, "Open A Male", comp.Categories[0].Name)
	assert.Equal(t, "Open A Female", comp.Categories[1].Name)
	assert.Len(t, comp.Code, 3)
	for _, c := range comp.Code {
		assert.Contains(t, "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789", string(c))
	}
}

func TestStatusTransitionsAreForwardOnly(t *testing.T) {
	TearDown()
	owner, comp, _ := SetUp(t)
	compService := NewCompService(db)

	_, err := compService.UpdateComp(comp.Id, owner.Id, func(c *repository.Comp) error {
		return compService.ChangeStatus(c, repository.CompStatusDraft)
	})
	assert.True(t, app_error.IsKind(err, app_error.KindCompetitionNotActive))

	_, err = compService.UpdateComp(comp.Id, owner.Id, func(c *repository.Comp) error {
		return compService.ChangeStatus(c, repository.CompStatusCompleted)
	})
	assert.Nil(t, err)
}

func TestJoinIsIdempotentPerDevice(t *testing.T) {
	TearDown()
	_, comp, _ := SetUp(t)
	participantService := NewParticipantService(db)

	participant, deviceId := join(t, comp, "Alice")

	// same device joins again under a new name in a different category
	again, err := participantService.Join(comp.Id, "Alicia", deviceId, comp.Categories[1].Id)
	assert.Nil(t, err)
	assert.Equal(t, participant.Id, again.Id)
	assert.Equal(t, "Alicia", again.DisplayName)
	// the category assignment from the first join sticks
	assert.Equal(t, comp.Categories[0].Id, again.CategoryId)

	participants, err := participantService.GetParticipantsForComp(comp.Id, nil)
	assert.Nil(t, err)
	assert.Len(t, participants, 1)
}

func TestJoinValidation(t *testing.T) {
	TearDown()
	owner, comp, _ := SetUp(t)
	participantService := NewParticipantService(db)

	_, err := participantService.Join(comp.Id, "Bob", "not-a-uuid", comp.Categories[0].Id)
	assert.True(t, app_error.IsKind(err, app_error.KindValidation))

	_, err = participantService.Join(comp.Id, "  ", uuid.NewString(), comp.Categories[0].Id)
	assert.True(t, app_error.IsKind(err, app_error.KindValidation))

	_, err = participantService.Join(comp.Id, "Bob", uuid.NewString(), 99999)
	assert.True(t, app_error.IsKind(err, app_error.KindValidation))

	compService := NewCompService(db)
	_, err = compService.UpdateComp(comp.Id, owner.Id, func(c *repository.Comp) error {
		return compService.ChangeStatus(c, repository.CompStatusCompleted)
	})
	assert.Nil(t, err)
	_, err = participantService.Join(comp.Id, "Bob", uuid.NewString(), comp.Categories[0].Id)
	assert.True(t, app_error.IsKind(err, app_error.KindCompetitionNotActive))
}

func TestSubmitScoreReplacesPriorScore(t *testing.T) {
	TearDown()
	_, comp, climb := SetUp(t)
	scoreService := NewScoreService(db)
	participant, deviceId := join(t, comp, "Alice")

	score, err := scoreService.SubmitScore(comp.Id, participant.Id, climb.Id, 1, true, &deviceId)
	assert.Nil(t, err)
	assert.Equal(t, 1000, score.Points)

	// logging again overwrites, it never accumulates
	score, err = scoreService.SubmitScore(comp.Id, participant.Id, climb.Id, 3, true, &deviceId)
	assert.Nil(t, err)
	assert.Equal(t, 600, score.Points)

	scores, err := scoreService.GetScoresForParticipant(comp.Id, participant.Id)
	assert.Nil(t, err)
	assert.Len(t, scores, 1)
	assert.Equal(t, 3, scores[0].Attempts)
}

func TestSubmitScoreChecks(t *testing.T) {
	TearDown()
	owner, comp, climb := SetUp(t)
	scoreService := NewScoreService(db)
	participant, deviceId := join(t, comp, "Alice")

	_, err := scoreService.SubmitScore(comp.Id, participant.Id, climb.Id, 0, true, &deviceId)
	assert.True(t, app_error.IsKind(err, app_error.KindValidation))

	_, err = scoreService.SubmitScore(comp.Id, participant.Id, 99999, 1, true, &deviceId)
	assert.True(t, app_error.IsKind(err, app_error.KindNotFound))

	_, err = scoreService.SubmitScore(comp.Id, 99999, climb.Id, 1, true, &deviceId)
	assert.True(t, app_error.IsKind(err, app_error.KindNotFound))

	otherDevice := uuid.NewString()
	_, err = scoreService.SubmitScore(comp.Id, participant.Id, climb.Id, 1, true, &otherDevice)
	assert.True(t, app_error.IsKind(err, app_error.KindForbidden))

	// past closing date shuts participant logging down but not admin overrides
	compService := NewCompService(db)
	closed := time.Now().Add(-time.Hour)
	_, err = compService.UpdateComp(comp.Id, owner.Id, func(c *repository.Comp) error {
		c.ClosesAt = &closed
		return nil
	})
	assert.Nil(t, err)
	_, err = scoreService.SubmitScore(comp.Id, participant.Id, climb.Id, 1, true, &deviceId)
	assert.True(t, app_error.IsKind(err, app_error.KindLoggingClosed))

	score, err := scoreService.SubmitScoreOverride(comp.Id, participant.Id, climb.Id, 2, true)
	assert.Nil(t, err)
	assert.Equal(t, 800, score.Points)
}

func TestWithdrawKeepsRowWithZeroPoints(t *testing.T) {
	TearDown()
	_, comp, climb := SetUp(t)
	scoreService := NewScoreService(db)
	participant, deviceId := join(t, comp, "Alice")

	_, err := scoreService.SubmitScore(comp.Id, participant.Id, climb.Id, 2, true, &deviceId)
	assert.Nil(t, err)

	score, err := scoreService.WithdrawScore(comp.Id, participant.Id, climb.Id)
	assert.Nil(t, err)
	assert.False(t, score.Topped)
	assert.Equal(t, 0, score.Points)

	scores, err := scoreService.GetScoresForParticipant(comp.Id, participant.Id)
	assert.Nil(t, err)
	assert.Len(t, scores, 1)
}

func TestLeaderboard(t *testing.T) {
	TearDown()
	_, comp, climb := SetUp(t)
	climbService := NewClimbService(db)
	climb2, err := climbService.CreateClimb(comp.Id, "Roof Crack", 2, 1, nil)
	assert.Nil(t, err)

	scoreService := NewScoreService(db)
	alice, aliceDevice := join(t, comp, "Alice")
	bob, bobDevice := join(t, comp, "Bob")
	carol, carolDevice := join(t, comp, "Carol")

	// Alice: two flashes
	_, err = scoreService.SubmitScore(comp.Id, alice.Id, climb.Id, 1, true, &aliceDevice)
	assert.Nil(t, err)
	_, err = scoreService.SubmitScore(comp.Id, alice.Id, climb2.Id, 1, true, &aliceDevice)
	assert.Nil(t, err)
	// Bob: one flash, one top in 2
	_, err = scoreService.SubmitScore(comp.Id, bob.Id, climb.Id, 1, true, &bobDevice)
	assert.Nil(t, err)
	_, err = scoreService.SubmitScore(comp.Id, bob.Id, climb2.Id, 2, true, &bobDevice)
	assert.Nil(t, err)
	// Carol: attempted but never topped, scores zero and does not rank above the rest
	_, err = scoreService.SubmitScore(comp.Id, carol.Id, climb.Id, 5, false, &carolDevice)
	assert.Nil(t, err)

	leaderboardService := NewLeaderboardService(db)
	entries, err := leaderboardService.GetLeaderboard(comp.Id, nil)
	assert.Nil(t, err)
	assert.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Alice", entries[0].DisplayName)
	assert.Equal(t, 2000, entries[0].TotalPoints)
	assert.Equal(t, 2, entries[0].ClimbsTopped)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Bob", entries[1].DisplayName)
	assert.Equal(t, 1800, entries[1].TotalPoints)

	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, "Carol", entries[2].DisplayName)
	assert.Equal(t, 0, entries[2].TotalPoints)
	assert.Equal(t, 0, entries[2].TotalAttempts)
}

func TestLeaderboardTieBreakByAttempts(t *testing.T) {
	TearDown()
	_, comp, climb := SetUp(t)
	climbService := NewClimbService(db)
	climb2, err := climbService.CreateClimb(comp.Id, "Roof Crack", 2, 1, nil)
	assert.Nil(t, err)

	scoreService := NewScoreService(db)
	alice, aliceDevice := join(t, comp, "Alice")
	bob, bobDevice := join(t, comp, "Bob")

	// both flash the first climb; on the second both land on the minimum
	// points plateau, so points and tops tie but Bob used fewer attempts
	_, err = scoreService.SubmitScore(comp.Id, alice.Id, climb.Id, 1, true, &aliceDevice)
	assert.Nil(t, err)
	_, err = scoreService.SubmitScore(comp.Id, alice.Id, climb2.Id, 7, true, &aliceDevice)
	assert.Nil(t, err)
	_, err = scoreService.SubmitScore(comp.Id, bob.Id, climb.Id, 1, true, &bobDevice)
	assert.Nil(t, err)
	_, err = scoreService.SubmitScore(comp.Id, bob.Id, climb2.Id, 5, true, &bobDevice)
	assert.Nil(t, err)

	leaderboardService := NewLeaderboardService(db)
	entries, err := leaderboardService.GetLeaderboard(comp.Id, nil)
	assert.Nil(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, entries[0].TotalPoints, entries[1].TotalPoints)
	assert.Equal(t, "Bob", entries[0].DisplayName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestCategoryCannotBeDeletedWhileReferenced(t *testing.T) {
	TearDown()
	_, comp, _ := SetUp(t)
	categoryService := NewCategoryService(db)
	join(t, comp, "Alice")

	err := categoryService.DeleteCategory(comp.Id, comp.Categories[0].Id)
	assert.True(t, app_error.IsKind(err, app_error.KindConflict))

	err = categoryService.DeleteCategory(comp.Id, comp.Categories[1].Id)
	assert.Nil(t, err)
}

func TestCoAdmins(t *testing.T) {
	TearDown()
	owner, comp, _ := SetUp(t)
	userService := NewUserService(db)
	compService := NewCompService(db)

	helper, err := userService.Register("helper@example.com", "password123", "Helper")
	assert.Nil(t, err)

	_, err = compService.AddCoAdmin(comp.Id, owner.Id, "owner@example.com")
	assert.True(t, app_error.IsKind(err, app_error.KindConflict))

	coAdmin, err := compService.AddCoAdmin(comp.Id, owner.Id, "helper@example.com")
	assert.Nil(t, err)
	assert.Equal(t, helper.Id, coAdmin.UserId)

	_, err = compService.AddCoAdmin(comp.Id, owner.Id, "helper@example.com")
	assert.True(t, app_error.IsKind(err, app_error.KindConflict))

	// co-admins see the comp but only the owner manages co-admins
	_, err = compService.GetCompForAdmin(comp.Id, helper.Id)
	assert.Nil(t, err)
	_, err = compService.AddCoAdmin(comp.Id, helper.Id, "owner@example.com")
	assert.True(t, app_error.IsKind(err, app_error.KindForbidden))

	err = compService.RemoveCoAdmin(comp.Id, owner.Id, helper.Id)
	assert.Nil(t, err)
	_, err = compService.GetCompForAdmin(comp.Id, helper.Id)
	assert.True(t, app_error.IsKind(err, app_error.KindForbidden))
}

func TestLookupByNameResolvesEarliestCreated(t *testing.T) {
	TearDown()
	_, comp, _ := SetUp(t)
	participantService := NewParticipantService(db)

	first, _ := join(t, comp, "Alice")
	join(t, comp, "alice")

	found, err := participantService.LookupByName(comp.Id, "ALICE")
	assert.Nil(t, err)
	assert.Equal(t, first.Id, found.Id)

	_, err = participantService.LookupByName(comp.Id, "Nobody")
	assert.True(t, app_error.IsKind(err, app_error.KindNotFound))
}

func TestLookupByCodeOnlyResolvesActiveComps(t *testing.T) {
	TearDown()
	owner, comp, _ := SetUp(t)
	compService := NewCompService(db)

	found, err := compService.LookupByCode(strings.ToLower(comp.Code))
	assert.Nil(t, err)
	assert.Equal(t, comp.Id, found.Id)

	_, err = compService.UpdateComp(comp.Id, owner.Id, func(c *repository.Comp) error {
		return compService.ChangeStatus(c, repository.CompStatusCompleted)
	})
	assert.Nil(t, err)
	_, err = compService.LookupByCode(comp.Code)
	assert.True(t, app_error.IsKind(err, app_error.KindNotFound))
}
