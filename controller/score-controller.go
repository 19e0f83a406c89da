package controller

import (
	"strconv"
	"time"

	"cruxed/app_error"
	"cruxed/repository"
	"cruxed/service"
	"cruxed/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScoreController struct {
	scoreService *service.ScoreService
	compService  *service.CompService
	userService  *service.UserService
}

func NewScoreController(db *gorm.DB) *ScoreController {
	return &ScoreController{
		scoreService: service.NewScoreService(db),
		compService:  service.NewCompService(db),
		userService:  service.NewUserService(db),
	}
}

func setupScoreController(db *gorm.DB) []RouteInfo {
	e := NewScoreController(db)
	basePath := "/comps/:comp_id"
	routes := []RouteInfo{
		{Method: "GET", Path: "/scores", HandlerFunc: e.getScoresHandler(), Authenticated: true},
		{Method: "POST", Path: "/participants/:participant_id/scores", HandlerFunc: e.submitScoreHandler()},
		{Method: "PUT", Path: "/participants/:participant_id/scores/:climb_id", HandlerFunc: e.overrideScoreHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/participants/:participant_id/scores/:climb_id", HandlerFunc: e.withdrawScoreHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Lists the scores submitted in a comp, newest first.
// @Description Filterable by participant.
// @Tags score
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param participant_id query int false "Participant Id"
// @Success 200 {array} ScoreResponse
// @Router /comps/{comp_id}/scores [get]
func (e *ScoreController) getScoresHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromAuthHeader(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		var participantId *int
		if participantIdStr := c.Query("participant_id"); participantIdStr != "" {
			id, err := strconv.Atoi(participantIdStr)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			participantId = &id
		}
		scores, err := e.scoreService.GetScoresForComp(compId, participantId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(scores, toScoreResponse))
	}
}

// @Description Submits a score for a climb. The submitting device must own the
// @Description participant; resubmitting replaces the previous score for the
// @Description climb.
// @Tags score
// @Accept json
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Param participant_id path int true "Participant Id"
// @Param x-device-id header string true "Device Id"
// @Param score body ScoreSubmit true "Score to submit"
// @Success 201 {object} ScoreResponse
// @Router /comps/{comp_id}/participants/{participant_id}/scores [post]
func (e *ScoreController) submitScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		participantId, err := strconv.Atoi(c.Param("participant_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		deviceId := c.GetHeader("x-device-id")
		if deviceId == "" {
			c.JSON(400, gin.H{"error": "x-device-id header is required"})
			return
		}
		var scoreSubmit ScoreSubmit
		if err := c.BindJSON(&scoreSubmit); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		score, err := e.scoreService.SubmitScore(compId, participantId, scoreSubmit.ClimbId, scoreSubmit.Attempts, scoreSubmit.Topped, &deviceId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toScoreResponse(score))
	}
}

// @Description Writes a score on a participant's behalf. Skips the closing
// @Description date and device checks; admin only.
// @Tags score
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param participant_id path int true "Participant Id"
// @Param climb_id path int true "Climb Id"
// @Param score body ScoreOverride true "Score to write"
// @Success 200 {object} ScoreResponse
// @Router /comps/{comp_id}/participants/{participant_id}/scores/{climb_id} [put]
func (e *ScoreController) overrideScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromAuthHeader(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		participantId, err := strconv.Atoi(c.Param("participant_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		climbId, err := strconv.Atoi(c.Param("climb_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		var scoreOverride ScoreOverride
		if err := c.BindJSON(&scoreOverride); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		score, err := e.scoreService.SubmitScoreOverride(compId, participantId, climbId, scoreOverride.Attempts, scoreOverride.Topped)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toScoreResponse(score))
	}
}

// @Description Clears a participant's score for a climb. The entry stays in
// @Description listings with zero points; admin only.
// @Tags score
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param participant_id path int true "Participant Id"
// @Param climb_id path int true "Climb Id"
// @Success 200 {object} ScoreResponse
// @Router /comps/{comp_id}/participants/{participant_id}/scores/{climb_id} [delete]
func (e *ScoreController) withdrawScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromAuthHeader(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		participantId, err := strconv.Atoi(c.Param("participant_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		climbId, err := strconv.Atoi(c.Param("climb_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		score, err := e.scoreService.WithdrawScore(compId, participantId, climbId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toScoreResponse(score))
	}
}

type ScoreSubmit struct {
	ClimbId  int  `json:"climb_id" binding:"required"`
	Attempts int  `json:"attempts" binding:"required"`
	Topped   bool `json:"topped"`
}

type ScoreOverride struct {
	Attempts int  `json:"attempts" binding:"required"`
	Topped   bool `json:"topped"`
}

type ScoreResponse struct {
	Id            int            `json:"id"`
	ParticipantId int            `json:"participant_id"`
	ClimbId       int            `json:"climb_id"`
	Climb         *ClimbResponse `json:"climb,omitempty"`
	Attempts      int            `json:"attempts"`
	Topped        bool           `json:"topped"`
	Points        int            `json:"points"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func toScoreResponse(score *repository.Score) *ScoreResponse {
	if score == nil {
		return nil
	}
	return &ScoreResponse{
		Id:            score.Id,
		ParticipantId: score.ParticipantId,
		ClimbId:       score.ClimbId,
		Climb:         toClimbResponse(score.Climb),
		Attempts:      score.Attempts,
		Topped:        score.Topped,
		Points:        score.Points,
		CreatedAt:     score.CreatedAt,
		UpdatedAt:     score.UpdatedAt,
	}
}
