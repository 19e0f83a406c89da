package controller

import (
	"strconv"
	"time"

	"cruxed/app_error"
	"cruxed/repository"
	"cruxed/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ParticipantController struct {
	participantService *service.ParticipantService
	compService        *service.CompService
	userService        *service.UserService
}

func NewParticipantController(db *gorm.DB) *ParticipantController {
	return &ParticipantController{
		participantService: service.NewParticipantService(db),
		compService:        service.NewCompService(db),
		userService:        service.NewUserService(db),
	}
}

func setupParticipantController(db *gorm.DB) []RouteInfo {
	e := NewParticipantController(db)
	basePath := "/comps/:comp_id/participants"
	routes := []RouteInfo{
		{Method: "POST", Path: "", HandlerFunc: e.joinHandler()},
		{Method: "GET", Path: "", HandlerFunc: e.getParticipantsHandler(), Authenticated: true},
		{Method: "GET", Path: "/lookup", HandlerFunc: e.lookupParticipantHandler()},
		{Method: "GET", Path: "/session", HandlerFunc: e.getSessionHandler()},
		{Method: "PATCH", Path: "/:participant_id", HandlerFunc: e.updateParticipantHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/:participant_id", HandlerFunc: e.deleteParticipantHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Joins a comp as a participant. Joining again with the same
// @Description device updates the display name and returns the existing entry.
// @Tags participant
// @Accept json
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Param participant body ParticipantJoin true "Participant to register"
// @Success 201 {object} ParticipantResponse
// @Router /comps/{comp_id}/participants [post]
func (e *ParticipantController) joinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		var participantJoin ParticipantJoin
		if err := c.BindJSON(&participantJoin); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		participant, err := e.participantService.Join(compId, participantJoin.Name, participantJoin.DeviceId, participantJoin.CategoryId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toParticipantResponse(participant))
	}
}

// @Description Lists the participants of a comp, oldest first, with their
// @Description submitted score counts. Filterable by category.
// @Tags participant
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param category_id query int false "Category Id"
// @Success 200 {array} ParticipantResponse
// @Router /comps/{comp_id}/participants [get]
func (e *ParticipantController) getParticipantsHandler() gin.HandlerFunc {
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
		var categoryId *int
		if categoryIdStr := c.Query("category_id"); categoryIdStr != "" {
			id, err := strconv.Atoi(categoryIdStr)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			categoryId = &id
		}
		participants, err := e.participantService.GetParticipantsForComp(compId, categoryId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		scoreCounts, err := e.participantService.CountScores(participants)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		response := make([]*ParticipantResponse, 0, len(participants))
		for _, participant := range participants {
			participantResponse := toParticipantResponse(participant)
			count := scoreCounts[participant.Id]
			participantResponse.ScoreCount = &count
			response = append(response, participantResponse)
		}
		c.JSON(200, response)
	}
}

// @Description Finds a participant by display name, case-insensitively
// @Tags participant
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Param name query string true "Display name"
// @Success 200 {object} ParticipantResponse
// @Router /comps/{comp_id}/participants/lookup [get]
func (e *ParticipantController) lookupParticipantHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		participant, err := e.participantService.LookupByName(compId, c.Query("name"))
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toParticipantResponse(participant))
	}
}

// @Description Returns the participant registered for the calling device, or
// @Description null when the device has not joined the comp
// @Tags participant
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Param x-device-id header string true "Device Id"
// @Success 200 {object} ParticipantResponse
// @Router /comps/{comp_id}/participants/session [get]
func (e *ParticipantController) getSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		deviceId := c.GetHeader("x-device-id")
		if deviceId == "" {
			c.JSON(400, gin.H{"error": "x-device-id header is required"})
			return
		}
		participant, err := e.participantService.GetByDevice(compId, deviceId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toParticipantResponse(participant))
	}
}

// @Description Updates a participant's display name or category
// @Tags participant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param participant_id path int true "Participant Id"
// @Param participant body ParticipantUpdate true "Fields to update"
// @Success 200 {object} ParticipantResponse
// @Router /comps/{comp_id}/participants/{participant_id} [patch]
func (e *ParticipantController) updateParticipantHandler() gin.HandlerFunc {
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
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		var participantUpdate ParticipantUpdate
		if err := c.BindJSON(&participantUpdate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		participant, err := e.participantService.UpdateParticipant(compId, participantId, &service.ParticipantUpdate{
			DisplayName: participantUpdate.Name,
			CategoryId:  participantUpdate.CategoryId,
		})
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toParticipantResponse(participant))
	}
}

// @Description Removes a participant and their scores from a comp
// @Tags participant
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param participant_id path int true "Participant Id"
// @Success 204
// @Router /comps/{comp_id}/participants/{participant_id} [delete]
func (e *ParticipantController) deleteParticipantHandler() gin.HandlerFunc {
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
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		if err := e.participantService.DeleteParticipant(compId, participantId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

type ParticipantJoin struct {
	Name       string `json:"name" binding:"required"`
	DeviceId   string `json:"device_id" binding:"required"`
	CategoryId int    `json:"category_id" binding:"required"`
}

type ParticipantUpdate struct {
	Name       *string `json:"name"`
	CategoryId *int    `json:"category_id"`
}

type ParticipantResponse struct {
	Id         int               `json:"id"`
	CompId     int               `json:"comp_id"`
	CategoryId int               `json:"category_id"`
	Category   *CategoryResponse `json:"category,omitempty"`
	Name       string            `json:"name"`
	CreatedAt  time.Time         `json:"created_at"`
	ScoreCount *int64            `json:"score_count,omitempty"`
}

func toParticipantResponse(participant *repository.Participant) *ParticipantResponse {
	if participant == nil {
		return nil
	}
	return &ParticipantResponse{
		Id:         participant.Id,
		CompId:     participant.CompId,
		CategoryId: participant.CategoryId,
		Category:   toCategoryResponse(participant.Category),
		Name:       participant.DisplayName,
		CreatedAt:  participant.CreatedAt,
	}
}
