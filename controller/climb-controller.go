package controller

import (
	"strconv"

	"cruxed/app_error"
	"cruxed/repository"
	"cruxed/service"
	"cruxed/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClimbController struct {
	climbService *service.ClimbService
	compService  *service.CompService
	userService  *service.UserService
}

func NewClimbController(db *gorm.DB) *ClimbController {
	return &ClimbController{
		climbService: service.NewClimbService(db),
		compService:  service.NewCompService(db),
		userService:  service.NewUserService(db),
	}
}

func setupClimbController(db *gorm.DB) []RouteInfo {
	e := NewClimbController(db)
	basePath := "/comps/:comp_id/climbs"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getClimbsHandler()},
		{Method: "POST", Path: "", HandlerFunc: e.createClimbHandler(), Authenticated: true},
		{Method: "PATCH", Path: "/:climb_id", HandlerFunc: e.updateClimbHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/:climb_id", HandlerFunc: e.deleteClimbHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Lists the climbs of a comp in sort order
// @Tags climb
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Success 200 {array} ClimbResponse
// @Router /comps/{comp_id}/climbs [get]
func (e *ClimbController) getClimbsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if _, err := e.compService.GetCompById(compId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		climbs, err := e.climbService.GetClimbsForComp(compId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(climbs, toClimbResponse))
	}
}

// @Description Adds a climb to a comp. Without a point schedule the comp's
// @Description default is copied onto the climb.
// @Tags climb
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param climb body ClimbCreate true "Climb to create"
// @Success 201 {object} ClimbResponse
// @Router /comps/{comp_id}/climbs [post]
func (e *ClimbController) createClimbHandler() gin.HandlerFunc {
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
		var climbCreate ClimbCreate
		if err := c.BindJSON(&climbCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		climb, err := e.climbService.CreateClimb(compId, climbCreate.Name, climbCreate.ClimbNumber, climbCreate.SortOrder, climbCreate.PointSchedule)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toClimbResponse(climb))
	}
}

// @Description Updates a climb's name, number, sort order or point schedule
// @Tags climb
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param climb_id path int true "Climb Id"
// @Param climb body ClimbUpdate true "Fields to update"
// @Success 200 {object} ClimbResponse
// @Router /comps/{comp_id}/climbs/{climb_id} [patch]
func (e *ClimbController) updateClimbHandler() gin.HandlerFunc {
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
		climbId, err := strconv.Atoi(c.Param("climb_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		var climbUpdate ClimbUpdate
		if err := c.BindJSON(&climbUpdate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		climb, err := e.climbService.UpdateClimb(compId, climbId, &service.ClimbUpdate{
			Name:          climbUpdate.Name,
			ClimbNumber:   climbUpdate.ClimbNumber,
			SortOrder:     climbUpdate.SortOrder,
			PointSchedule: climbUpdate.PointSchedule,
		})
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toClimbResponse(climb))
	}
}

// @Description Deletes a climb and its scores
// @Tags climb
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param climb_id path int true "Climb Id"
// @Success 204
// @Router /comps/{comp_id}/climbs/{climb_id} [delete]
func (e *ClimbController) deleteClimbHandler() gin.HandlerFunc {
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
		climbId, err := strconv.Atoi(c.Param("climb_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		if err := e.climbService.DeleteClimb(compId, climbId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

type ClimbCreate struct {
	Name          string                    `json:"name" binding:"required"`
	ClimbNumber   int                       `json:"climb_number" binding:"required"`
	SortOrder     int                       `json:"sort_order"`
	PointSchedule *repository.PointSchedule `json:"point_schedule"`
}

type ClimbUpdate struct {
	Name          *string                   `json:"name"`
	ClimbNumber   *int                      `json:"climb_number"`
	SortOrder     *int                      `json:"sort_order"`
	PointSchedule *repository.PointSchedule `json:"point_schedule"`
}

type ClimbResponse struct {
	Id            int                      `json:"id"`
	CompId        int                      `json:"comp_id"`
	Name          string                   `json:"name"`
	ClimbNumber   int                      `json:"climb_number"`
	SortOrder     int                      `json:"sort_order"`
	PointSchedule repository.PointSchedule `json:"point_schedule"`
}

func toClimbResponse(climb *repository.Climb) *ClimbResponse {
	if climb == nil {
		return nil
	}
	return &ClimbResponse{
		Id:            climb.Id,
		CompId:        climb.CompId,
		Name:          climb.Name,
		ClimbNumber:   climb.ClimbNumber,
		SortOrder:     climb.SortOrder,
		PointSchedule: climb.PointSchedule,
	}
}
