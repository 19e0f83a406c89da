package controller

import (
	"strconv"
	"time"

	"cruxed/app_error"
	"cruxed/repository"
	"cruxed/service"
	"cruxed/utils"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CompController struct {
	compService        *service.CompService
	categoryService    *service.CategoryService
	climbService       *service.ClimbService
	participantService *service.ParticipantService
	scoreService       *service.ScoreService
	userService        *service.UserService
}

func NewCompController(db *gorm.DB) *CompController {
	return &CompController{
		compService:        service.NewCompService(db),
		categoryService:    service.NewCategoryService(db),
		climbService:       service.NewClimbService(db),
		participantService: service.NewParticipantService(db),
		scoreService:       service.NewScoreService(db),
		userService:        service.NewUserService(db),
	}
}

func setupCompController(db *gorm.DB, cacheStore persistence.CacheStore) []RouteInfo {
	e := NewCompController(db)
	basePath := "/comps"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getCompsHandler(), Authenticated: true},
		{Method: "POST", Path: "", HandlerFunc: e.createCompHandler(), Authenticated: true},
		{Method: "GET", Path: "/active", HandlerFunc: cache.CachePage(cacheStore, time.Minute, e.getActiveCompsHandler())},
		{Method: "GET", Path: "/lookup", HandlerFunc: e.lookupCompHandler()},
		{Method: "GET", Path: "/:comp_id", HandlerFunc: e.getCompHandler(), Authenticated: true},
		{Method: "PATCH", Path: "/:comp_id", HandlerFunc: e.updateCompHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/:comp_id", HandlerFunc: e.deleteCompHandler(), Authenticated: true},
		{Method: "GET", Path: "/:comp_id/public", HandlerFunc: e.getPublicCompHandler()},
		{Method: "GET", Path: "/:comp_id/co-admins", HandlerFunc: e.getCoAdminsHandler(), Authenticated: true},
		{Method: "POST", Path: "/:comp_id/co-admins", HandlerFunc: e.addCoAdminHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/:comp_id/co-admins/:user_id", HandlerFunc: e.removeCoAdminHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Lists the comps the authenticated admin owns or co-administers
// @Tags comp
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CompResponse
// @Router /comps [get]
func (e *CompController) getCompsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromAuthHeader(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		comps, err := e.compService.GetCompsForAdmin(user.Id)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		response := make([]*CompResponse, 0, len(comps))
		for _, comp := range comps {
			compResponse := toCompResponse(comp)
			if counts, err := e.compService.GetCompCounts(comp.Id); err == nil {
				compResponse.ClimbCount = &counts.Climbs
				compResponse.ParticipantCount = &counts.Participants
			}
			response = append(response, compResponse)
		}
		c.JSON(200, response)
	}
}

// @Description Creates a comp in draft status with its categories and co-admins
// @Tags comp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp body CompCreate true "Comp to create"
// @Success 201 {object} CompResponse
// @Router /comps [post]
func (e *CompController) createCompHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := e.userService.GetUserFromAuthHeader(c)
		if err != nil {
			c.JSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		var compCreate CompCreate
		if err := c.BindJSON(&compCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		comp, err := e.compService.CreateComp(compCreate.toModel(user.Id), compCreate.Categories, compCreate.CoAdminEmails)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toCompResponse(comp))
	}
}

// @Description Lists all active comps
// @Tags comp
// @Produce json
// @Success 200 {array} CompResponse
// @Router /comps/active [get]
func (e *CompController) getActiveCompsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		comps, err := e.compService.GetActiveComps()
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(comps, toCompResponse))
	}
}

// @Description Resolves a join code to an active comp
// @Tags comp
// @Produce json
// @Param code query string true "Join code"
// @Success 200 {object} CompResponse
// @Router /comps/lookup [get]
func (e *CompController) lookupCompHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.JSON(400, gin.H{"error": "code is required"})
			return
		}
		comp, err := e.compService.LookupByCode(code)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toCompResponse(comp))
	}
}

// @Description Returns a comp for one of its admins, with categories and counts
// @Tags comp
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Success 200 {object} CompResponse
// @Router /comps/{comp_id} [get]
func (e *CompController) getCompHandler() gin.HandlerFunc {
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
		comp, err := e.compService.GetCompForAdmin(compId, user.Id)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		comp, err = e.compService.GetCompById(compId, "Categories", "CoAdmins", "Owner")
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		response := toCompResponse(comp)
		if counts, err := e.compService.GetCompCounts(comp.Id); err == nil {
			response.ClimbCount = &counts.Climbs
			response.ParticipantCount = &counts.Participants
		}
		c.JSON(200, response)
	}
}

// @Description Updates a comp's name, status, closing date or default point schedule
// @Tags comp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param comp body CompUpdate true "Fields to update"
// @Success 200 {object} CompResponse
// @Router /comps/{comp_id} [patch]
func (e *CompController) updateCompHandler() gin.HandlerFunc {
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
		var compUpdate CompUpdate
		if err := c.BindJSON(&compUpdate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		comp, err := e.compService.UpdateComp(compId, user.Id, func(comp *repository.Comp) error {
			if compUpdate.Name != nil {
				if *compUpdate.Name == "" {
					return app_error.Validation("name must not be empty")
				}
				comp.Name = *compUpdate.Name
			}
			if compUpdate.Status != nil {
				if err := e.compService.ChangeStatus(comp, repository.CompStatus(*compUpdate.Status)); err != nil {
					return err
				}
			}
			if compUpdate.ClearClosesAt {
				comp.ClosesAt = nil
			} else if compUpdate.ClosesAt != nil {
				comp.ClosesAt = compUpdate.ClosesAt
			}
			if compUpdate.DefaultPointSchedule != nil {
				if err := compUpdate.DefaultPointSchedule.Validate(); err != nil {
					return app_error.Validation("invalid point schedule: %v", err)
				}
				comp.DefaultPointSchedule = *compUpdate.DefaultPointSchedule
			}
			return nil
		})
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, toCompResponse(comp))
	}
}

// @Description Deletes a comp and everything attached to it. Owner only.
// @Tags comp
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Success 204
// @Router /comps/{comp_id} [delete]
func (e *CompController) deleteCompHandler() gin.HandlerFunc {
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
		if err := e.compService.DeleteComp(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

// @Description Returns the public view of a comp: categories, climbs and, when
// @Description a participant_id is given, that participant's scores
// @Tags comp
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Param participant_id query int false "Participant Id"
// @Success 200 {object} PublicCompResponse
// @Router /comps/{comp_id}/public [get]
func (e *CompController) getPublicCompHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		compId, err := strconv.Atoi(c.Param("comp_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		comp, err := e.compService.GetCompById(compId, "Categories", "Climbs")
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		response := &PublicCompResponse{
			Comp:       toCompResponse(comp),
			Categories: utils.Map(comp.Categories, toCategoryResponse),
			Climbs:     utils.Map(comp.Climbs, toClimbResponse),
		}
		if participantIdStr := c.Query("participant_id"); participantIdStr != "" {
			participantId, err := strconv.Atoi(participantIdStr)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			scores, err := e.scoreService.GetScoresForParticipant(compId, participantId)
			if err != nil {
				app_error.WithHTTPStatus(c, err)
				return
			}
			response.Scores = utils.Map(scores, toScoreResponse)
		}
		c.JSON(200, response)
	}
}

// @Description Lists the co-admins of a comp
// @Tags comp
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Success 200 {array} CoAdminResponse
// @Router /comps/{comp_id}/co-admins [get]
func (e *CompController) getCoAdminsHandler() gin.HandlerFunc {
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
		coAdmins, err := e.compService.GetCoAdmins(compId, user.Id)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(coAdmins, toCoAdminResponse))
	}
}

// @Description Adds a co-admin to a comp by email. Owner only.
// @Tags comp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param coAdmin body CoAdminCreate true "Co-admin to add"
// @Success 201 {object} CoAdminResponse
// @Router /comps/{comp_id}/co-admins [post]
func (e *CompController) addCoAdminHandler() gin.HandlerFunc {
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
		var coAdminCreate CoAdminCreate
		if err := c.BindJSON(&coAdminCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		coAdmin, err := e.compService.AddCoAdmin(compId, user.Id, coAdminCreate.Email)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toCoAdminResponse(coAdmin))
	}
}

// @Description Removes a co-admin from a comp. Owner only.
// @Tags comp
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param user_id path int true "User Id"
// @Success 204
// @Router /comps/{comp_id}/co-admins/{user_id} [delete]
func (e *CompController) removeCoAdminHandler() gin.HandlerFunc {
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
		userId, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.compService.RemoveCoAdmin(compId, user.Id, userId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

type CompCreate struct {
	Name                 string                    `json:"name" binding:"required"`
	ClosesAt             *time.Time                `json:"closes_at"`
	DefaultPointSchedule *repository.PointSchedule `json:"default_point_schedule"`
	Categories           []string                  `json:"categories"`
	CoAdminEmails        []string                  `json:"co_admin_emails"`
}

func (c *CompCreate) toModel(ownerId int) *repository.Comp {
	schedule := repository.DefaultPointSchedule()
	if c.DefaultPointSchedule != nil {
		schedule = *c.DefaultPointSchedule
	}
	return &repository.Comp{
		Name:                 c.Name,
		ClosesAt:             c.ClosesAt,
		DefaultPointSchedule: schedule,
		OwnerId:              ownerId,
	}
}

type CompUpdate struct {
	Name                 *string                   `json:"name"`
	Status               *string                   `json:"status"`
	ClosesAt             *time.Time                `json:"closes_at"`
	ClearClosesAt        bool                      `json:"clear_closes_at"`
	DefaultPointSchedule *repository.PointSchedule `json:"default_point_schedule"`
}

type CompResponse struct {
	Id                   int                      `json:"id"`
	Name                 string                   `json:"name"`
	Code                 string                   `json:"code"`
	Status               repository.CompStatus    `json:"status"`
	ClosesAt             *time.Time               `json:"closes_at"`
	DefaultPointSchedule repository.PointSchedule `json:"default_point_schedule"`
	OwnerId              int                      `json:"owner_id"`
	CreatedAt            time.Time                `json:"created_at"`
	Categories           []*CategoryResponse      `json:"categories,omitempty"`
	ClimbCount           *int64                   `json:"climb_count,omitempty"`
	ParticipantCount     *int64                   `json:"participant_count,omitempty"`
}

type PublicCompResponse struct {
	Comp       *CompResponse       `json:"comp"`
	Categories []*CategoryResponse `json:"categories"`
	Climbs     []*ClimbResponse    `json:"climbs"`
	Scores     []*ScoreResponse    `json:"scores,omitempty"`
}

type CoAdminCreate struct {
	Email string `json:"email" binding:"required"`
}

type CoAdminResponse struct {
	Id        int           `json:"id"`
	CompId    int           `json:"comp_id"`
	User      *UserResponse `json:"user"`
	CreatedAt time.Time     `json:"created_at"`
}

func toCompResponse(comp *repository.Comp) *CompResponse {
	if comp == nil {
		return nil
	}
	response := &CompResponse{
		Id:                   comp.Id,
		Name:                 comp.Name,
		Code:                 comp.Code,
		Status:               comp.Status,
		ClosesAt:             comp.ClosesAt,
		DefaultPointSchedule: comp.DefaultPointSchedule,
		OwnerId:              comp.OwnerId,
		CreatedAt:            comp.CreatedAt,
	}
	if len(comp.Categories) > 0 {
		response.Categories = utils.Map(comp.Categories, toCategoryResponse)
	}
	return response
}

func toCoAdminResponse(coAdmin *repository.CoAdmin) *CoAdminResponse {
	if coAdmin == nil {
		return nil
	}
	return &CoAdminResponse{
		Id:        coAdmin.Id,
		CompId:    coAdmin.CompId,
		User:      toUserResponse(coAdmin.User),
		CreatedAt: coAdmin.CreatedAt,
	}
}
