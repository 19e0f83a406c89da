package controller

import (
	"strconv"

	"cruxed/app_error"
	"cruxed/scoring"
	"cruxed/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LeaderboardController struct {
	leaderboardService *service.LeaderboardService
	compService        *service.CompService
}

func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{
		leaderboardService: service.NewLeaderboardService(db),
		compService:        service.NewCompService(db),
	}
}

func setupLeaderboardController(db *gorm.DB) []RouteInfo {
	e := NewLeaderboardController(db)
	return []RouteInfo{
		{Method: "GET", Path: "/comps/:comp_id/leaderboard", HandlerFunc: e.getLeaderboardHandler()},
	}
}

// @Description Returns the ranking for a comp, recomputed from the stored
// @Description scores on every request. Filterable by category.
// @Tags leaderboard
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Param category_id query int false "Category Id"
// @Success 200 {array} scoring.RankedEntry
// @Router /comps/{comp_id}/leaderboard [get]
func (e *LeaderboardController) getLeaderboardHandler() gin.HandlerFunc {
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
		var categoryId *int
		if categoryIdStr := c.Query("category_id"); categoryIdStr != "" {
			id, err := strconv.Atoi(categoryIdStr)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			categoryId = &id
		}
		entries, err := e.leaderboardService.GetLeaderboard(compId, categoryId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		if entries == nil {
			entries = make([]*scoring.RankedEntry, 0)
		}
		c.JSON(200, entries)
	}
}
