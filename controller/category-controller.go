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

type CategoryController struct {
	categoryService *service.CategoryService
	compService     *service.CompService
	userService     *service.UserService
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{
		categoryService: service.NewCategoryService(db),
		compService:     service.NewCompService(db),
		userService:     service.NewUserService(db),
	}
}

func setupCategoryController(db *gorm.DB) []RouteInfo {
	e := NewCategoryController(db)
	basePath := "/comps/:comp_id/categories"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getCategoriesHandler()},
		{Method: "POST", Path: "", HandlerFunc: e.createCategoryHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/:category_id", HandlerFunc: e.deleteCategoryHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Lists the categories of a comp in sort order
// @Tags category
// @Produce json
// @Param comp_id path int true "Comp Id"
// @Success 200 {array} CategoryResponse
// @Router /comps/{comp_id}/categories [get]
func (e *CategoryController) getCategoriesHandler() gin.HandlerFunc {
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
		categories, err := e.categoryService.GetCategoriesForComp(compId)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(200, utils.Map(categories, toCategoryResponse))
	}
}

// @Description Adds a category to a comp
// @Tags category
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param category body CategoryCreate true "Category to create"
// @Success 201 {object} CategoryResponse
// @Router /comps/{comp_id}/categories [post]
func (e *CategoryController) createCategoryHandler() gin.HandlerFunc {
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
		var categoryCreate CategoryCreate
		if err := c.BindJSON(&categoryCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		category, err := e.categoryService.CreateCategory(compId, categoryCreate.Name)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toCategoryResponse(category))
	}
}

// @Description Deletes an empty category. Categories with participants are kept.
// @Tags category
// @Security BearerAuth
// @Param comp_id path int true "Comp Id"
// @Param category_id path int true "Category Id"
// @Success 204
// @Router /comps/{comp_id}/categories/{category_id} [delete]
func (e *CategoryController) deleteCategoryHandler() gin.HandlerFunc {
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
		categoryId, err := strconv.Atoi(c.Param("category_id"))
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if _, err := e.compService.GetCompForAdmin(compId, user.Id); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		if err := e.categoryService.DeleteCategory(compId, categoryId); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(204, nil)
	}
}

type CategoryCreate struct {
	Name string `json:"name" binding:"required"`
}

type CategoryResponse struct {
	Id        int    `json:"id"`
	CompId    int    `json:"comp_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

func toCategoryResponse(category *repository.Category) *CategoryResponse {
	if category == nil {
		return nil
	}
	return &CategoryResponse{
		Id:        category.Id,
		CompId:    category.CompId,
		Name:      category.Name,
		SortOrder: category.SortOrder,
	}
}
