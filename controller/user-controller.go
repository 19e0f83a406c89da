package controller

import (
	"cruxed/app_error"
	"cruxed/auth"
	"cruxed/repository"
	"cruxed/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		userService: service.NewUserService(db),
	}
}

func setupUserController(db *gorm.DB) []RouteInfo {
	e := NewUserController(db)
	basePath := "/auth"
	routes := []RouteInfo{
		{Method: "POST", Path: "/register", HandlerFunc: e.registerHandler()},
		{Method: "POST", Path: "/login", HandlerFunc: e.loginHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @Description Registers a new admin account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body UserRegister true "Account to create"
// @Success 201 {object} UserResponse
// @Router /auth/register [post]
func (e *UserController) registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userRegister UserRegister
		if err := c.BindJSON(&userRegister); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.Register(userRegister.Email, userRegister.Password, userRegister.Name)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(201, toUserResponse(user))
	}
}

// @Description Logs an admin in and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "Credentials"
// @Success 200 {object} TokenResponse
// @Router /auth/login [post]
func (e *UserController) loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userLogin UserLogin
		if err := c.BindJSON(&userLogin); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		user, err := e.userService.Login(userLogin.Email, userLogin.Password)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		token, err := auth.CreateToken(user)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, TokenResponse{Token: token, User: toUserResponse(user)})
	}
}

type UserRegister struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	Id    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

func toUserResponse(user *repository.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		Id:    user.Id,
		Email: user.Email,
		Name:  user.Name,
	}
}
