package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lotusgarden/pos-app/models"
	"github.com/lotusgarden/pos-app/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register creates an employee. Each employee gets a personal secret used as
// the shared login code, so a secret already taken by another employee is
// rejected.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := uc.findBySecret(req.Password); err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("password already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	role := req.Role
	if role == "" {
		role = "staff"
	}
	user := models.User{
		Username: req.Username,
		Password: string(hashed),
		Role:     role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New employee registered: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered successfully", gin.H{
		"user_id": user.ID,
	})
}

// Login authenticates by secret alone: the operator types their personal code
// and the matching employee becomes the attributed user for the session.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.findBySecret(input.Password)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid password"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Employee logged in: %s", user.Username)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     strings.ToLower(user.Role),
		},
	})
}

// findBySecret walks the employee list comparing the secret against each
// stored hash. The staff roster is small, so the linear scan is fine.
func (uc *UserController) findBySecret(secret string) (models.User, error) {
	var users []models.User
	if err := uc.DB.Find(&users).Error; err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(secret)) == nil {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}
