package controllers

import (
	"codetrack/backend/activity"
	"codetrack/backend/config"
	"codetrack/backend/models"
	"codetrack/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *activity.Service
}

func NewUserController(db *gorm.DB, cfg *config.Config, svc *activity.Service) *UserController {
	return &UserController{DB: db, Cfg: cfg, Activity: svc}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile with streak and solved totals
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	current, longest, err := uc.Activity.Streak(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load streak")
	}

	totalSolved, err := uc.Activity.TotalSolved(userID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load solved total")
	}

	var accounts []models.PlatformAccount
	uc.DB.Where("user_id = ?", userID).Order("platform ASC").Find(&accounts)

	var stats []models.PlatformStats
	uc.DB.Where("user_id = ?", userID).Order("platform ASC").Find(&stats)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":                user.ID,
		"username":          user.Username,
		"email":             user.Email,
		"role":              user.Role,
		"college":           user.College,
		"department":        user.Department,
		"created_at":        user.CreatedAt,
		"current_streak":    current,
		"longest_streak":    longest,
		"total_solved":      totalSolved,
		"platform_accounts": accounts,
		"platform_stats":    stats,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates the authenticated user's profile data
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
		College     string `json:"college"`
		Department  string `json:"department"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Username != "" && input.Username != user.Username {
		var existing models.User
		if err := uc.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil && existing.ID != user.ID {
			return utils.BadRequest(c, "Username already taken")
		}
		user.Username = input.Username
	}

	if input.Email != "" && input.Email != user.Email {
		var existing models.User
		if err := uc.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil && existing.ID != user.ID {
			return utils.BadRequest(c, "Email already taken")
		}
		user.Email = input.Email
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.BadRequest(c, "Old password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if input.College != "" {
		user.College = input.College
	}
	if input.Department != "" {
		user.Department = input.Department
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"college":    user.College,
		"department": user.Department,
	})
}

// ListPlatforms godoc
// @Summary List linked platform accounts
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/platforms [get]
func (uc *UserController) ListPlatforms(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var accounts []models.PlatformAccount
	if err := uc.DB.Where("user_id = ?", userID).Order("platform ASC").Find(&accounts).Error; err != nil {
		return utils.InternalServerError(c, "Could not load platform accounts")
	}

	return utils.Success(c, fiber.StatusOK, accounts)
}

// LinkPlatform godoc
// @Summary Link an external platform handle
// @Description Saves the user's handle on an external judging platform; upserts on re-link
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/platforms [put]
func (uc *UserController) LinkPlatform(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Platform string `json:"platform"`
		Handle   string `json:"handle"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Platform == "" || input.Handle == "" {
		return utils.BadRequest(c, "platform and handle are required")
	}
	if !uc.supportedPlatform(input.Platform) {
		return utils.BadRequest(c, "Unknown platform")
	}

	account := models.PlatformAccount{
		UserID:   userID,
		Platform: input.Platform,
		Handle:   input.Handle,
	}
	if err := uc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"handle": input.Handle}),
	}).Create(&account).Error; err != nil {
		return utils.InternalServerError(c, "Could not link platform")
	}

	return utils.Success(c, fiber.StatusOK, account)
}

// UnlinkPlatform godoc
// @Summary Unlink an external platform account
// @Tags users
// @Produce json
// @Success 204
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/platforms/{platform} [delete]
func (uc *UserController) UnlinkPlatform(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	result := uc.DB.Where("user_id = ? AND platform = ?", userID, c.Params("platform")).
		Delete(&models.PlatformAccount{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not unlink platform")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Platform not linked")
	}

	return utils.NoContent(c)
}

func (uc *UserController) supportedPlatform(name string) bool {
	_, ok := uc.Activity.Platforms.Client(name)
	return ok
}
