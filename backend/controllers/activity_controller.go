package controllers

import (
	"errors"
	"time"

	"codetrack/backend/activity"
	"codetrack/backend/config"
	"codetrack/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ActivityController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Activity *activity.Service
}

func NewActivityController(db *gorm.DB, cfg *config.Config, svc *activity.Service) *ActivityController {
	return &ActivityController{DB: db, Cfg: cfg, Activity: svc}
}

// GetHeatmap godoc
// @Summary Get activity heatmap
// @Description Returns the ascending per-day submission totals for the user
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /activity/heatmap [get]
func (ac *ActivityController) GetHeatmap(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	entries, err := ac.Activity.Heatmap(userID)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not load heatmap")
	}

	return utils.Success(c, fiber.StatusOK, entries)
}

// GetStreak godoc
// @Summary Get streak state
// @Description Returns the user's current and longest consecutive-day streaks
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /activity/streak [get]
func (ac *ActivityController) GetStreak(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	current, longest, err := ac.Activity.Streak(userID)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not load streak")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"current_streak": current,
		"longest_streak": longest,
	})
}

// GetTotalSolved godoc
// @Summary Get lifetime solved count
// @Description App submissions plus each platform's reported solved count
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /activity/solved [get]
func (ac *ActivityController) GetTotalSolved(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	total, err := ac.Activity.TotalSolved(userID)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not load solved total")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"total_solved": total,
	})
}

// Refresh godoc
// @Summary Refresh external platform data
// @Description Reconciles every linked platform; partial failures are reported per platform
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /activity/refresh [post]
func (ac *ActivityController) Refresh(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	result, err := ac.Activity.Refresh(c.Context(), userID)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Refresh failed")
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// RefreshUser godoc
// @Summary Refresh external platform data for any user
// @Description Admin-triggered reconciliation, used by the scheduled refresh job
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/refresh [post]
func (ac *ActivityController) RefreshUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "Invalid user id")
	}

	result, err := ac.Activity.Refresh(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Refresh failed")
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// RecordSubmission godoc
// @Summary Record an accepted challenge submission
// @Description Intake for the first-party submission service; one event per accepted (user, challenge)
// @Tags activity
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /submissions [post]
func (ac *ActivityController) RecordSubmission(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		ChallengeID uint       `json:"challenge_id"`
		OccurredAt  *time.Time `json:"occurred_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.ChallengeID == 0 {
		return utils.BadRequest(c, "challenge_id is required")
	}

	occurredAt := time.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	result, err := ac.Activity.RecordSubmission(c.Context(), userID, input.ChallengeID, occurredAt)
	if err != nil {
		if errors.Is(err, activity.ErrNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not record submission")
	}

	return utils.Created(c, result)
}
