package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

// AdminHandler serves /admin routes. Every route is mounted behind
// RequireAdmin, so handlers only deal with input and output.
type AdminHandler struct {
	admin    ports.AdminService
	feedback ports.FeedbackService
}

func NewAdminHandler(admin ports.AdminService, feedback ports.FeedbackService) *AdminHandler {
	return &AdminHandler{admin: admin, feedback: feedback}
}

// ListUsers returns every registered account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.admin.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Count: len(users), Users: users})
}

// UpdateRole promotes or demotes a user. Promotion provisions an admin profile.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateRoleRequest  true  "New role (user or admin)"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.admin.UpdateRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdatePermissions replaces the permission flags on an admin profile.
//
// @Summary      Set an admin's permissions
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "User ID"
// @Param        body  body      permissionsRequest  true  "Permissions"
// @Success      200   {object}  adminProfileResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/users/{id}/permissions [put]
func (h *AdminHandler) UpdatePermissions(c echo.Context) error {
	var req permissionsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	profile, err := h.admin.UpdatePermissions(c.Request().Context(), c.Param("id"), domain.Permissions(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminProfileResponse{Admin: profile})
}

// Stats returns the dashboard totals alongside the configured model accuracy.
//
// @Summary      Dashboard counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Failure      403  {object}  errorResponse
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ListFeedback returns feedback from all users for moderation.
//
// @Summary      List all feedback
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  feedbackListResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/feedback [get]
func (h *AdminHandler) ListFeedback(c echo.Context) error {
	list, err := h.feedback.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackListResponse{Count: len(list), Feedback: list})
}

// ReviewFeedback marks a feedback entry as reviewed by the acting admin.
//
// @Summary      Mark feedback as reviewed
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  feedbackResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/feedback/{id}/review [put]
func (h *AdminHandler) ReviewFeedback(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	fb, err := h.feedback.MarkReviewed(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackResponse{Feedback: fb})
}

// DeleteFeedback removes any feedback entry regardless of owner.
//
// @Summary      Delete any feedback
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Feedback ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/feedback/{id} [delete]
func (h *AdminHandler) DeleteFeedback(c echo.Context) error {
	if err := h.feedback.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SystemSettings returns the current system settings document.
//
// @Summary      Get system settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  systemSettingsResponse
// @Router       /admin/settings/system [get]
func (h *AdminHandler) SystemSettings(c echo.Context) error {
	s, err := h.admin.SystemSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, systemSettingsResponse{Settings: s})
}

// UpdateSystemSettings validates and stores new system settings.
//
// @Summary      Update system settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      systemSettingsRequest  true  "Settings"
// @Success      200   {object}  systemSettingsResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/settings/system [put]
func (h *AdminHandler) UpdateSystemSettings(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	var req systemSettingsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	s, err := h.admin.UpdateSystemSettings(c.Request().Context(), u, domain.SystemSettings{
		ImageSizeLimitMB:         req.ImageSizeLimitMB,
		RetentionPeriodDays:      req.RetentionPeriodDays,
		EnableNotifications:      req.EnableNotifications,
		EnableAuditLogs:          req.EnableAuditLogs,
		AllowAccountDeletion:     req.AllowAccountDeletion,
		RequireEmailVerification: req.RequireEmailVerification,
		MaintenanceMode:          req.MaintenanceMode,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, systemSettingsResponse{Settings: s})
}

// ModelSettings returns the classifier configuration.
//
// @Summary      Get model settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  modelSettingsResponse
// @Router       /admin/settings/model [get]
func (h *AdminHandler) ModelSettings(c echo.Context) error {
	s, err := h.admin.ModelSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, modelSettingsResponse{Settings: s})
}

// UpdateModelSettings validates and stores a new classifier configuration.
//
// @Summary      Update model settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      modelSettingsRequest  true  "Settings"
// @Success      200   {object}  modelSettingsResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/settings/model [put]
func (h *AdminHandler) UpdateModelSettings(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	var req modelSettingsRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	s, err := h.admin.UpdateModelSettings(c.Request().Context(), u, domain.ModelSettings{
		ConfidenceThreshold: req.ConfidenceThreshold,
		EnableAutoLearning:  req.EnableAutoLearning,
		DatasetSize:         req.DatasetSize,
		AccuracyScore:       req.AccuracyScore,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, modelSettingsResponse{Settings: s})
}
