package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

type FeedbackHandler struct {
	service ports.FeedbackService
}

func NewFeedbackHandler(service ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Create leaves feedback on an image the caller may access. The owner is
// always the caller.
//
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createFeedbackRequest  true  "Feedback"
// @Success      201   {object}  feedbackResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /feedback [post]
func (h *FeedbackHandler) Create(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	var req createFeedbackRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	fb, err := h.service.Create(c.Request().Context(), u, ports.FeedbackInput{
		ImageID: req.ImageID,
		Text:    req.Text,
		Rating:  req.Rating,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, feedbackResponse{Feedback: fb})
}

// ListOwn returns the feedback written by the caller.
//
// @Summary      List my feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  feedbackListResponse
// @Failure      401  {object}  errorResponse
// @Router       /feedback/user [get]
func (h *FeedbackHandler) ListOwn(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListOwn(c.Request().Context(), u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackListResponse{Count: len(list), Feedback: list})
}

// ListForImage returns the feedback on one image to its owner or an admin.
//
// @Summary      List feedback for an image
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        imageId  path      string  true  "Image ID"
// @Success      200      {object}  feedbackListResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /feedback/image/{imageId} [get]
func (h *FeedbackHandler) ListForImage(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListForImage(c.Request().Context(), u, c.Param("imageId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackListResponse{Count: len(list), Feedback: list})
}

// Get returns a single feedback entry to its author or an admin.
//
// @Summary      Get feedback
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Feedback ID"
// @Success      200  {object}  feedbackResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) Get(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	fb, err := h.service.Get(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackResponse{Feedback: fb})
}

// Update replaces the text and rating of the caller's feedback.
//
// @Summary      Edit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Feedback ID"
// @Param        body  body      updateFeedbackRequest  true  "New text and rating"
// @Success      200   {object}  feedbackResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /feedback/{id} [put]
func (h *FeedbackHandler) Update(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	var req updateFeedbackRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	fb, err := h.service.Update(c.Request().Context(), u, c.Param("id"), ports.FeedbackInput{
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackResponse{Feedback: fb})
}

// Delete removes feedback owned by the caller.
//
// @Summary      Delete feedback
// @Tags         feedback
// @Security     BearerAuth
// @Param        id   path  string  true  "Feedback ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), u, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
