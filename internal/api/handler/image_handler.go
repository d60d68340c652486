package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/batagalla/mushmind-detector/internal/api/metrics"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
)

// ImageHandler serves upload, classification and history endpoints.
type ImageHandler struct {
	service  ports.ImageService
	maxBytes int64
}

func NewImageHandler(service ports.ImageService, maxBytes int64) *ImageHandler {
	return &ImageHandler{service: service, maxBytes: maxBytes}
}

// Upload stores a mushroom photo for the authenticated user.
//
// @Summary      Upload an image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "Mushroom photo"
// @Success      201    {object}  imageResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /images/upload [post]
func (h *ImageHandler) Upload(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return domain.Invalid("no image uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Invalid("unreadable upload")
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxBytes > 0 {
		// one extra byte lets the service reject oversize files
		r = io.LimitReader(f, h.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Invalid("unreadable upload")
	}

	img, err := h.service.Upload(c.Request().Context(), u, ports.UploadInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return err
	}
	metrics.ImagesUploadedTotal.Inc()
	return c.JSON(http.StatusCreated, imageResponse{Image: img})
}

// ListOwn returns the caller's images, newest first.
//
// @Summary      List my images
// @Tags         images
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  imageListResponse
// @Failure      401  {object}  errorResponse
// @Router       /images/user [get]
func (h *ImageHandler) ListOwn(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	images, err := h.service.ListOwn(c.Request().Context(), u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, imageListResponse{Count: len(images), Images: images})
}

// History returns the caller's recent classifications.
//
// @Summary      Search history
// @Tags         images
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  historyResponse
// @Failure      401  {object}  errorResponse
// @Router       /images/search-history [get]
func (h *ImageHandler) History(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	entries, err := h.service.History(c.Request().Context(), u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyResponse{Count: len(entries), Searches: entries})
}

// Get returns one image with its latest classification.
//
// @Summary      Get an image
// @Tags         images
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Image ID"
// @Success      200  {object}  imageDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /images/{id} [get]
func (h *ImageHandler) Get(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	img, res, err := h.service.Get(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, imageDetailResponse{Image: img, ClassificationResult: res})
}

// Classify runs the classifier on an image.
//
// @Summary      Classify an image
// @Tags         images
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Image ID"
// @Success      200  {object}  classifyResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /images/{id}/classify [post]
func (h *ImageHandler) Classify(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	res, err := h.service.Classify(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		return err
	}
	verdict := "toxic"
	if res.IsSafe {
		verdict = "safe"
	}
	metrics.ClassificationsTotal.WithLabelValues(verdict).Inc()
	return c.JSON(http.StatusOK, classifyResponse{Result: res})
}

// Delete removes an image and everything derived from it.
//
// @Summary      Delete an image
// @Tags         images
// @Security     BearerAuth
// @Param        id   path  string  true  "Image ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /images/{id} [delete]
func (h *ImageHandler) Delete(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), u, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
