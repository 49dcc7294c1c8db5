package v1

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/trashunter/internal/config"
	"github.com/shenikar/trashunter/internal/evidence"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/service"
	"github.com/sirupsen/logrus"
)

// MaxEvidenceBytes - предел размера загружаемого фото
const MaxEvidenceBytes = 10 << 20

type Handler struct {
	markerService service.MarkerService
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(markerService service.MarkerService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		markerService: markerService,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// @Summary List markers
// @Description Full snapshot of all pollution markers, dirty and cleaned.
// @Tags Markers
// @Produce json
// @Success 200 {array} MarkerResponse
// @Failure 500 {object} errorResponse "Internal server error"
// @Router /markers [get]
func (h *Handler) listMarkers(c *gin.Context) {
	log := h.logger.WithField("method", "listMarkers")

	markers, err := h.markerService.ListMarkers(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list markers from service")
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToMarkerResponses(markers))
}

// @Summary Report pollution
// @Description Create a dirty marker at the given point with a photo of the pollution.
// @Tags Markers
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param lat formData number true "Latitude"
// @Param lng formData number true "Longitude"
// @Param note formData string false "Note"
// @Param file formData file true "Photo evidence"
// @Success 200 {object} MarkerResponse
// @Failure 400 {object} errorResponse "Invalid form or evidence"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Internal server error"
// @Router /markers [post]
func (h *Handler) reportPollution(c *gin.Context) {
	var form ReportPollutionForm
	log := h.logger.WithFields(logrus.Fields{"method": "reportPollution", "reporter": reporter(c)})

	if err := c.ShouldBind(&form); err != nil {
		log.WithError(err).Warn("Failed to bind form")
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid form data"})
		return
	}
	if err := h.validate.Struct(form); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	ev, err := readEvidence(form.File)
	if err != nil {
		log.WithError(err).Warn("Failed to read evidence")
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	marker, err := h.markerService.ReportPollution(c.Request.Context(), service.ReportInput{
		Latitude:  *form.Latitude,
		Longitude: *form.Longitude,
		Note:      form.Note,
		Evidence:  ev,
	})
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelToMarkerResponse(marker))
}

// @Summary Confirm cleanup
// @Description Mark a dirty marker as cleaned. The submitter must be within the geofence radius.
// @Tags Markers
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Marker ID"
// @Param user_lat formData number true "Submitter latitude"
// @Param user_lng formData number true "Submitter longitude"
// @Param file formData file true "Photo of the cleaned spot"
// @Success 200 {object} MarkerResponse
// @Failure 400 {object} errorResponse "Already cleaned, too far, or invalid evidence"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Marker not found"
// @Failure 500 {object} errorResponse "Internal server error"
// @Router /markers/{id}/clean [put]
func (h *Handler) cleanMarker(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid marker ID"})
		return
	}
	log := h.logger.WithFields(logrus.Fields{"method": "cleanMarker", "id": id, "reporter": reporter(c)})

	var form CleanupForm
	if err := c.ShouldBind(&form); err != nil {
		log.WithError(err).Warn("Failed to bind form")
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid form data"})
		return
	}
	if err := h.validate.Struct(form); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	ev, err := readEvidence(form.File)
	if err != nil {
		log.WithError(err).Warn("Failed to read evidence")
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	marker, err := h.markerService.CleanMarker(c.Request.Context(), service.CleanupInput{
		MarkerID: id,
		UserLat:  *form.UserLat,
		UserLng:  *form.UserLng,
		Evidence: ev,
	})
	if err != nil {
		h.writeServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelToMarkerResponse(marker))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeServiceError переводит ошибки сервиса в HTTP-статус и {"detail": ...}
func (h *Handler) writeServiceError(c *gin.Context, log *logrus.Entry, err error) {
	var tooFar *service.TooFarError
	switch {
	case errors.Is(err, service.ErrMarkerNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Detail: "Marker not found."})
	case errors.Is(err, service.ErrAlreadyCleaned):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "This spot has already been cleaned."})
	case errors.As(err, &tooFar):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: tooFar.Error()})
	case errors.Is(err, evidence.ErrNotImage), errors.Is(err, evidence.ErrEmpty):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "The uploaded file is not a photo."})
	case errors.Is(err, service.ErrInvalidPosition):
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "Coordinates are out of range."})
	default:
		log.WithError(err).Error("Marker service failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

func readEvidence(fh *multipart.FileHeader) (models.Evidence, error) {
	if fh.Size > MaxEvidenceBytes {
		return models.Evidence{}, fmt.Errorf("file is larger than %d bytes", MaxEvidenceBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return models.Evidence{}, fmt.Errorf("could not open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxEvidenceBytes+1))
	if err != nil {
		return models.Evidence{}, fmt.Errorf("could not read uploaded file: %w", err)
	}
	if len(data) > MaxEvidenceBytes {
		return models.Evidence{}, fmt.Errorf("file is larger than %d bytes", MaxEvidenceBytes)
	}
	return models.Evidence{Filename: fh.Filename, Data: data}, nil
}
