package api

import (
	"errors"
	"fmt"
	"net/http"

	"zsports/sports-history/internal/intervals"
	"zsports/sports-history/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// TrainingHandler serves stored Polar trainings and refreshes the
// intervals.icu cache.
type TrainingHandler struct {
	trainingService service.TrainingService
	syncService     service.SyncService
}

func NewTrainingHandler(trainingService service.TrainingService, syncService service.SyncService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService, syncService: syncService}
}

// ListTrainings godoc
// @Summary List stored trainings, optionally of one sport
// @Tags Trainings
// @Produce json
// @Param sport query string false "Polar sport code, e.g. CYCLING"
// @Router /trainings [get]
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	trainings, err := h.trainingService.List(c.Request.Context(), c.Query("sport"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownSport) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorf("api: list trainings: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to list trainings")
		return
	}
	c.JSON(http.StatusOK, trainings)
}

// Sync godoc
// @Summary Drop and re-fetch a cached intervals.icu resource
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Param kind path string true "workouts, activities or activities-csv"
// @Router /sync/{kind} [post]
func (h *TrainingHandler) Sync(c *gin.Context) {
	if h.syncService == nil {
		abortWithError(c, http.StatusServiceUnavailable, "intervals.icu is not configured")
		return
	}
	result, err := h.syncService.Sync(c.Request.Context(), c.Param("kind"))
	if err != nil {
		var statusErr *intervals.StatusError
		switch {
		case errors.Is(err, intervals.ErrUnknownKind):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &statusErr):
			log.Errorf("api: sync %s: %v", c.Param("kind"), err)
			abortWithError(c, http.StatusBadGateway, fmt.Sprintf("intervals.icu answered %d", statusErr.StatusCode))
		default:
			log.Errorf("api: sync %s: %v", c.Param("kind"), err)
			abortWithError(c, http.StatusBadGateway, "intervals.icu request failed")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
