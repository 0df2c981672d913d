package api

import (
	"errors"
	"net/http"

	"zsports/sports-history/internal/service"
	"zsports/sports-history/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// PlotHandler serves chart artifacts and publishes them to the bucket.
type PlotHandler struct {
	publishService service.PublishService
}

func NewPlotHandler(publishService service.PublishService) *PlotHandler {
	return &PlotHandler{publishService: publishService}
}

type DownloadURLResponse struct {
	URL string `json:"url"`
}

// ListPublished godoc
// @Summary List published charts, newest first
// @Tags Plots
// @Produce json
// @Router /plots [get]
func (h *PlotHandler) ListPublished(c *gin.Context) {
	artifacts, err := h.publishService.ListPublished(c.Request.Context())
	if err != nil {
		log.Errorf("api: list artifacts: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to list published plots")
		return
	}
	c.JSON(http.StatusOK, artifacts)
}

// GetPlot godoc
// @Summary Get the chart JSON written by the last analysis run
// @Tags Plots
// @Produce json
// @Param name path string true "Chart name"
// @Router /plots/{name} [get]
func (h *PlotHandler) GetPlot(c *gin.Context) {
	data, err := h.publishService.LocalPlot(c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// GetDownloadURL godoc
// @Summary Presigned URL of the latest publication of a chart
// @Tags Plots
// @Produce json
// @Param name path string true "Chart name"
// @Success 200 {object} DownloadURLResponse
// @Router /plots/{name}/url [get]
func (h *PlotHandler) GetDownloadURL(c *gin.Context) {
	url, err := h.publishService.DownloadURL(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{URL: url})
}

// Publish godoc
// @Summary Upload a chart to the bucket
// @Tags Plots
// @Produce json
// @Security BearerAuth
// @Param name path string true "Chart name"
// @Param prefix query string false "Object key prefix"
// @Router /plots/{name}/publish [post]
func (h *PlotHandler) Publish(c *gin.Context) {
	artifact, err := h.publishService.Publish(c.Request.Context(), c.Param("name"), c.Query("prefix"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, artifact)
}

// Unpublish godoc
// @Summary Remove the latest publication of a chart from the bucket
// @Tags Plots
// @Security BearerAuth
// @Param name path string true "Chart name"
// @Router /plots/{name} [delete]
func (h *PlotHandler) Unpublish(c *gin.Context) {
	if err := h.publishService.Unpublish(c.Request.Context(), c.Param("name")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlotHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPlotName):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlotNotFound), errors.Is(err, service.ErrNotPublished):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrNoBucket), errors.Is(err, storage.ErrNoLocalPath):
		abortWithError(c, http.StatusInternalServerError, "Object storage is not configured")
	default:
		log.Errorf("api: plot %s: %v", c.Param("name"), err)
		abortWithError(c, http.StatusBadGateway, "Object storage request failed")
	}
}
