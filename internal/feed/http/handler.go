package http

import (
	"errors"
	"net/http"

	"github.com/41parallelobari/agenda-prenotazioni/internal/feed"
	"github.com/41parallelobari/agenda-prenotazioni/internal/pkg/apperror"
	"github.com/41parallelobari/agenda-prenotazioni/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service feed.Service
}

func NewHandler(service feed.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	endpoints, err := h.service.Endpoints(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EndpointResponse, len(endpoints))
	for i, e := range endpoints {
		items[i] = NewEndpointResponse(e)
	}

	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Upsert(c *gin.Context) {
	var uri RoomURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpsertEndpointRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	e, err := h.service.UpsertEndpoint(c.Request.Context(), uri.Room, body.URL)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewEndpointResponse(e))
}

func (h *Handler) SyncRoom(c *gin.Context) {
	var uri RoomURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	// The body is optional; without one the stored endpoint is synced.
	var body SyncRoomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	count, err := h.service.SyncRoom(c.Request.Context(), uri.Room, body.URL)
	if err != nil {
		response.Error(c, syncError(err))
		return
	}

	c.JSON(http.StatusOK, SyncResultResponse{Room: uri.Room, Imported: count})
}

func (h *Handler) SyncAll(c *gin.Context) {
	report, err := h.service.SyncAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSyncReportResponse(report))
}

// syncError maps upstream fetch and parse failures onto gateway errors;
// everything else passes through untouched.
func syncError(err error) error {
	var fetchErr *feed.FetchError
	if errors.As(err, &fetchErr) {
		return apperror.Wrap(err, http.StatusBadGateway, "failed to fetch feed")
	}

	var parseErr *feed.ParseError
	if errors.As(err, &parseErr) {
		return apperror.Wrap(err, http.StatusBadGateway, "failed to parse feed")
	}

	return err
}
