package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/41parallelobari/agenda-prenotazioni/internal/booking"
	"github.com/41parallelobari/agenda-prenotazioni/internal/pkg/request"
	"github.com/41parallelobari/agenda-prenotazioni/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		Status: booking.Status(req.Status),
		Room:   req.Room,
		Search: req.Search,
	}
	if req.From != "" {
		from, _ := time.Parse(booking.DateLayout, req.From)
		filter.From = &from
	}
	if req.To != "" {
		to, _ := time.Parse(booking.DateLayout, req.To)
		filter.To = &to
	}

	bookings, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Create(c *gin.Context) {
	var body BookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, conflicts, err := h.service.Create(c.Request.Context(), body.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingWithConflicts(b, conflicts))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body BookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, conflicts, err := h.service.Update(c.Request.Context(), uri.ID, body.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingWithConflicts(b, conflicts))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(rooms))
}

func (h *Handler) CheckConflicts(c *gin.Context) {
	var req ConflictCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	checkIn, _ := time.Parse(booking.DateLayout, req.CheckIn)
	checkOut, _ := time.Parse(booking.DateLayout, req.CheckOut)

	overlap, conflicts, err := h.service.CheckOverlap(c.Request.Context(), req.Room, checkIn, checkOut, req.ExcludeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(conflicts))
	for i, b := range conflicts {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, ConflictCheckResponse{Overlap: overlap, Conflicts: items})
}

func (h *Handler) Occupancy(c *gin.Context) {
	var req OccupancyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	var from, to time.Time
	if req.From != "" {
		from, _ = time.Parse(booking.DateLayout, req.From)
	} else {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if req.To != "" {
		to, _ = time.Parse(booking.DateLayout, req.To)
	} else {
		to = from.AddDate(0, 0, 30)
	}

	rooms := req.Rooms
	if len(rooms) == 0 {
		var err error
		rooms, err = h.service.ListRooms(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	grid, err := h.service.Occupancy(c.Request.Context(), from, to, rooms)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, OccupancyResponse{
		From:  from.Format(booking.DateLayout),
		To:    to.Format(booking.DateLayout),
		Rooms: rooms,
		Grid:  grid,
	})
}

// Export streams the full register as a flat tabular file. The payload is
// rendered into memory first so failures can still produce an error status.
func (h *Handler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	bookings, err := h.service.ExportAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	var contentType string

	switch format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = booking.WriteXLSX(&buf, bookings)
	default:
		contentType = "text/csv; charset=utf-8"
		err = booking.WriteCSV(&buf, bookings)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.%s", time.Now().UTC().Format(booking.DateLayout), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
