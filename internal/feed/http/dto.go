package http

import (
	"time"

	"github.com/41parallelobari/agenda-prenotazioni/internal/feed"
)

// RoomURI binds the room path parameter shared by the feed endpoints.
type RoomURI struct {
	Room string `uri:"room" binding:"required"`
}

type UpsertEndpointRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// SyncRoomRequest optionally overrides the stored feed URL for one sync run.
type SyncRoomRequest struct {
	URL string `json:"url" binding:"omitempty,url"`
}

type EndpointResponse struct {
	Room      string    `json:"room"`
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewEndpointResponse(e *feed.Endpoint) EndpointResponse {
	return EndpointResponse{
		Room:      e.Room,
		URL:       e.URL,
		UpdatedAt: e.UpdatedAt,
	}
}

type SyncResultResponse struct {
	Room     string `json:"room"`
	Imported int    `json:"imported"`
	Error    string `json:"error,omitempty"`
}

type SyncReportResponse struct {
	Results       []SyncResultResponse `json:"results"`
	TotalImported int                  `json:"total_imported"`
}

func NewSyncReportResponse(r *feed.Report) SyncReportResponse {
	results := make([]SyncResultResponse, len(r.Results))
	for i, res := range r.Results {
		results[i] = SyncResultResponse{
			Room:     res.Room,
			Imported: res.Imported,
		}
		if res.Err != nil {
			results[i].Error = res.Err.Error()
		}
	}
	return SyncReportResponse{
		Results:       results,
		TotalImported: r.TotalImported(),
	}
}
