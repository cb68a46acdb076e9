package response

import (
	"time"

	"movietix/internal/data/entity"
)

type SeatResponse struct {
	ID     string `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
	Tier   string `json:"tier"`
	Status string `json:"status"`
}

type SeatRowResponse struct {
	Row   string         `json:"row"`
	Seats []SeatResponse `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeID string            `json:"showtime_id"`
	MovieTitle string            `json:"movie_title"`
	Theater    string            `json:"theater"`
	StartsAt   time.Time         `json:"starts_at"`
	Rows       []SeatRowResponse `json:"rows"`
}

// SeatMapToResponse groups a row-major seat snapshot into rows.
func SeatMapToResponse(showtime *entity.Showtime, seats []entity.Seat) *SeatMapResponse {
	resp := &SeatMapResponse{
		ShowtimeID: showtime.ID.String(),
		MovieTitle: showtime.MovieTitle,
		Theater:    showtime.Theater,
		StartsAt:   showtime.StartsAt,
	}

	var current *SeatRowResponse
	for _, seat := range seats {
		if current == nil || current.Row != seat.Row {
			resp.Rows = append(resp.Rows, SeatRowResponse{Row: seat.Row})
			current = &resp.Rows[len(resp.Rows)-1]
		}
		current.Seats = append(current.Seats, SeatResponse{
			ID:     seat.ID,
			Row:    seat.Row,
			Number: seat.Number,
			Tier:   string(seat.Tier),
			Status: string(seat.Status.State),
		})
	}

	return resp
}
