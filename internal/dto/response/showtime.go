package response

import (
	"time"

	"movietix/internal/data/entity"
)

type ShowtimeResponse struct {
	ID          string    `json:"id"`
	MovieTitle  string    `json:"movie_title"`
	Theater     string    `json:"theater"`
	StartsAt    time.Time `json:"starts_at"`
	SeatsBooked int       `json:"seats_booked"`
	TotalSeats  int       `json:"total_seats"`
}

func ShowtimeToResponse(showtime *entity.Showtime, booked, total int) ShowtimeResponse {
	return ShowtimeResponse{
		ID:          showtime.ID.String(),
		MovieTitle:  showtime.MovieTitle,
		Theater:     showtime.Theater,
		StartsAt:    showtime.StartsAt,
		SeatsBooked: booked,
		TotalSeats:  total,
	}
}
