package entity

import (
	"time"
)

// Showtime is a single screening open for sale. The layout is frozen
// when the seat map is generated; admin layout changes only affect
// showtimes opened afterwards.
type Showtime struct {
	Base
	MovieTitle  string    `db:"movie_title"`
	Theater     string    `db:"theater"`
	StartsAt    time.Time `db:"starts_at"`
	Rows        int       `db:"seat_rows"`
	SeatsPerRow int       `db:"seats_per_row"`
	Retired     bool      `db:"retired"`
}

func (s *Showtime) TotalSeats() int {
	return s.Rows * s.SeatsPerRow
}
