package request

type OpenShowtimeRequest struct {
	MovieTitle string `json:"movie_title" validate:"required"`
	Theater    string `json:"theater" validate:"required"`
	StartsAt   string `json:"starts_at" validate:"required"` // RFC 3339
}

type SeedDemoRequest struct {
	Fraction float64 `json:"fraction"`
}
