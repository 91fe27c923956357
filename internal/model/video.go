package model

type Video struct {
	ID          int64  `db:"id"`
	DayNumber   int    `db:"day_number"`
	Title       string `db:"title"`
	Description string `db:"description"`
	// Filename is the object key of the video inside the content bucket
	// (under videos/), resolved to a playable URL on every request.
	Filename    string `db:"filename"`
	PosterURL   string `db:"poster_url"`
	PosterThumb string `db:"poster_thumb_url"`
}
