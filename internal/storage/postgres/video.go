package postgres

import (
	"context"

	"github.com/rokibulparves/sobol/internal/model"
)

func (s *Storage) GetVideoByDay(ctx context.Context, day int) (*model.Video, error) {
	row := s.DB.QueryRow(ctx,
		`SELECT id, day_number, title, description, filename,
		        COALESCE(poster_url, ''), COALESCE(poster_thumb_url, '')
		 FROM videos
		 WHERE day_number = $1`,
		day)

	var v model.Video
	err := row.Scan(&v.ID, &v.DayNumber, &v.Title, &v.Description,
		&v.Filename, &v.PosterURL, &v.PosterThumb)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Storage) UpdateVideoPoster(ctx context.Context, day int, posterURL, posterThumbURL string) error {
	_, err := s.DB.Exec(ctx,
		`UPDATE videos
		 SET poster_url = $1, poster_thumb_url = $2
		 WHERE day_number = $3`,
		posterURL, posterThumbURL, day)
	return err
}

// TotalDays is the length of the training program, used by the client to
// render overall progress.
func (s *Storage) TotalDays(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}
