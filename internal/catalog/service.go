package catalog

import (
	"context"
	"net/http"

	"github.com/mehmetcc/moviedesk/internal/form"
	"github.com/mehmetcc/moviedesk/internal/httpx"
	"go.uber.org/zap"
)

type MovieService interface {
	List(ctx context.Context) ([]Movie, error)
	// Create ignores f.ID.
	Create(ctx context.Context, f MovieForm) error
	// Update replaces the movie f.ID; a zero id fails with ErrNoSelection.
	Update(ctx context.Context, f MovieForm) error
	Delete(ctx context.Context, id int64) error
}

type DirectorService interface {
	List(ctx context.Context) ([]Director, error)
	Create(ctx context.Context, d Director) error
	Update(ctx context.Context, d Director) error
	Delete(ctx context.Context, id int64) error
}

type GenreService interface {
	List(ctx context.Context) ([]Genre, error)
	Create(ctx context.Context, g Genre) error
	Update(ctx context.Context, g Genre) error
	Delete(ctx context.Context, id int64) error
}

type RatingService interface {
	// Rate submits a score between 1 and 5 for movieID.
	Rate(ctx context.Context, movieID int64, score int) error
}

type movieService struct {
	res *resource[Movie]
}

func NewMovieService(client httpx.Client, logger *zap.Logger) MovieService {
	return &movieService{res: newResource[Movie](client, "Movies", "movie", logger)}
}

func (s *movieService) List(ctx context.Context) ([]Movie, error) {
	return s.res.list(ctx)
}

func (s *movieService) Create(ctx context.Context, f MovieForm) error {
	f.ID = 0
	return s.res.create(ctx, f)
}

func (s *movieService) Update(ctx context.Context, f MovieForm) error {
	return s.res.update(ctx, f.ID, f)
}

func (s *movieService) Delete(ctx context.Context, id int64) error {
	return s.res.remove(ctx, id)
}

type directorService struct {
	res *resource[Director]
}

func NewDirectorService(client httpx.Client, logger *zap.Logger) DirectorService {
	return &directorService{res: newResource[Director](client, "Directors", "director", logger)}
}

func (s *directorService) List(ctx context.Context) ([]Director, error) {
	return s.res.list(ctx)
}

func (s *directorService) Create(ctx context.Context, d Director) error {
	d.ID = 0
	return s.res.create(ctx, d)
}

func (s *directorService) Update(ctx context.Context, d Director) error {
	return s.res.update(ctx, d.ID, d)
}

func (s *directorService) Delete(ctx context.Context, id int64) error {
	return s.res.remove(ctx, id)
}

type genreService struct {
	res *resource[Genre]
}

func NewGenreService(client httpx.Client, logger *zap.Logger) GenreService {
	return &genreService{res: newResource[Genre](client, "Genres", "genre", logger)}
}

func (s *genreService) List(ctx context.Context) ([]Genre, error) {
	return s.res.list(ctx)
}

func (s *genreService) Create(ctx context.Context, g Genre) error {
	g.ID = 0
	return s.res.create(ctx, g)
}

func (s *genreService) Update(ctx context.Context, g Genre) error {
	return s.res.update(ctx, g.ID, g)
}

func (s *genreService) Delete(ctx context.Context, id int64) error {
	return s.res.remove(ctx, id)
}

const ratePath = "/api/Users/rate-movie"

type ratingService struct {
	client httpx.Client
	logger *zap.Logger
}

func NewRatingService(client httpx.Client, logger *zap.Logger) RatingService {
	return &ratingService{client: client, logger: logger}
}

func (s *ratingService) Rate(ctx context.Context, movieID int64, score int) error {
	body := Rating{MovieID: movieID, Rating: score}
	if err := form.Validate(body); err != nil {
		return err
	}
	if _, err := s.client.Fetch(ctx, ratePath, &httpx.Request{Method: http.MethodPost, Body: body}); err != nil {
		s.logger.Warn("rating failed", zap.Int64("movie_id", movieID), zap.Error(err))
		return err
	}
	s.logger.Info("movie rated", zap.Int64("movie_id", movieID), zap.Int("rating", score))
	return nil
}
