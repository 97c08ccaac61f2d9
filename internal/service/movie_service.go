package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cinecircle/cinecircle-backend/internal/cache"
	"github.com/cinecircle/cinecircle-backend/internal/metrics"
	"github.com/cinecircle/cinecircle-backend/internal/models"
	"github.com/cinecircle/cinecircle-backend/internal/repository"
	"github.com/cinecircle/cinecircle-backend/internal/rotation"
	"github.com/cinecircle/cinecircle-backend/internal/tmdb"
	"gorm.io/gorm"
)

const providerFetchTimeout = 5 * time.Second

// WatchProviderSource is the slice of the TMDB client the movie
// lifecycle needs; a test double stands in for it under test.
type WatchProviderSource interface {
	WatchProviders(ctx context.Context, movieID int64, region string) (*tmdb.WatchProviders, error)
}

// MovieService governs the movie lifecycle: selection under the turn
// rule, status transitions, and the reveal-gated detail view.
type MovieService struct {
	movieRepo  repository.MovieRepositoryInterface
	groupRepo  repository.GroupRepositoryInterface
	ratingRepo repository.RatingRepositoryInterface
	providers  WatchProviderSource
	metaCache  *cache.MetadataCache
}

func NewMovieService(
	movieRepo repository.MovieRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	ratingRepo repository.RatingRepositoryInterface,
	providers WatchProviderSource,
	metaCache *cache.MetadataCache,
) *MovieService {
	return &MovieService{
		movieRepo:  movieRepo,
		groupRepo:  groupRepo,
		ratingRepo: ratingRepo,
		providers:  providers,
		metaCache:  metaCache,
	}
}

// SelectMovieInput is the metadata snapshot taken at selection time.
type SelectMovieInput struct {
	TMDBID       int64   `json:"tmdb_id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Region       string  `json:"region"`
}

// SelectMovie locks in the group's pick. Only the resolved current
// picker may select, and only while the group has no other active movie.
func (s *MovieService) SelectMovie(ctx context.Context, groupID, callerID uint, callerName string, input SelectMovieInput) (*models.Movie, error) {
	if input.TMDBID == 0 || input.Title == "" {
		return nil, errors.New("movie metadata is required")
	}

	if _, err := s.groupRepo.FindMember(groupID, callerID); err != nil {
		return nil, ErrNotMember
	}

	members, err := s.groupRepo.GetMembers(groupID)
	if err != nil {
		return nil, err
	}
	settings, err := s.groupRepo.GetSettings(groupID)
	if err != nil {
		return nil, err
	}
	picker := rotation.CurrentPicker(members, settings.CurrentPickerIndex)
	if picker == nil || picker.UserID != callerID {
		return nil, ErrNotYourTurn
	}

	now := time.Now()
	movie := &models.Movie{
		GroupID:          groupID,
		TMDBID:           input.TMDBID,
		Title:            input.Title,
		Overview:         input.Overview,
		PosterPath:       input.PosterPath,
		BackdropPath:     input.BackdropPath,
		ReleaseDate:      input.ReleaseDate,
		VoteAverage:      input.VoteAverage,
		WatchProviders:   s.fetchProviders(ctx, input.TMDBID, input.Region),
		SelectedByUserID: callerID,
		SelectedByName:   callerName,
		Status:           models.StatusLocked,
		LockedAt:         &now,
	}

	if err := s.movieRepo.CreateIfNoActive(movie); err != nil {
		if errors.Is(err, repository.ErrActiveMovieExists) {
			return nil, ErrAlreadySelected
		}
		return nil, err
	}
	metrics.MovieSelections.Inc()
	return movie, nil
}

// fetchProviders is best-effort: a timeout or provider error degrades to
// "no provider data" and never fails the selection.
func (s *MovieService) fetchProviders(ctx context.Context, tmdbID int64, region string) *string {
	if s.providers == nil {
		return nil
	}
	if region == "" {
		region = tmdb.DefaultRegion
	}

	var providers *tmdb.WatchProviders
	if cached, ok := s.metaCache.GetProviders(tmdbID, region); ok {
		providers = cached
	} else {
		fetchCtx, cancel := context.WithTimeout(ctx, providerFetchTimeout)
		defer cancel()

		fetched, err := s.providers.WatchProviders(fetchCtx, tmdbID, region)
		if err != nil {
			slog.Warn("watch provider lookup failed", "tmdb_id", tmdbID, "region", region, "error", err)
			metrics.ProviderLookupFailures.Inc()
			return nil
		}
		providers = fetched
		_ = s.metaCache.SetProviders(tmdbID, region, fetched)
	}

	if providers == nil {
		return nil
	}
	data, err := json.Marshal(providers)
	if err != nil {
		return nil
	}
	snapshot := string(data)
	return &snapshot
}

// Transition moves a movie along LOCKED -> PUBLISHED|RATING_PERIOD ->
// COMPLETED. The schedule that calls it lives outside this core; here we
// only enforce legality and the commissioner check.
func (s *MovieService) Transition(movieID, callerID uint, target models.MovieStatus) (*models.Movie, error) {
	movie, err := s.findMovie(movieID)
	if err != nil {
		return nil, err
	}
	member, err := s.groupRepo.FindMember(movie.GroupID, callerID)
	if err != nil {
		return nil, ErrNotMember
	}
	if member.Role != models.RoleCommissioner {
		return nil, ErrForbidden
	}

	now := time.Now()
	switch {
	case movie.Status == models.StatusLocked && target == models.StatusPublished:
		movie.Status = models.StatusPublished
		movie.PublishedAt = &now
	case movie.Status.Active() && movie.Status != models.StatusRatingPeriod && target == models.StatusRatingPeriod:
		if movie.PublishedAt == nil {
			movie.PublishedAt = &now
		}
		movie.Status = models.StatusRatingPeriod
	case movie.Status.Active() && target == models.StatusCompleted:
		movie.Status = models.StatusCompleted
		movie.RatingRevealAt = &now
	default:
		return nil, ErrInvalidTransition
	}

	if err := s.movieRepo.Update(movie); err != nil {
		return nil, err
	}
	metrics.StatusTransitions.WithLabelValues(string(movie.Status)).Inc()
	return movie, nil
}

// MovieDetail combines the snapshot with the reveal-gated ratings view.
type MovieDetail struct {
	Movie   models.MovieResponse `json:"movie"`
	Ratings RatingsView          `json:"ratings"`
}

func (s *MovieService) MovieDetail(movieID, callerID uint) (*MovieDetail, error) {
	movie, err := s.findMovie(movieID)
	if err != nil {
		return nil, err
	}
	if _, err := s.groupRepo.FindMember(movie.GroupID, callerID); err != nil {
		return nil, ErrNotMember
	}

	ratings, err := s.ratingRepo.ListByMovie(movie.ID)
	if err != nil {
		return nil, err
	}

	return &MovieDetail{
		Movie:   movie.ToResponse(),
		Ratings: BuildRatingsView(movie, ratings, callerID),
	}, nil
}

func (s *MovieService) ListGroupMovies(groupID, callerID uint) ([]models.MovieResponse, error) {
	if _, err := s.groupRepo.FindMember(groupID, callerID); err != nil {
		return nil, ErrNotMember
	}
	movies, err := s.movieRepo.ListByGroup(groupID)
	if err != nil {
		return nil, err
	}
	out := make([]models.MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, movies[i].ToResponse())
	}
	return out, nil
}

// ActiveMovie returns the group's current pick, or nil when there is none.
func (s *MovieService) ActiveMovie(groupID, callerID uint) (*models.Movie, error) {
	if _, err := s.groupRepo.FindMember(groupID, callerID); err != nil {
		return nil, ErrNotMember
	}
	movie, err := s.movieRepo.FindActiveByGroup(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) findMovie(movieID uint) (*models.Movie, error) {
	movie, err := s.movieRepo.FindByID(movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return movie, nil
}
