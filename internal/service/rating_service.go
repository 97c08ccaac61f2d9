package service

import (
	"errors"

	"github.com/cinecircle/cinecircle-backend/internal/metrics"
	"github.com/cinecircle/cinecircle-backend/internal/models"
	"github.com/cinecircle/cinecircle-backend/internal/repository"
	"github.com/cinecircle/cinecircle-backend/internal/validation"
	"gorm.io/gorm"
)

// RatingService collects per-member ratings and computes the
// reveal-gated aggregate view.
type RatingService struct {
	ratingRepo repository.RatingRepositoryInterface
	movieRepo  repository.MovieRepositoryInterface
	groupRepo  repository.GroupRepositoryInterface
}

func NewRatingService(
	ratingRepo repository.RatingRepositoryInterface,
	movieRepo repository.MovieRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		movieRepo:  movieRepo,
		groupRepo:  groupRepo,
	}
}

// SubmitRating upserts the caller's rating for the movie. Repeating the
// same submission leaves exactly one row with those values.
func (s *RatingService) SubmitRating(movieID, userID uint, value float64, review *string) (*models.Rating, error) {
	if !validation.ValidateRating(value) {
		return nil, ErrInvalidRating
	}

	movie, err := s.movieRepo.FindByID(movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.groupRepo.FindMember(movie.GroupID, userID); err != nil {
		return nil, ErrNotMember
	}
	if !movie.Status.Rateable() {
		return nil, ErrRatingClosed
	}

	rating := &models.Rating{
		MovieID: movieID,
		UserID:  userID,
		Rating:  value,
		Review:  review,
	}
	if err := s.ratingRepo.Upsert(rating); err != nil {
		return nil, err
	}
	metrics.RatingsSubmitted.Inc()

	return s.ratingRepo.FindByMovieAndUser(movieID, userID)
}

// DeleteRating removes the caller's own rating. A rating that does not
// exist and one owned by someone else fail identically.
func (s *RatingService) DeleteRating(ratingID, callerID uint) error {
	rating, err := s.ratingRepo.FindByID(ratingID)
	if err != nil {
		return ErrNotFoundOrForbidden
	}
	if rating.UserID != callerID {
		return ErrNotFoundOrForbidden
	}
	return s.ratingRepo.Delete(ratingID)
}

// Average is the arithmetic mean of the ratings, nil when there are none.
func Average(ratings []models.Rating) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := sum / float64(len(ratings))
	return &avg
}

// RatingsView is what the surface layer may show. Before the reveal only
// the count and the caller's own rating are present; values, authors and
// the average appear once the movie is COMPLETED.
type RatingsView struct {
	Revealed bool                    `json:"revealed"`
	Count    int                     `json:"count"`
	Average  *float64                `json:"average,omitempty"`
	Ratings  []models.RatingResponse `json:"ratings,omitempty"`
	Mine     *models.RatingResponse  `json:"my_rating,omitempty"`
}

func BuildRatingsView(movie *models.Movie, ratings []models.Rating, callerID uint) RatingsView {
	view := RatingsView{
		Revealed: movie.Status == models.StatusCompleted,
		Count:    len(ratings),
	}

	for i := range ratings {
		if ratings[i].UserID == callerID {
			mine := ratings[i].ToResponse()
			view.Mine = &mine
		}
	}

	if !view.Revealed {
		return view
	}

	view.Average = Average(ratings)
	view.Ratings = make([]models.RatingResponse, 0, len(ratings))
	for i := range ratings {
		view.Ratings = append(view.Ratings, ratings[i].ToResponse())
	}
	return view
}
