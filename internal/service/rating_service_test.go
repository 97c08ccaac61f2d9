package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cinecircle/cinecircle-backend/internal/models"
)

type ratingFixture struct {
	*movieFixture
	ratings *RatingService
	movie   *models.Movie
}

// newRatingFixture seeds a three-member group with one locked movie.
func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	f := newMovieFixture(t)
	movie, err := f.movies.SelectMovie(context.Background(), f.group.ID, 1, "Alice", matrixInput())
	if err != nil {
		t.Fatalf("SelectMovie: %v", err)
	}
	return &ratingFixture{
		movieFixture: f,
		ratings:      NewRatingService(f.ratingRepo, f.movieRepo, f.groupRepo),
		movie:        movie,
	}
}

func TestSubmitRating(t *testing.T) {
	t.Run("member rates the active movie", func(t *testing.T) {
		f := newRatingFixture(t)
		review := "tight pacing"
		rating, err := f.ratings.SubmitRating(f.movie.ID, 2, 4.5, &review)
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
		if rating.Rating != 4.5 {
			t.Errorf("rating = %v, want 4.5", rating.Rating)
		}
		if rating.Review == nil || *rating.Review != review {
			t.Errorf("review = %v", rating.Review)
		}
	})

	t.Run("non-member may not rate", func(t *testing.T) {
		f := newRatingFixture(t)
		if _, err := f.ratings.SubmitRating(f.movie.ID, 42, 4.0, nil); !errors.Is(err, ErrNotMember) {
			t.Errorf("err = %v, want ErrNotMember", err)
		}
	})

	t.Run("off-scale value leaves the original untouched", func(t *testing.T) {
		f := newRatingFixture(t)
		if _, err := f.ratings.SubmitRating(f.movie.ID, 2, 3.5, nil); err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}

		if _, err := f.ratings.SubmitRating(f.movie.ID, 2, 0, nil); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("err = %v, want ErrInvalidRating", err)
		}

		kept, err := f.ratingRepo.FindByMovieAndUser(f.movie.ID, 2)
		if err != nil {
			t.Fatalf("FindByMovieAndUser: %v", err)
		}
		if kept.Rating != 3.5 {
			t.Errorf("rating = %v, want the original 3.5", kept.Rating)
		}
	})

	t.Run("off-step value rejected", func(t *testing.T) {
		f := newRatingFixture(t)
		if _, err := f.ratings.SubmitRating(f.movie.ID, 2, 3.7, nil); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("err = %v, want ErrInvalidRating", err)
		}
	})

	t.Run("resubmission replaces rather than duplicates", func(t *testing.T) {
		f := newRatingFixture(t)
		first, err := f.ratings.SubmitRating(f.movie.ID, 2, 2.5, nil)
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
		review := "better on rewatch"
		second, err := f.ratings.SubmitRating(f.movie.ID, 2, 4.0, &review)
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("ids differ: %d then %d, want one row", first.ID, second.ID)
		}
		if second.Rating != 4.0 {
			t.Errorf("rating = %v, want 4.0", second.Rating)
		}

		all, _ := f.ratingRepo.ListByMovie(f.movie.ID)
		if len(all) != 1 {
			t.Errorf("stored ratings = %d, want 1", len(all))
		}
	})

	t.Run("completed movie no longer accepts ratings", func(t *testing.T) {
		f := newRatingFixture(t)
		if _, err := f.movies.Transition(f.movie.ID, 1, models.StatusCompleted); err != nil {
			t.Fatalf("Transition: %v", err)
		}
		if _, err := f.ratings.SubmitRating(f.movie.ID, 2, 4.0, nil); !errors.Is(err, ErrRatingClosed) {
			t.Errorf("err = %v, want ErrRatingClosed", err)
		}
	})

	t.Run("unknown movie", func(t *testing.T) {
		f := newRatingFixture(t)
		if _, err := f.ratings.SubmitRating(999, 2, 4.0, nil); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteRating(t *testing.T) {
	t.Run("owner deletes their rating", func(t *testing.T) {
		f := newRatingFixture(t)
		rating, err := f.ratings.SubmitRating(f.movie.ID, 2, 4.0, nil)
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
		if err := f.ratings.DeleteRating(rating.ID, 2); err != nil {
			t.Fatalf("DeleteRating: %v", err)
		}
		if _, err := f.ratingRepo.FindByID(rating.ID); err == nil {
			t.Error("rating still stored after delete")
		}
	})

	t.Run("foreign and missing ratings fail identically", func(t *testing.T) {
		f := newRatingFixture(t)
		rating, err := f.ratings.SubmitRating(f.movie.ID, 2, 4.0, nil)
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}

		foreign := f.ratings.DeleteRating(rating.ID, 3)
		missing := f.ratings.DeleteRating(999, 3)
		if !errors.Is(foreign, ErrNotFoundOrForbidden) || !errors.Is(missing, ErrNotFoundOrForbidden) {
			t.Errorf("foreign = %v, missing = %v, want both ErrNotFoundOrForbidden", foreign, missing)
		}
	})
}

func TestAverage(t *testing.T) {
	if got := Average(nil); got != nil {
		t.Errorf("Average(nil) = %v, want nil", *got)
	}

	ratings := []models.Rating{
		{Rating: 3.0},
		{Rating: 4.5},
		{Rating: 5.0},
	}
	got := Average(ratings)
	if got == nil || *got != 12.5/3 {
		t.Errorf("Average = %v, want %v", got, 12.5/3)
	}
}

func TestBuildRatingsView(t *testing.T) {
	user2 := models.User{Username: "bob"}
	user2.ID = 2
	user3 := models.User{Username: "carol"}
	user3.ID = 3
	ratings := []models.Rating{
		{MovieID: 1, UserID: 2, Rating: 4.0, User: user2},
		{MovieID: 1, UserID: 3, Rating: 2.5, User: user3},
	}

	t.Run("hidden while active", func(t *testing.T) {
		movie := &models.Movie{Status: models.StatusRatingPeriod}
		view := BuildRatingsView(movie, ratings, 3)
		if view.Revealed || view.Count != 2 {
			t.Errorf("view = %+v", view)
		}
		if view.Average != nil || len(view.Ratings) != 0 {
			t.Error("aggregate leaked before reveal")
		}
		if view.Mine == nil || view.Mine.Rating != 2.5 {
			t.Errorf("mine = %+v", view.Mine)
		}
	})

	t.Run("caller without a rating sees no mine", func(t *testing.T) {
		movie := &models.Movie{Status: models.StatusLocked}
		view := BuildRatingsView(movie, ratings, 4)
		if view.Mine != nil {
			t.Errorf("mine = %+v, want nil", view.Mine)
		}
	})

	t.Run("revealed when completed", func(t *testing.T) {
		movie := &models.Movie{Status: models.StatusCompleted}
		view := BuildRatingsView(movie, ratings, 3)
		if !view.Revealed {
			t.Fatal("not revealed")
		}
		if len(view.Ratings) != 2 {
			t.Errorf("ratings = %d, want 2", len(view.Ratings))
		}
		if view.Average == nil || *view.Average != 3.25 {
			t.Errorf("average = %v, want 3.25", view.Average)
		}
	})
}
