package repository

import (
	"github.com/cinecircle/cinecircle-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert relies on the (movie_id, user_id) unique index: concurrent
// submissions from the same user resolve last-write-wins.
func (r *RatingRepository) Upsert(rating *models.Rating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
	}).Create(rating).Error
}

func (r *RatingRepository) FindByID(id uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepository) FindByMovieAndUser(movieID, userID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.Where("movie_id = ? AND user_id = ?", movieID, userID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepository) ListByMovie(movieID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("movie_id = ?", movieID).
		Order("created_at asc").
		Preload("User").
		Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Rating{}, id).Error
}
