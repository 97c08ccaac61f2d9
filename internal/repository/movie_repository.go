package repository

import (
	"errors"

	"github.com/cinecircle/cinecircle-backend/internal/models"
	"gorm.io/gorm"
)

// ErrActiveMovieExists is returned by CreateIfNoActive when the group
// already has a pick in LOCKED, PUBLISHED or RATING_PERIOD.
var ErrActiveMovieExists = errors.New("group already has an active movie")

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) CreateIfNoActive(movie *models.Movie) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Movie{}).
			Where("group_id = ? AND status IN ?", movie.GroupID, models.ActiveStatuses).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrActiveMovieExists
		}
		return tx.Create(movie).Error
	})
}

func (r *MovieRepository) FindByID(id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepository) FindActiveByGroup(groupID uint) (*models.Movie, error) {
	var movie models.Movie
	err := r.db.Where("group_id = ? AND status IN ?", groupID, models.ActiveStatuses).
		First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *MovieRepository) ListByGroup(groupID uint) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.Where("group_id = ?", groupID).
		Order("created_at desc").
		Find(&movies).Error
	return movies, err
}

func (r *MovieRepository) Update(movie *models.Movie) error {
	return r.db.Save(movie).Error
}
