package repository

import (
	"github.com/cinecircle/cinecircle-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
}

// GroupRepositoryInterface defines the contract for group, membership and
// settings operations. Renumbering methods are transactional: the
// read-then-rewrite of rotation orders must never interleave with a
// concurrent join or removal.
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	FindByJoinCode(code string) (*models.Group, error)
	GetUserGroups(userID uint) ([]models.Group, error)

	GetMembers(groupID uint) ([]models.Member, error)
	FindMember(groupID, userID uint) (*models.Member, error)
	FindMemberByID(memberID uint) (*models.Member, error)
	AddMember(member *models.Member) error
	UpdateMember(member *models.Member) error
	CountCommissioners(groupID uint) (int64, error)

	// RemoveMemberAndRenumber deletes the member and rewrites the remaining
	// rotation orders to 0..N-1 in one transaction. pickerIndex, when
	// non-nil, receives the renumbered members and returns the new
	// CurrentPickerIndex, written in the same transaction.
	RemoveMemberAndRenumber(groupID, memberID uint, pickerIndex func(remaining []models.Member) int) error

	// ShuffleMembers re-reads the group's members inside its transaction,
	// hands them to permute, writes the returned rotation orders and
	// resets CurrentPickerIndex to 0. Reading and rewriting in the same
	// transaction means permute always sees the row set being rewritten.
	ShuffleMembers(groupID uint, permute func(members []models.Member) []models.Member) ([]models.Member, error)

	GetSettings(groupID uint) (*models.GroupSettings, error)
	UpdateSettings(settings *models.GroupSettings) error
}

// MovieRepositoryInterface defines the contract for movie lifecycle storage.
type MovieRepositoryInterface interface {
	// CreateIfNoActive creates the movie unless the group already has one
	// in an active status; then it returns ErrActiveMovieExists. Check and
	// create run in one transaction so concurrent picks cannot both win.
	CreateIfNoActive(movie *models.Movie) error
	FindByID(id uint) (*models.Movie, error)
	FindActiveByGroup(groupID uint) (*models.Movie, error)
	ListByGroup(groupID uint) ([]models.Movie, error)
	Update(movie *models.Movie) error
}

// RatingRepositoryInterface defines the contract for rating storage.
type RatingRepositoryInterface interface {
	// Upsert creates or overwrites the rating keyed on (movie_id, user_id).
	Upsert(rating *models.Rating) error
	FindByID(id uint) (*models.Rating, error)
	FindByMovieAndUser(movieID, userID uint) (*models.Rating, error)
	ListByMovie(movieID uint) ([]models.Rating, error)
	Delete(id uint) error
}
