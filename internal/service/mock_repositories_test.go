package service

import (
	"sort"
	"time"

	"github.com/cinecircle/cinecircle-backend/internal/models"
	"github.com/cinecircle/cinecircle-backend/internal/repository"
	"github.com/cinecircle/cinecircle-backend/internal/rotation"
	"gorm.io/gorm"
)

// MockGroupRepository is an in-memory implementation of
// repository.GroupRepositoryInterface for tests.
type MockGroupRepository struct {
	groups       map[uint]*models.Group
	members      map[uint]*models.Member
	settings     map[uint]*models.GroupSettings
	nextGroupID  uint
	nextMemberID uint
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups:       make(map[uint]*models.Group),
		members:      make(map[uint]*models.Member),
		settings:     make(map[uint]*models.GroupSettings),
		nextGroupID:  1,
		nextMemberID: 1,
	}
}

func (m *MockGroupRepository) Create(group *models.Group) error {
	if group.ID == 0 {
		group.ID = m.nextGroupID
		m.nextGroupID++
	}
	// Mimic GORM association creation for nested members and settings.
	for i := range group.Members {
		member := group.Members[i]
		member.GroupID = group.ID
		if member.ID == 0 {
			member.ID = m.nextMemberID
			m.nextMemberID++
		}
		group.Members[i] = member
		copied := member
		m.members[member.ID] = &copied
	}
	settings := group.Settings
	settings.GroupID = group.ID
	if settings.ID == 0 {
		settings.ID = group.ID
	}
	m.settings[group.ID] = &settings

	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *MockGroupRepository) FindByID(id uint) (*models.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *g
	members, _ := m.GetMembers(id)
	out.Members = members
	if s, ok := m.settings[id]; ok {
		out.Settings = *s
	}
	return &out, nil
}

func (m *MockGroupRepository) FindByJoinCode(code string) (*models.Group, error) {
	for id, g := range m.groups {
		if g.JoinCode == code {
			return m.FindByID(id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var out []models.Group
	for _, member := range m.members {
		if member.UserID == userID {
			if g, ok := m.groups[member.GroupID]; ok {
				out = append(out, *g)
			}
		}
	}
	return out, nil
}

func (m *MockGroupRepository) GetMembers(groupID uint) ([]models.Member, error) {
	var out []models.Member
	for _, member := range m.members {
		if member.GroupID == groupID {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RotationOrder < out[j].RotationOrder
	})
	return out, nil
}

func (m *MockGroupRepository) FindMember(groupID, userID uint) (*models.Member, error) {
	for _, member := range m.members {
		if member.GroupID == groupID && member.UserID == userID {
			out := *member
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupRepository) FindMemberByID(memberID uint) (*models.Member, error) {
	member, ok := m.members[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *member
	return &out, nil
}

func (m *MockGroupRepository) AddMember(member *models.Member) error {
	if member.ID == 0 {
		member.ID = m.nextMemberID
		m.nextMemberID++
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	copied := *member
	m.members[member.ID] = &copied
	return nil
}

func (m *MockGroupRepository) UpdateMember(member *models.Member) error {
	if _, ok := m.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *member
	m.members[member.ID] = &copied
	return nil
}

func (m *MockGroupRepository) CountCommissioners(groupID uint) (int64, error) {
	var count int64
	for _, member := range m.members {
		if member.GroupID == groupID && member.Role == models.RoleCommissioner {
			count++
		}
	}
	return count, nil
}

func (m *MockGroupRepository) RemoveMemberAndRenumber(groupID, memberID uint, pickerIndex func(remaining []models.Member) int) error {
	if member, ok := m.members[memberID]; ok && member.GroupID == groupID {
		delete(m.members, memberID)
	}
	remaining, _ := m.GetMembers(groupID)
	renumbered := rotation.Renumber(remaining)
	for i := range renumbered {
		stored := renumbered[i]
		m.members[stored.ID] = &stored
	}
	if pickerIndex != nil {
		if s, ok := m.settings[groupID]; ok {
			s.CurrentPickerIndex = pickerIndex(renumbered)
		}
	}
	return nil
}

func (m *MockGroupRepository) ShuffleMembers(groupID uint, permute func(members []models.Member) []models.Member) ([]models.Member, error) {
	members, _ := m.GetMembers(groupID)
	shuffled := permute(members)
	for i := range shuffled {
		if stored, ok := m.members[shuffled[i].ID]; ok && stored.GroupID == groupID {
			stored.RotationOrder = shuffled[i].RotationOrder
		}
	}
	if s, ok := m.settings[groupID]; ok {
		s.CurrentPickerIndex = 0
	}
	return shuffled, nil
}

func (m *MockGroupRepository) GetSettings(groupID uint) (*models.GroupSettings, error) {
	s, ok := m.settings[groupID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	return &out, nil
}

func (m *MockGroupRepository) UpdateSettings(settings *models.GroupSettings) error {
	copied := *settings
	m.settings[settings.GroupID] = &copied
	return nil
}

// MockMovieRepository is an in-memory implementation of
// repository.MovieRepositoryInterface for tests.
type MockMovieRepository struct {
	movies map[uint]*models.Movie
	nextID uint
}

func NewMockMovieRepository() *MockMovieRepository {
	return &MockMovieRepository{
		movies: make(map[uint]*models.Movie),
		nextID: 1,
	}
}

func (m *MockMovieRepository) CreateIfNoActive(movie *models.Movie) error {
	for _, existing := range m.movies {
		if existing.GroupID == movie.GroupID && existing.Status.Active() {
			return repository.ErrActiveMovieExists
		}
	}
	if movie.ID == 0 {
		movie.ID = m.nextID
		m.nextID++
	}
	copied := *movie
	m.movies[movie.ID] = &copied
	return nil
}

func (m *MockMovieRepository) FindByID(id uint) (*models.Movie, error) {
	movie, ok := m.movies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *movie
	return &out, nil
}

func (m *MockMovieRepository) FindActiveByGroup(groupID uint) (*models.Movie, error) {
	for _, movie := range m.movies {
		if movie.GroupID == groupID && movie.Status.Active() {
			out := *movie
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMovieRepository) ListByGroup(groupID uint) ([]models.Movie, error) {
	var out []models.Movie
	for _, movie := range m.movies {
		if movie.GroupID == groupID {
			out = append(out, *movie)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockMovieRepository) Update(movie *models.Movie) error {
	if _, ok := m.movies[movie.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *movie
	m.movies[movie.ID] = &copied
	return nil
}

// MockRatingRepository is an in-memory implementation of
// repository.RatingRepositoryInterface for tests.
type MockRatingRepository struct {
	ratings map[uint]*models.Rating
	nextID  uint
}

func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings: make(map[uint]*models.Rating),
		nextID:  1,
	}
}

func (m *MockRatingRepository) Upsert(rating *models.Rating) error {
	for _, existing := range m.ratings {
		if existing.MovieID == rating.MovieID && existing.UserID == rating.UserID {
			existing.Rating = rating.Rating
			existing.Review = rating.Review
			existing.UpdatedAt = time.Now()
			rating.ID = existing.ID
			return nil
		}
	}
	rating.ID = m.nextID
	m.nextID++
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt
	copied := *rating
	m.ratings[rating.ID] = &copied
	return nil
}

func (m *MockRatingRepository) FindByID(id uint) (*models.Rating, error) {
	rating, ok := m.ratings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *rating
	return &out, nil
}

func (m *MockRatingRepository) FindByMovieAndUser(movieID, userID uint) (*models.Rating, error) {
	for _, rating := range m.ratings {
		if rating.MovieID == movieID && rating.UserID == userID {
			out := *rating
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRatingRepository) ListByMovie(movieID uint) ([]models.Rating, error) {
	var out []models.Rating
	for _, rating := range m.ratings {
		if rating.MovieID == movieID {
			out = append(out, *rating)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRatingRepository) Delete(id uint) error {
	delete(m.ratings, id)
	return nil
}

// MockUserRepository is an in-memory implementation of
// repository.UserRepositoryInterface for tests.
type MockUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}
