package models

import (
	"time"

	"gorm.io/gorm"
)

type MemberRole string

const (
	RoleCommissioner MemberRole = "commissioner"
	RoleMember       MemberRole = "member"
)

type AnnouncementDay string

const (
	Monday    AnnouncementDay = "MONDAY"
	Tuesday   AnnouncementDay = "TUESDAY"
	Wednesday AnnouncementDay = "WEDNESDAY"
	Thursday  AnnouncementDay = "THURSDAY"
	Friday    AnnouncementDay = "FRIDAY"
	Saturday  AnnouncementDay = "SATURDAY"
	Sunday    AnnouncementDay = "SUNDAY"
)

type MovieDuration string

const (
	Weekly   MovieDuration = "WEEKLY"
	Biweekly MovieDuration = "BIWEEKLY"
	Monthly  MovieDuration = "MONTHLY"
)

type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"size:100;not null" json:"name"`
	// JoinCode is handed out once at creation and never changes.
	JoinCode string `gorm:"uniqueIndex;not null" json:"join_code"`

	// Associations
	Members  []Member      `gorm:"foreignKey:GroupID" json:"members"`
	Settings GroupSettings `gorm:"foreignKey:GroupID" json:"settings"`
	Movies   []Movie       `gorm:"foreignKey:GroupID" json:"-"`
}

// Member links a user into a group's rotation. Rotation orders within a
// group are always the contiguous sequence 0..N-1; removal and shuffle
// renumber to keep it that way.
type Member struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	GroupID       uint       `gorm:"not null;uniqueIndex:idx_member_group_user" json:"group_id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_member_group_user" json:"user_id"`
	Role          MemberRole `gorm:"type:varchar(20);default:'member'" json:"role"`
	RotationOrder int        `gorm:"not null" json:"rotation_order"`
	IsSkipped     bool       `gorm:"default:false" json:"is_skipped"`
	JoinedAt      time.Time  `gorm:"autoCreateTime" json:"joined_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

// GroupSettings holds the group's schedule and the positional picker
// pointer. CurrentPickerIndex indexes the non-skipped, rotation-ordered
// member list, not a member id.
type GroupSettings struct {
	ID      uint `gorm:"primarykey" json:"id"`
	GroupID uint `gorm:"uniqueIndex;not null" json:"group_id"`

	AnnouncementDay     AnnouncementDay `gorm:"type:varchar(10);not null;default:'MONDAY'" json:"announcement_day"`
	MovieDuration       MovieDuration   `gorm:"type:varchar(10);not null;default:'WEEKLY'" json:"movie_duration"`
	CurrentPickerIndex  int             `gorm:"not null;default:0" json:"current_picker_index"`
	SelectionWindowDays int             `gorm:"not null;default:3" json:"selection_window_days"`
}

func DefaultSettings() GroupSettings {
	return GroupSettings{
		AnnouncementDay:     Monday,
		MovieDuration:       Weekly,
		CurrentPickerIndex:  0,
		SelectionWindowDays: 3,
	}
}

type MemberResponse struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"user_id"`
	Username      string     `json:"username"`
	FullName      string     `json:"full_name"`
	Role          MemberRole `json:"role"`
	RotationOrder int        `json:"rotation_order"`
	IsSkipped     bool       `json:"is_skipped"`
	JoinedAt      time.Time  `json:"joined_at"`
}

func (m *Member) ToResponse() MemberResponse {
	return MemberResponse{
		ID:            m.ID,
		UserID:        m.UserID,
		Username:      m.User.Username,
		FullName:      m.User.FullName,
		Role:          m.Role,
		RotationOrder: m.RotationOrder,
		IsSkipped:     m.IsSkipped,
		JoinedAt:      m.JoinedAt,
	}
}
