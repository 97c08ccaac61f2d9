package service

import (
	"errors"
	"math/rand"

	"github.com/cinecircle/cinecircle-backend/internal/metrics"
	"github.com/cinecircle/cinecircle-backend/internal/models"
	"github.com/cinecircle/cinecircle-backend/internal/repository"
	"github.com/cinecircle/cinecircle-backend/internal/rotation"
	"github.com/cinecircle/cinecircle-backend/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupService orchestrates group membership and the turn rotation. The
// random source is injected so shuffles are deterministic under test.
type GroupService struct {
	groupRepo repository.GroupRepositoryInterface
	rand      *rand.Rand
}

func NewGroupService(groupRepo repository.GroupRepositoryInterface, rnd *rand.Rand) *GroupService {
	return &GroupService{groupRepo: groupRepo, rand: rnd}
}

// CreateGroup creates the group with its creator installed as
// commissioner at rotation order 0 and default settings, in one insert.
func (s *GroupService) CreateGroup(name string, creatorID uint) (*models.Group, error) {
	name = validation.NormalizeGroupName(name)
	if !validation.ValidateGroupName(name) {
		return nil, errors.New("group name is required")
	}

	group := &models.Group{
		Name:     name,
		JoinCode: uuid.NewString(),
		Settings: models.DefaultSettings(),
		Members: []models.Member{
			{
				UserID:        creatorID,
				Role:          models.RoleCommissioner,
				RotationOrder: 0,
			},
		},
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	metrics.GroupsCreated.Inc()
	return s.groupRepo.FindByID(group.ID)
}

// JoinByCode adds the user at the end of the rotation.
func (s *GroupService) JoinByCode(code string, userID uint) (*models.Group, error) {
	code = validation.NormalizeJoinCode(code)
	if code == "" {
		return nil, errors.New("join code is required")
	}

	group, err := s.groupRepo.FindByJoinCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.groupRepo.FindMember(group.ID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := &models.Member{
		GroupID:       group.ID,
		UserID:        userID,
		Role:          models.RoleMember,
		RotationOrder: rotation.NextOrder(group.Members),
	}
	if err := s.groupRepo.AddMember(member); err != nil {
		return nil, err
	}
	return group, nil
}

// RemoveMember removes another member and renumbers the rotation. The
// picker pointer is recomputed so removal of an unrelated member never
// silently shifts whose turn it is.
func (s *GroupService) RemoveMember(groupID, memberID, callerID uint) error {
	if err := s.requireCommissioner(groupID, callerID); err != nil {
		return err
	}

	target, err := s.groupRepo.FindMemberByID(memberID)
	if err != nil || target.GroupID != groupID {
		return ErrNotFound
	}
	if target.UserID == callerID {
		return ErrSelfRemoval
	}

	return s.removeAndPreservePicker(groupID, memberID)
}

// LeaveGroup lets a member walk away, unless they are the group's last
// commissioner.
func (s *GroupService) LeaveGroup(groupID, userID uint) error {
	member, err := s.groupRepo.FindMember(groupID, userID)
	if err != nil {
		return ErrNotMember
	}
	if member.Role == models.RoleCommissioner {
		count, err := s.groupRepo.CountCommissioners(groupID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastCommissioner
		}
	}
	return s.removeAndPreservePicker(groupID, member.ID)
}

func (s *GroupService) removeAndPreservePicker(groupID, memberID uint) error {
	members, err := s.groupRepo.GetMembers(groupID)
	if err != nil {
		return err
	}
	settings, err := s.groupRepo.GetSettings(groupID)
	if err != nil {
		return err
	}
	picker := rotation.CurrentPicker(members, settings.CurrentPickerIndex)

	return s.groupRepo.RemoveMemberAndRenumber(groupID, memberID, func(remaining []models.Member) int {
		if picker == nil || picker.ID == memberID {
			return 0
		}
		if i := rotation.EligibleIndex(remaining, picker.ID); i >= 0 {
			return i
		}
		return 0
	})
}

// PromoteMember raises a member to commissioner. It is the escape hatch
// that lets the current last commissioner eventually leave.
func (s *GroupService) PromoteMember(groupID, memberID, callerID uint) error {
	if err := s.requireCommissioner(groupID, callerID); err != nil {
		return err
	}
	member, err := s.groupRepo.FindMemberByID(memberID)
	if err != nil || member.GroupID != groupID {
		return ErrNotFound
	}
	if member.Role == models.RoleCommissioner {
		return nil
	}
	member.Role = models.RoleCommissioner
	return s.groupRepo.UpdateMember(member)
}

// Shuffle draws a uniformly random rotation and hands the first turn to
// whoever lands at order 0. The member read happens inside the
// repository's transaction so the permutation covers exactly the rows
// being rewritten, even if membership changed since the caller looked.
func (s *GroupService) Shuffle(groupID, callerID uint) ([]models.Member, error) {
	if err := s.requireCommissioner(groupID, callerID); err != nil {
		return nil, err
	}
	return s.groupRepo.ShuffleMembers(groupID, func(members []models.Member) []models.Member {
		return rotation.Shuffle(members, s.rand)
	})
}

// SetSkip toggles a member out of (or back into) the rotation without
// renumbering; the eligible view recomputes naturally on the next read.
func (s *GroupService) SetSkip(groupID, memberID uint, skip bool, callerID uint) error {
	if err := s.requireCommissioner(groupID, callerID); err != nil {
		return err
	}
	member, err := s.groupRepo.FindMemberByID(memberID)
	if err != nil || member.GroupID != groupID {
		return ErrNotFound
	}
	member.IsSkipped = skip
	return s.groupRepo.UpdateMember(member)
}

func (s *GroupService) UpdateSettings(groupID, callerID uint, day models.AnnouncementDay, duration models.MovieDuration) (*models.GroupSettings, error) {
	if err := s.requireCommissioner(groupID, callerID); err != nil {
		return nil, err
	}
	if !validation.ValidateAnnouncementDay(day) || !validation.ValidateMovieDuration(duration) {
		return nil, ErrInvalidSettings
	}

	settings, err := s.groupRepo.GetSettings(groupID)
	if err != nil {
		return nil, err
	}
	settings.AnnouncementDay = day
	settings.MovieDuration = duration
	if err := s.groupRepo.UpdateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *GroupService) GetUserGroups(userID uint) ([]models.Group, error) {
	return s.groupRepo.GetUserGroups(userID)
}

// CurrentPicker resolves whose turn it is, or nil when nobody may pick.
func (s *GroupService) CurrentPicker(groupID uint) (*models.Member, error) {
	members, err := s.groupRepo.GetMembers(groupID)
	if err != nil {
		return nil, err
	}
	settings, err := s.groupRepo.GetSettings(groupID)
	if err != nil {
		return nil, err
	}
	return rotation.CurrentPicker(members, settings.CurrentPickerIndex), nil
}

// GroupDetail is the membership-gated view of one group.
type GroupDetail struct {
	ID            uint                    `json:"id"`
	Name          string                  `json:"name"`
	JoinCode      string                  `json:"join_code"`
	Members       []models.MemberResponse `json:"members"`
	Settings      models.GroupSettings    `json:"settings"`
	CurrentPicker *models.MemberResponse  `json:"current_picker"`
}

func (s *GroupService) GroupDetail(groupID, callerID uint) (*GroupDetail, error) {
	if _, err := s.groupRepo.FindMember(groupID, callerID); err != nil {
		return nil, ErrNotMember
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	members, err := s.groupRepo.GetMembers(groupID)
	if err != nil {
		return nil, err
	}

	detail := &GroupDetail{
		ID:       group.ID,
		Name:     group.Name,
		JoinCode: group.JoinCode,
		Settings: group.Settings,
		Members:  make([]models.MemberResponse, 0, len(members)),
	}
	for i := range members {
		detail.Members = append(detail.Members, members[i].ToResponse())
	}
	if picker := rotation.CurrentPicker(members, group.Settings.CurrentPickerIndex); picker != nil {
		resp := picker.ToResponse()
		detail.CurrentPicker = &resp
	}
	return detail, nil
}

// IsMember reports group membership for other services and handlers.
func (s *GroupService) IsMember(groupID, userID uint) (bool, error) {
	if _, err := s.groupRepo.FindMember(groupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *GroupService) requireCommissioner(groupID, userID uint) error {
	member, err := s.groupRepo.FindMember(groupID, userID)
	if err != nil {
		return ErrNotMember
	}
	if member.Role != models.RoleCommissioner {
		return ErrForbidden
	}
	return nil
}
