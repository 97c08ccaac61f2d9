package repository

import (
	"github.com/cinecircle/cinecircle-backend/internal/models"
	"github.com/cinecircle/cinecircle-backend/internal/rotation"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create persists the group together with any attached members and
// settings in one insert.
func (r *GroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Preload("Members.User").Preload("Settings").First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) FindByJoinCode(code string) (*models.Group, error) {
	var group models.Group
	err := r.db.Where("join_code = ?", code).
		Preload("Members").
		Preload("Settings").
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Joins("JOIN members ON members.group_id = groups.id").
		Where("members.user_id = ?", userID).
		Preload("Settings").
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) GetMembers(groupID uint) ([]models.Member, error) {
	var members []models.Member
	err := r.db.Where("group_id = ?", groupID).
		Order("rotation_order asc").
		Preload("User").
		Find(&members).Error
	return members, err
}

func (r *GroupRepository) FindMember(groupID, userID uint) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *GroupRepository) FindMemberByID(memberID uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.Preload("User").First(&member, memberID).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *GroupRepository) AddMember(member *models.Member) error {
	return r.db.Create(member).Error
}

func (r *GroupRepository) UpdateMember(member *models.Member) error {
	return r.db.Save(member).Error
}

func (r *GroupRepository) CountCommissioners(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).
		Where("group_id = ? AND role = ?", groupID, models.RoleCommissioner).
		Count(&count).Error
	return count, err
}

func (r *GroupRepository) RemoveMemberAndRenumber(groupID, memberID uint, pickerIndex func(remaining []models.Member) int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ? AND id = ?", groupID, memberID).
			Delete(&models.Member{}).Error; err != nil {
			return err
		}

		var remaining []models.Member
		if err := tx.Where("group_id = ?", groupID).
			Order("rotation_order asc").
			Find(&remaining).Error; err != nil {
			return err
		}

		renumbered := rotation.Renumber(remaining)
		for i := range renumbered {
			if err := tx.Model(&models.Member{}).
				Where("id = ?", renumbered[i].ID).
				Update("rotation_order", renumbered[i].RotationOrder).Error; err != nil {
				return err
			}
		}

		if pickerIndex != nil {
			if err := tx.Model(&models.GroupSettings{}).
				Where("group_id = ?", groupID).
				Update("current_picker_index", pickerIndex(renumbered)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GroupRepository) ShuffleMembers(groupID uint, permute func(members []models.Member) []models.Member) ([]models.Member, error) {
	var shuffled []models.Member
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var members []models.Member
		if err := tx.Where("group_id = ?", groupID).
			Order("rotation_order asc").
			Preload("User").
			Find(&members).Error; err != nil {
			return err
		}

		shuffled = permute(members)
		for i := range shuffled {
			if err := tx.Model(&models.Member{}).
				Where("id = ?", shuffled[i].ID).
				Update("rotation_order", shuffled[i].RotationOrder).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.GroupSettings{}).
			Where("group_id = ?", groupID).
			Update("current_picker_index", 0).Error
	})
	if err != nil {
		return nil, err
	}
	return shuffled, nil
}

func (r *GroupRepository) GetSettings(groupID uint) (*models.GroupSettings, error) {
	var settings models.GroupSettings
	if err := r.db.Where("group_id = ?", groupID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *GroupRepository) UpdateSettings(settings *models.GroupSettings) error {
	return r.db.Save(settings).Error
}
