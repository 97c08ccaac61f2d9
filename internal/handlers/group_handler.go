package handlers

import (
	"strconv"

	"github.com/cinecircle/cinecircle-backend/internal/httpx"
	"github.com/cinecircle/cinecircle-backend/internal/models"
	"github.com/cinecircle/cinecircle-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	return uint(id), err
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.Name == "" {
		return httpx.BadRequest(c, "missing_name", "Group name is required")
	}

	userID := c.Locals("userID").(uint)
	group, err := h.groupService.CreateGroup(req.Name, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func (h *GroupHandler) GetMyGroups(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groups, err := h.groupService.GetUserGroups(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(groups)
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	detail, err := h.groupService.GroupDetail(groupID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

type JoinGroupRequest struct {
	JoinCode string `json:"join_code"`
}

func (h *GroupHandler) JoinGroup(c *fiber.Ctx) error {
	var req JoinGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.JoinCode == "" {
		return httpx.BadRequest(c, "missing_join_code", "Join code is required")
	}

	userID := c.Locals("userID").(uint)
	group, err := h.groupService.JoinByCode(req.JoinCode, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"group_id": group.ID})
}

func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.LeaveGroup(groupID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left group successfully"})
}

func (h *GroupHandler) RemoveMember(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	memberID, err := paramUint(c, "memberID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_member_id", "Invalid member ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.RemoveMember(groupID, memberID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Member removed"})
}

func (h *GroupHandler) Shuffle(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	shuffled, err := h.groupService.Shuffle(groupID, userID)
	if err != nil {
		return respondError(c, err)
	}

	members := make([]models.MemberResponse, 0, len(shuffled))
	for i := range shuffled {
		members = append(members, shuffled[i].ToResponse())
	}
	return c.JSON(fiber.Map{"members": members})
}

type SkipRequest struct {
	Skip bool `json:"skip"`
}

func (h *GroupHandler) SetSkip(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	memberID, err := paramUint(c, "memberID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_member_id", "Invalid member ID")
	}

	var req SkipRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.SetSkip(groupID, memberID, req.Skip, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Skip status updated"})
}

func (h *GroupHandler) PromoteMember(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	memberID, err := paramUint(c, "memberID")
	if err != nil {
		return httpx.BadRequest(c, "invalid_member_id", "Invalid member ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.PromoteMember(groupID, memberID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Member promoted"})
}

type UpdateSettingsRequest struct {
	AnnouncementDay models.AnnouncementDay `json:"announcement_day"`
	MovieDuration   models.MovieDuration   `json:"movie_duration"`
}

func (h *GroupHandler) UpdateSettings(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	userID := c.Locals("userID").(uint)
	settings, err := h.groupService.UpdateSettings(groupID, userID, req.AnnouncementDay, req.MovieDuration)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}
