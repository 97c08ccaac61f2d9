package handlers

import (
	"errors"
	"log/slog"

	"github.com/cinecircle/cinecircle-backend/internal/httpx"
	"github.com/cinecircle/cinecircle-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// respondError maps the service failure taxonomy onto HTTP statuses.
// Anything unmapped is logged and surfaced as a generic internal error
// so persistence and provider details never leak to clients.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return httpx.Unauthorized(c, "unauthenticated", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return httpx.Forbidden(c, "forbidden", err.Error())
	case errors.Is(err, service.ErrNotMember):
		return httpx.Forbidden(c, "not_member", err.Error())
	case errors.Is(err, service.ErrNotYourTurn):
		return httpx.Forbidden(c, "not_your_turn", err.Error())
	case errors.Is(err, service.ErrAlreadySelected):
		return httpx.Conflict(c, "already_selected", err.Error())
	case errors.Is(err, service.ErrAlreadyMember):
		return httpx.Conflict(c, "already_member", err.Error())
	case errors.Is(err, service.ErrSelfRemoval):
		return httpx.BadRequest(c, "self_removal", err.Error())
	case errors.Is(err, service.ErrLastCommissioner):
		return httpx.BadRequest(c, "last_commissioner", err.Error())
	case errors.Is(err, service.ErrInvalidRating):
		return httpx.BadRequest(c, "invalid_rating", err.Error())
	case errors.Is(err, service.ErrRatingClosed):
		return httpx.BadRequest(c, "rating_closed", err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return httpx.BadRequest(c, "invalid_transition", err.Error())
	case errors.Is(err, service.ErrInvalidSettings):
		return httpx.BadRequest(c, "invalid_settings", err.Error())
	case errors.Is(err, service.ErrNotFoundOrForbidden):
		return httpx.NotFound(c, "not_found", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return httpx.NotFound(c, "not_found", err.Error())
	default:
		slog.Error("request failed", "path", c.Path(), "error", err)
		return httpx.Internal(c, "internal_error")
	}
}
