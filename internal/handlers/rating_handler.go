package handlers

import (
	"github.com/cinecircle/cinecircle-backend/internal/httpx"
	"github.com/cinecircle/cinecircle-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type RatingHandler struct {
	ratingService *service.RatingService
}

func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

type SubmitRatingRequest struct {
	Rating float64 `json:"rating"`
	Review *string `json:"review"`
}

func (h *RatingHandler) SubmitRating(c *fiber.Ctx) error {
	movieID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_movie_id", "Invalid movie ID")
	}

	var req SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	userID := c.Locals("userID").(uint)
	rating, err := h.ratingService.SubmitRating(movieID, userID, req.Rating, req.Review)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"rating": rating.ToResponse()})
}

func (h *RatingHandler) DeleteRating(c *fiber.Ctx) error {
	ratingID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_rating_id", "Invalid rating ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.ratingService.DeleteRating(ratingID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Rating deleted"})
}
