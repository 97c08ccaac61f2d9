package handlers

import (
	"github.com/cinecircle/cinecircle-backend/internal/httpx"
	"github.com/cinecircle/cinecircle-backend/internal/models"
	"github.com/cinecircle/cinecircle-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type MovieHandler struct {
	movieService *service.MovieService
}

func NewMovieHandler(movieService *service.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

func (h *MovieHandler) SelectMovie(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	var input service.SelectMovieInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if input.TMDBID == 0 || input.Title == "" {
		return httpx.BadRequest(c, "missing_metadata", "TMDB ID and title are required")
	}

	userID := c.Locals("userID").(uint)
	userName := httpx.LocalString(c, "userName")

	movie, err := h.movieService.SelectMovie(c.Context(), groupID, userID, userName, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movie.ToResponse())
}

func (h *MovieHandler) ListGroupMovies(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	movies, err := h.movieService.ListGroupMovies(groupID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movies)
}

func (h *MovieHandler) GetActiveMovie(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	movie, err := h.movieService.ActiveMovie(groupID, userID)
	if err != nil {
		return respondError(c, err)
	}
	if movie == nil {
		return c.JSON(fiber.Map{"movie": nil})
	}
	return c.JSON(fiber.Map{"movie": movie.ToResponse()})
}

func (h *MovieHandler) GetMovie(c *fiber.Ctx) error {
	movieID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_movie_id", "Invalid movie ID")
	}

	userID := c.Locals("userID").(uint)
	detail, err := h.movieService.MovieDetail(movieID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

type TransitionRequest struct {
	Status models.MovieStatus `json:"status"`
}

func (h *MovieHandler) UpdateStatus(c *fiber.Ctx) error {
	movieID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_movie_id", "Invalid movie ID")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if !req.Status.Valid() {
		return httpx.BadRequest(c, "invalid_status", "Unknown movie status")
	}

	userID := c.Locals("userID").(uint)
	movie, err := h.movieService.Transition(movieID, userID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movie.ToResponse())
}
