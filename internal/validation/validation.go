package validation

import (
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cinecircle/cinecircle-backend/internal/models"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func ValidateUsername(username string) bool {
	return usernameRe.MatchString(NormalizeUsername(username))
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 10
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 8 {
		return 10
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func NormalizeGroupName(name string) string {
	return strings.TrimSpace(name)
}

func ValidateGroupName(name string) bool {
	name = NormalizeGroupName(name)
	return name != "" && len(name) <= 100
}

func NormalizeJoinCode(code string) string {
	return strings.TrimSpace(code)
}

// ValidateRating accepts half-point steps between 0.5 and 5.0 inclusive.
// Halves are exactly representable in a float64, so the doubled value is
// an integer iff the rating sits on a half-point boundary.
func ValidateRating(rating float64) bool {
	if rating < 0.5 || rating > 5.0 {
		return false
	}
	doubled := rating * 2
	return doubled == float64(int64(doubled))
}

func ValidateAnnouncementDay(day models.AnnouncementDay) bool {
	switch day {
	case models.Monday, models.Tuesday, models.Wednesday, models.Thursday,
		models.Friday, models.Saturday, models.Sunday:
		return true
	}
	return false
}

func ValidateMovieDuration(duration models.MovieDuration) bool {
	switch duration {
	case models.Weekly, models.Biweekly, models.Monthly:
		return true
	}
	return false
}
