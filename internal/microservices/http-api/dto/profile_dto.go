package dto

import (
	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"
)

// ProfileResponse is the reader's profile plus their borrowing counters.
type ProfileResponse struct {
	*models.UserProfile
	Borrowing *repository.ReaderCounters `json:"borrowing"`
}
