package service

import (
	"errors"

	"github.com/halcyonchat/halcyon-backend/internal/models"
	"github.com/halcyonchat/halcyon-backend/internal/repository"
)

const userListLimit = 100

// Presence answers whether a user currently has a live realtime connection.
type Presence interface {
	IsOnline(userID string) bool
}

type UserService struct {
	userRepo repository.UserRepositoryInterface
	presence Presence
}

func NewUserService(userRepo repository.UserRepositoryInterface, presence Presence) *UserService {
	return &UserService{
		userRepo: userRepo,
		presence: presence,
	}
}

func (s *UserService) ListUsers(requesterID string) ([]models.UserResponse, error) {
	users, err := s.userRepo.ListAll(requesterID, userListLimit)
	if err != nil {
		return nil, err
	}
	return s.toResponses(users), nil
}

// SearchUsers matches username or display name. Queries shorter than two
// characters return an empty result rather than the whole directory.
func (s *UserService) SearchUsers(query, requesterID string) ([]models.UserResponse, error) {
	if len(query) < 2 {
		return []models.UserResponse{}, nil
	}
	users, err := s.userRepo.Search(query, requesterID, userListLimit)
	if err != nil {
		return nil, err
	}
	return s.toResponses(users), nil
}

func (s *UserService) UpdateAvatar(userID, avatar string) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.userRepo.UpdateAvatar(userID, avatar)
}

func (s *UserService) toResponses(users []models.User) []models.UserResponse {
	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponseWithPresence(s.presence.IsOnline(users[i].ID))
	}
	return responses
}
