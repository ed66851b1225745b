package services

import (
	"context"

	"github.com/finch-money/finch/internal/dto"
)

// UserSvcFacade defines account registration and authentication.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	GetUserByID(ctx context.Context, userID string) (*dto.UserResponse, error)
}
