package in

import (
	"context"

	"tempo/internal/modules/auth/dto"
)

type Usecase interface {
	Signup(ctx context.Context, input dto.SignupInput) (dto.SessionOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	// SignupOrLogin tries signup first and falls back to login when the
	// account already exists.
	SignupOrLogin(ctx context.Context, input dto.SignupInput) (dto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (dto.SessionOutput, error)
}
