package in

import (
	"context"

	"tempo/internal/modules/auth/dto"
	authin "tempo/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Signup(ctx context.Context, email, name, profile, password string) (dto.SessionOutput, error) {
	return h.usecase.SignupOrLogin(ctx, dto.SignupInput{Email: email, Name: name, Profile: profile, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}
