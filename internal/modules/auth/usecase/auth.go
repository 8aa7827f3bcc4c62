package usecase

import (
	"context"
	"fmt"
	"strings"

	"tempo/internal/modules/auth/dto"
	authin "tempo/internal/modules/auth/port/in"
	"tempo/internal/modules/auth/service"
	apperrors "tempo/internal/platform/errors"
	"tempo/internal/platform/session"
)

const minPasswordLen = 6

type Interactor struct {
	svc *service.AuthService
}

func NewInteractor(svc *service.AuthService) authin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Signup(ctx context.Context, input dto.SignupInput) (dto.SessionOutput, error) {
	if err := validateSignup(input); err != nil {
		return dto.SessionOutput{}, err
	}
	sess, err := i.svc.Signup(ctx, input)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(sess), nil
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	if err := validateLogin(input); err != nil {
		return dto.SessionOutput{}, err
	}
	sess, err := i.svc.Login(ctx, input)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(sess), nil
}

func (i *Interactor) SignupOrLogin(ctx context.Context, input dto.SignupInput) (dto.SessionOutput, error) {
	if err := validateSignup(input); err != nil {
		return dto.SessionOutput{}, err
	}
	sess, err := i.svc.SignupOrLogin(ctx, input)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(sess), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func (i *Interactor) Current(context.Context) (dto.SessionOutput, error) {
	sess, ok := i.svc.Current()
	if !ok {
		return dto.SessionOutput{}, apperrors.ErrNotLoggedIn
	}
	return toOutput(sess), nil
}

func validateSignup(input dto.SignupInput) error {
	if !strings.Contains(input.Email, "@") {
		return fmt.Errorf("%w: valid email is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidInput, minPasswordLen)
	}
	return nil
}

func validateLogin(input dto.LoginInput) error {
	if !strings.Contains(input.Email, "@") {
		return fmt.Errorf("%w: valid email is required", apperrors.ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrInvalidInput, minPasswordLen)
	}
	return nil
}

func toOutput(sess session.Session) dto.SessionOutput {
	return dto.SessionOutput{
		Authenticated: sess.Authenticated(),
		User: dto.UserOutput{
			ID:      sess.User.ID,
			Email:   sess.User.Email,
			Name:    sess.User.Name,
			Profile: sess.User.Profile,
		},
	}
}
