package out

import (
	"context"

	"tempo/internal/modules/auth/dto"
	"tempo/internal/platform/session"
)

type API interface {
	Signup(ctx context.Context, input dto.SignupInput) (session.Session, error)
	Login(ctx context.Context, input dto.LoginInput) (session.Session, error)
}

// CredentialWiper forgets the locally stored refresh credential on logout.
type CredentialWiper interface {
	Clear()
}
