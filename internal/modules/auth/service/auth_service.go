package service

import (
	"context"
	"fmt"
	"net/http"

	"tempo/internal/modules/auth/dto"
	authout "tempo/internal/modules/auth/port/out"
	"tempo/internal/platform/api"
	"tempo/internal/platform/session"
)

// AuthService owns the login/signup/logout transitions of the process-wide
// session. The request channel's refresh path is the only other writer.
type AuthService struct {
	api    authout.API
	holder *session.Holder
	wiper  authout.CredentialWiper
}

func NewAuthService(apiPort authout.API, holder *session.Holder, wiper authout.CredentialWiper) *AuthService {
	return &AuthService{api: apiPort, holder: holder, wiper: wiper}
}

func (s *AuthService) Signup(ctx context.Context, input dto.SignupInput) (session.Session, error) {
	sess, err := s.api.Signup(ctx, input)
	if err != nil {
		return session.Session{}, err
	}
	s.holder.Install(sess)
	return sess, nil
}

func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (session.Session, error) {
	sess, err := s.api.Login(ctx, input)
	if err != nil {
		return session.Session{}, err
	}
	s.holder.Install(sess)
	return sess, nil
}

// SignupOrLogin mirrors the fallback the service expects from clients: when
// signup is rejected because the account exists (or the payload collides),
// log in with the same credentials instead.
func (s *AuthService) SignupOrLogin(ctx context.Context, input dto.SignupInput) (session.Session, error) {
	sess, err := s.api.Signup(ctx, input)
	if err == nil {
		s.holder.Install(sess)
		return sess, nil
	}
	switch api.StatusOf(err) {
	case http.StatusConflict, http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		return s.Login(ctx, dto.LoginInput{Email: input.Email, Password: input.Password})
	}
	return session.Session{}, fmt.Errorf("signup: %w", err)
}

// Logout clears the session and the stored refresh credential. Clearing the
// holder advances its generation, so a refresh racing this logout cannot
// reinstate the old session.
func (s *AuthService) Logout(context.Context) error {
	s.holder.Clear()
	if s.wiper != nil {
		s.wiper.Clear()
	}
	return nil
}

func (s *AuthService) Current() (session.Session, bool) {
	cur, _ := s.holder.Current()
	return cur, cur.Authenticated()
}
