package out

import (
	"context"
	"net/http"

	"tempo/internal/modules/auth/dto"
	authout "tempo/internal/modules/auth/port/out"
	"tempo/internal/platform/api"
	"tempo/internal/platform/session"
)

type HTTPAuthAPI struct {
	channel *api.Channel
}

func NewHTTPAuthAPI(channel *api.Channel) authout.API {
	return &HTTPAuthAPI{channel: channel}
}

type authResponse struct {
	AccessToken string       `json:"access_token"`
	User        session.User `json:"user"`
}

func (a *HTTPAuthAPI) Signup(ctx context.Context, input dto.SignupInput) (session.Session, error) {
	body := map[string]string{
		"email":    input.Email,
		"name":     input.Name,
		"profile":  input.Profile,
		"password": input.Password,
	}
	var resp authResponse
	err := a.channel.Do(ctx, api.Request{Method: http.MethodPost, Path: "/auth/signup", Body: body, Public: true}, &resp)
	if err != nil {
		return session.Session{}, err
	}
	return session.Session{Token: resp.AccessToken, User: resp.User}, nil
}

func (a *HTTPAuthAPI) Login(ctx context.Context, input dto.LoginInput) (session.Session, error) {
	body := map[string]string{"email": input.Email, "password": input.Password}
	var resp authResponse
	err := a.channel.Do(ctx, api.Request{Method: http.MethodPost, Path: "/auth/login", Body: body, Public: true}, &resp)
	if err != nil {
		return session.Session{}, err
	}
	return session.Session{Token: resp.AccessToken, User: resp.User}, nil
}
