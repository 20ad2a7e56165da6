package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"bank-gateway/internal/config"
)

// UserService fronts the userservice identity authority for login, signup
// and profile lookups. The gateway never sees a password store; credentials
// are forwarded and discarded.
type UserService struct {
	client         *BackendClient
	loginURI       string
	userserviceURI string
	timeout        time.Duration
}

func NewUserService(client *BackendClient, backends config.BackendConfig) UserServiceInterface {
	return &UserService{
		client:         client,
		loginURI:       backends.LoginURI,
		userserviceURI: backends.UserserviceURI,
		timeout:        backends.Timeout,
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login forwards the credentials and returns the signed bearer credential
// issued by the authority. Login is allowed twice the usual backend budget:
// password verification is deliberately slow.
func (us *UserService) Login(ctx context.Context, username, password string) (string, error) {
	params := url.Values{}
	params.Set("username", username)
	params.Set("password", password)

	var resp loginResponse
	if err := us.client.GetJSON(ctx, us.loginURI, "", params, us.timeout*2, &resp); err != nil {
		slog.Error("login failed", "username", username, "error", err)
		return "", &AuthFailure{Reason: "Login Failed"}
	}

	if resp.Token == "" {
		return "", &AuthFailure{Reason: "Login Failed"}
	}

	slog.Info("user logged in", "username", username)
	return resp.Token, nil
}

// Signup creates a new user. A 201 means the account exists and the caller
// should chain straight into Login with the same credentials.
func (us *UserService) Signup(ctx context.Context, form url.Values) error {
	status, body, err := us.client.PostForm(ctx, us.userserviceURI, form, us.timeout)
	if err != nil {
		return &TransportFailure{Op: "create user", Err: err}
	}

	if status != 201 {
		slog.Error("signup rejected", "status", status)
		return &ValidationFailure{Reason: string(body)}
	}

	return nil
}

type userProfile struct {
	Email string `json:"email"`
}

// GetUserEmail resolves the user's e-mail address from the userservice.
func (us *UserService) GetUserEmail(ctx context.Context, token, username string) (string, error) {
	target := fmt.Sprintf("%s/%s", us.userserviceURI, username)

	var profile userProfile
	if err := us.client.GetJSON(ctx, target, token, nil, us.timeout, &profile); err != nil {
		return "", &TransportFailure{Op: "fetch user profile", Err: err}
	}

	if profile.Email == "" {
		return "", errors.New("no email found for user")
	}

	return profile.Email, nil
}
