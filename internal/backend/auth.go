package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ufscompras/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// Login exchanges credentials for a session. A rejected login yields
// *domain.AuthenticationError carrying the backend's message.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var record LoginRecord
	_, err := c.DoJSON(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &record)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return domain.Session{}, domain.NewAuthenticationError(apiErr.Status, apiErr.Message)
		}
		return domain.Session{}, fmt.Errorf("failed to login: %w", err)
	}

	if record.Token == "" || record.User == nil {
		return domain.Session{}, fmt.Errorf("failed to login: %w", ErrIncompleteLogin)
	}

	return domain.Session{
		Token: record.Token,
		User: &domain.User{
			ID:      record.User.ID,
			Name:    record.User.Name,
			Email:   record.User.Email,
			IsAdmin: record.User.IsAdmin,
		},
	}, nil
}

// ErrIncompleteLogin is returned when a 2xx login response lacks the token or user.
var ErrIncompleteLogin = errors.New("login response without token or user")
