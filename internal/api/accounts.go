package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"rollcall/internal/credentials"
	"rollcall/internal/session"
)

type loginRequest struct {
	IDCardNumber string `json:"id_card_number"`
	Password     string `json:"password"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// Login exchanges an ID card number and password for a credential pair and
// stores it.
func (c *Client) Login(ctx context.Context, idCardNumber, password string) (credentials.Pair, error) {
	if idCardNumber == "" || password == "" {
		return credentials.Pair{}, errors.New("id card number and password are required")
	}

	var pair credentials.Pair
	if err := c.do(ctx, http.MethodPost, c.endpoints.Token, loginRequest{
		IDCardNumber: idCardNumber,
		Password:     password,
	}, &pair); err != nil {
		return credentials.Pair{}, fmt.Errorf("login failed: %w", err)
	}

	if err := c.store.Set(pair); err != nil {
		return credentials.Pair{}, fmt.Errorf("failed to store credentials: %w", err)
	}
	return pair, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Username == "" || req.IDCardNumber == "" || req.Password == "" {
		return nil, errors.New("username, id card number and password are required")
	}

	var user User
	if err := c.do(ctx, http.MethodPost, c.endpoints.Register, req, &user); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &user, nil
}

// Logout blacklists the stored refresh credential server side and ends the
// local session. The local session ends even when the server call fails; that
// failure is returned.
func (c *Client) Logout(ctx context.Context) error {
	pair, ok := c.store.Get()

	var serverErr error
	if ok {
		if err := c.do(ctx, http.MethodPost, c.endpoints.Logout, logoutRequest{Refresh: pair.Refresh}, nil); err != nil {
			serverErr = fmt.Errorf("server side logout failed: %w", err)
		}
	}

	if c.terminator != nil {
		c.terminator.Terminate(ctx, session.ReasonLogout)
	} else if err := c.store.Clear(); err != nil {
		return errors.Join(serverErr, fmt.Errorf("failed to clear credentials: %w", err))
	}

	return serverErr
}
