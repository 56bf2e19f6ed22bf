package apiclient

import (
	"context"

	"github.com/gonote/gonote/internal/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    wireUser `json:"user"`
}

// Login exchanges credentials for a token. No token required.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp authResponse
	if err := c.do(ctx, "POST", "/auth/login", credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	return resp.User.toModel(resp.Token), nil
}

// Register uses the legacy single-step flow.
func (c *Client) Register(ctx context.Context, username, password string) (*models.User, error) {
	var resp authResponse
	if err := c.do(ctx, "POST", "/auth/register", credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	return resp.User.toModel(resp.Token), nil
}

// RegisterRequest starts two-step registration. The server issues a
// verification code out of band and returns a message for the user.
func (c *Client) RegisterRequest(ctx context.Context, username, password string) (string, error) {
	var resp authResponse
	if err := c.do(ctx, "POST", "/auth/register/request", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RegisterVerify completes two-step registration and logs in.
func (c *Client) RegisterVerify(ctx context.Context, username, code string) (*models.User, error) {
	body := map[string]string{"username": username, "code": code}
	var resp authResponse
	if err := c.do(ctx, "POST", "/auth/register/verify", body, &resp); err != nil {
		return nil, err
	}
	return resp.User.toModel(resp.Token), nil
}

// SearchUsers looks up users by username substring.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var resp []wireUser
	if err := c.do(ctx, "GET", "/users/search?q="+queryEscape(query), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(resp))
	for _, u := range resp {
		out = append(out, *u.toModel(""))
	}
	return out, nil
}
