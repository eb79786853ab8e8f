package client

import (
	"context"
	"net/http"
	"net/url"
)

// Login получает токен по email/паролю и кладёт его в сессию.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	q := url.Values{"email": {email}, "password": {password}}
	return c.authenticate(ctx, "/auth/login", q)
}

// Register создаёт пользователя; сервер сразу отдаёт токен.
func (c *Client) Register(ctx context.Context, username, password, email string) (string, error) {
	q := url.Values{"username": {username}, "password": {password}, "email": {email}}
	return c.authenticate(ctx, "/auth/register", q)
}

func (c *Client) Logout() error { return c.session.Clear() }

func (c *Client) authenticate(ctx context.Context, path string, q url.Values) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return "", err
	}
	var token string
	if err := c.do(req, &token); err != nil {
		return "", err
	}
	if err := c.session.SetToken(token); err != nil {
		return token, err
	}
	return token, nil
}
