package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pders01/journal/internal/session"
)

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   credentials{Username: username, Password: password},
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, &res)
	if err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("login response carried no token")
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, username, password, role string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   credentials{Username: username, Password: password, Role: role},
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, nil)
}

func (c *Client) Profile(ctx context.Context, sess session.Session) (Profile, error) {
	var p Profile
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/auth/profile",
		sess:   sess,
		auth:   true,
	}, &p)
	return p, err
}

// SignIn logs in and reads the profile, returning a complete session. The
// profile's role wins over the one in the login response.
func (c *Client) SignIn(ctx context.Context, username, password string) (session.Session, error) {
	res, err := c.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, fmt.Errorf("logging in: %w", err)
	}

	sess := session.Session{Token: res.Token, Role: res.Role, Username: username}
	p, err := c.Profile(ctx, sess)
	if err != nil {
		return session.Session{}, fmt.Errorf("loading profile: %w", err)
	}

	sess.UserID = p.ID
	if p.Username != "" {
		sess.Username = p.Username
	}
	if p.Role != "" {
		sess.Role = p.Role
	}
	return sess, nil
}
