package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrLoginTaken         = errors.New("login already taken")
)

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Register creates an account on the server. No token is issued; follow with
// Login.
func (a *App) Register(ctx context.Context, login, password string) error {
	resp, err := a.postAuth(ctx, "/api/v1/auth/register", login, password)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		return nil
	case http.StatusConflict:
		return ErrLoginTaken
	default:
		return fmt.Errorf("register failed: server returned %d", resp.StatusCode)
	}
}

// Login authenticates against the server and stores the issued token
// encrypted on disk.
func (a *App) Login(ctx context.Context, login, password string) error {
	resp, err := a.postAuth(ctx, "/api/v1/auth/login", login, password)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: server returned %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&lr); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if lr.Token == "" {
		return fmt.Errorf("login failed: empty token in response")
	}

	if err := a.Credentials.SaveToken(lr.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Logout drops the stored token. The server keeps no session state.
func (a *App) Logout() error {
	return a.Credentials.Clear()
}

func (a *App) IsAuthenticated() bool {
	_, err := a.Credentials.Token()
	return err == nil
}

func (a *App) postAuth(ctx context.Context, path, login, password string) (*http.Response, error) {
	if a.Config.OfflineMode {
		return nil, fmt.Errorf("offline mode has no server to authenticate against")
	}

	body, err := json.Marshal(authRequest{Login: login, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode auth request: %w", err)
	}

	url := strings.TrimRight(a.Config.ServerAddress, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send auth request: %w", err)
	}
	return resp, nil
}
