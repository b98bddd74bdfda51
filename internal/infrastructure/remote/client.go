// Package remote fetches the public user directory used as the primary data
// source, mapping its records onto the local user shape.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"userdesk/internal/domain/user"
	"userdesk/internal/infrastructure/idgen"
)

// maxBodyBytes caps how much of a response body is decoded
const maxBodyBytes = 8 << 20

var ErrUnexpectedStatus = errors.New("remote directory returned unexpected status")

// Client talks to a dummyjson-compatible users endpoint
type Client struct {
	url        string
	httpClient *http.Client
	newID      idgen.Func
}

// NewClient creates a client for url with a per-request timeout
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		newID:      idgen.New,
	}
}

// URL returns the endpoint the client fetches from
func (c *Client) URL() string {
	return c.url
}

type remoteAddress struct {
	State   string `json:"state"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type remoteUser struct {
	ID        any            `json:"id"`
	Username  string         `json:"username"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Address   *remoteAddress `json:"address"`
	Age       *float64       `json:"age"`
}

type usersResponse struct {
	Users []remoteUser `json:"users"`
}

// FetchUsers downloads the remote list and maps it to local users
func (c *Client) FetchUsers(ctx context.Context) ([]user.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()

	var body usersResponse
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]user.User, 0, len(body.Users))
	for _, ru := range body.Users {
		users = append(users, c.mapUser(ru))
	}
	return users, nil
}

func (c *Client) mapUser(ru remoteUser) user.User {
	u := user.User{
		ID:       c.mapID(ru.ID),
		Username: ru.Username,
		Email:    ru.Email,
	}

	if u.Username == "" {
		u.Username = strings.TrimSpace(ru.FirstName + " " + ru.LastName)
	}
	if u.Username == "" {
		u.Username = "user"
	}

	if ru.Address != nil {
		u.State = ru.Address.State
		if u.State == "" {
			u.State = ru.Address.City
		}
		u.Country = ru.Address.Country
	}

	if ru.Age != nil {
		u.Age = int(*ru.Age)
	}
	return u
}

func (c *Client) mapID(id any) string {
	switch v := id.(type) {
	case nil:
		return c.newID()
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
