// Package client is the HTTP API client used by desk-side tooling and the
// autosave pipeline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"hotel-backend/internal/models"
)

// Client talks to the hotel backend's JSON API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// GetAccount fetches the active account for a room.
func (c *Client) GetAccount(ctx context.Context, roomNumber int) (*models.RoomAccount, error) {
	var account models.RoomAccount
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/room-accounts/%d", roomNumber), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Save pushes an account snapshot. It implements autosave.Saver.
func (c *Client) Save(ctx context.Context, roomNumber int, account *models.RoomAccount) error {
	req := account.AsUpdateRequest()
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/room-accounts/%d", roomNumber), req, nil)
}

// SaveSync is the shutdown path: a short-deadline fire-and-forget save,
// the server side of which responds before doing any work.
func (c *Client) SaveSync(roomNumber int, account *models.RoomAccount) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req := models.SaveSyncRequest{RoomNumber: roomNumber, Account: account.AsUpdateRequest()}
	if err := c.do(ctx, http.MethodPost, "/room-accounts/save-sync", req, nil); err != nil {
		log.Printf("[Client] Sync save for room %d: %v", roomNumber, err)
	}
}
