// HTTP client for the Moonraker printer API
package moonraker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// ErrIncompleteStatus marks a status response missing required telemetry
// fields. Callers skip the affected sample and keep polling.
var ErrIncompleteStatus = errors.New("moonraker: incomplete status payload")

// ErrKlippyNotReady is returned when klippy does not reach the ready state
// within the allotted time.
var ErrKlippyNotReady = errors.New("moonraker: klippy is not ready")

// Client talks to a Moonraker instance over its HTTP JSON API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the Moonraker instance at host:port.
// apiKey may be empty when the instance does not require authentication.
func NewClient(host string, port int, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type serverInfo struct {
	KlippyState string `json:"klippy_state"`
}

type queryResult struct {
	Eventtime float64                    `json:"eventtime"`
	Status    map[string]json.RawMessage `json:"status"`
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("moonraker: request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("moonraker: %s returned %s", path, resp.Status)
	}
	wrapper := struct {
		Result json.RawMessage `json:"result"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return fmt.Errorf("moonraker: decode %s: %w", path, err)
	}
	return json.Unmarshal(wrapper.Result, result)
}

// KlippyState returns the current klippy state from /server/info.
func (c *Client) KlippyState(ctx context.Context) (string, error) {
	var info serverInfo
	if err := c.get(ctx, "/server/info", &info); err != nil {
		return "", err
	}
	return info.KlippyState, nil
}

// WaitKlippyReady polls /server/info until klippy reports ready or ctx expires.
func (c *Client) WaitKlippyReady(ctx context.Context) error {
	for {
		state, err := c.KlippyState(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ErrKlippyNotReady
			}
			return err
		}
		if state == "ready" {
			return nil
		}
		select {
		case <-ctx.Done():
			return ErrKlippyNotReady
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// QuerySnapshot fetches print_stats, motion_report, and toolhead in one
// objects query and returns the decoded snapshot.
func (c *Client) QuerySnapshot(ctx context.Context) (Snapshot, error) {
	var res queryResult
	if err := c.get(ctx, "/printer/objects/query?print_stats&motion_report&toolhead", &res); err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Eventtime: res.Eventtime}
	if err := decodeObject(res.Status, "print_stats", &snap.PrintStats); err != nil {
		return Snapshot{}, err
	}
	if err := decodeObject(res.Status, "motion_report", &snap.MotionReport); err != nil {
		return Snapshot{}, err
	}
	if err := decodeObject(res.Status, "toolhead", &snap.Toolhead); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func decodeObject(status map[string]json.RawMessage, name string, out any) error {
	raw, ok := status[name]
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrIncompleteStatus, name)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIncompleteStatus, name, err)
	}
	return nil
}
