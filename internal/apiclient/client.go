// Package apiclient is the HTTP realization of the attendance data source:
// it talks to the backend's auth, academic, and analytics endpoints the way
// the frontend does, with a bearer token obtained once per run.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dasschool/das-verify/internal/model"
)

// ErrAuthenticationFailed means the login call was rejected. A run cannot
// proceed without credentials.
var ErrAuthenticationFailed = errors.New("authentication failed")

// envelope mirrors the backend's response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is an authenticated HTTP client for the attendance API. It is not
// safe for concurrent use; the verification run is sequential by design.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
	log     zerolog.Logger
}

// New creates a Client for the given API base URL (e.g.
// "http://localhost:8000/api/v1").
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Login exchanges the credentials for a bearer token attached to all
// subsequent requests. Rejected credentials yield ErrAuthenticationFailed.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrAuthenticationFailed
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}

	var login model.LoginResponse
	if err := decodeData(resp.Body, &login); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if login.AccessToken == "" {
		return ErrAuthenticationFailed
	}

	c.token = login.AccessToken
	c.log.Info().Str("username", username).Msg("Authenticated against attendance API")
	return nil
}

// AcademicYears retrieves all academic years.
func (c *Client) AcademicYears(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	if err := c.get(ctx, "/academic/years", nil, &years); err != nil {
		return nil, err
	}
	return years, nil
}

// AttendanceAnalytics retrieves per-date attendance stats for an academic
// year and period. A nil filter requests the backend's combined view.
func (c *Client) AttendanceAnalytics(ctx context.Context, academicYearID int, periodType string, filter *model.SessionType) (*model.AttendanceAnalytics, error) {
	params := url.Values{}
	params.Set("academic_year_id", strconv.Itoa(academicYearID))
	params.Set("period_type", periodType)
	if filter != nil {
		params.Set("session_type", string(*filter))
	}

	var analytics model.AttendanceAnalytics
	if err := c.get(ctx, "/analytics/attendance", params, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthenticationFailed
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := decodeData(resp.Body, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeData(body io.Reader, dst interface{}) error {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return err
	}
	if env.Error != nil {
		return fmt.Errorf("api error %s: %s", env.Error.Code, env.Error.Message)
	}
	if len(env.Data) == 0 {
		return errors.New("empty data envelope")
	}
	return json.Unmarshal(env.Data, dst)
}
