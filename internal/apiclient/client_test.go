package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasschool/das-verify/internal/model"
)

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": code},
	})
}

func newClient(baseURL string) *Client {
	return New(baseURL, 5*time.Second, zerolog.Nop())
}

func TestLogin(t *testing.T) {
	t.Run("success stores token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/login", r.URL.Path)

			var req model.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "director", req.Username)
			assert.Equal(t, "secret123", req.Password)

			writeData(w, model.LoginResponse{
				AccessToken: "token-abc",
				TokenType:   "bearer",
				Username:    "director",
				Role:        model.RoleDirector,
			})
		}))
		defer srv.Close()

		c := newClient(srv.URL)
		require.NoError(t, c.Login(context.Background(), "director", "secret123"))
		assert.Equal(t, "token-abc", c.token)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
		}))
		defer srv.Close()

		err := newClient(srv.URL).Login(context.Background(), "director", "wrong")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("empty token in envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, model.LoginResponse{})
		}))
		defer srv.Close()

		err := newClient(srv.URL).Login(context.Background(), "director", "secret123")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("server unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		err := newClient(srv.URL).Login(context.Background(), "director", "secret123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestAcademicYears(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/academic/years", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))

		writeData(w, []model.AcademicYear{
			{ID: 2, YearName: "2025-2026", IsActive: true},
			{ID: 1, YearName: "2024-2025"},
		})
	}))
	defer srv.Close()

	c := newClient(srv.URL)
	c.token = "token-abc"

	years, err := c.AcademicYears(context.Background())
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.True(t, years[0].IsActive)

	active := model.ActiveAcademicYear(years)
	require.NotNil(t, active)
	assert.Equal(t, 2, active.ID)
}

func TestAttendanceAnalytics(t *testing.T) {
	t.Run("session filter forwarded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/analytics/attendance", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "7", q.Get("academic_year_id"))
			assert.Equal(t, "daily", q.Get("period_type"))
			assert.Equal(t, "morning", q.Get("session_type"))

			writeData(w, model.AttendanceAnalytics{
				StudentAttendance: []model.DailyAttendance{
					{Date: "2026-03-02", Total: 20, Present: 18, Absent: 2, AttendanceRate: 90.0},
				},
				PeriodType: "daily",
			})
		}))
		defer srv.Close()

		c := newClient(srv.URL)
		morning := model.SessionMorning
		got, err := c.AttendanceAnalytics(context.Background(), 7, "daily", &morning)
		require.NoError(t, err)
		require.Len(t, got.StudentAttendance, 1)
		assert.Equal(t, 90.0, got.StudentAttendance[0].AttendanceRate)
	})

	t.Run("combined omits session param", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, present := r.URL.Query()["session_type"]
			assert.False(t, present, "combined request must not carry session_type")
			writeData(w, model.AttendanceAnalytics{})
		}))
		defer srv.Close()

		_, err := newClient(srv.URL).AttendanceAnalytics(context.Background(), 7, "daily", nil)
		require.NoError(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusUnauthorized, "TOKEN_INVALID")
		}))
		defer srv.Close()

		_, err := newClient(srv.URL).AttendanceAnalytics(context.Background(), 7, "daily", nil)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("api error envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusOK, "INTERNAL_ERROR")
		}))
		defer srv.Close()

		_, err := newClient(srv.URL).AttendanceAnalytics(context.Background(), 7, "daily", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	})
}

func TestSummarySource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rate := 90.0
		present, total := 18, 20
		if r.URL.Query().Get("session_type") == "" {
			rate, present, total = 80.0, 28, 35
		}
		writeData(w, model.AttendanceAnalytics{
			StudentAttendance: []model.DailyAttendance{
				{Date: "2026-03-02", Total: total, Present: present, Absent: total - present, AttendanceRate: rate},
			},
		})
	}))
	defer srv.Close()

	src := NewSummarySource(newClient(srv.URL), 7, "daily")

	morning := model.SessionMorning
	view, err := src.Summaries(context.Background(), &morning)
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, model.SessionMorning, view["2026-03-02"].Session)
	assert.Equal(t, 90.0, view["2026-03-02"].AttendanceRate)

	combined, err := src.Summaries(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCombined, combined["2026-03-02"].Session)
	assert.Equal(t, 35, combined["2026-03-02"].Total)
}

func TestDecodeData_EmptyEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).AcademicYears(context.Background())
	assert.Error(t, err)
}
