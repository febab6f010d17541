package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"

	"github.com/google/uuid"
	"github.com/shoenig/test/must"
)

func TestHTTPSource_Fetch(t *testing.T) {
	instance := &domain.Instance{ID: uuid.New(), Source: domain.SourceHTTP}

	var gotPath, gotLatest, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLatest = r.URL.Query().Get("latest")
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cpu":{"cpu0":{"user":[{"x":1,"y":30}]},"cpu1":{"user":[{"x":1,"y":20}]}},"sysinfo":{"cpu":{"cores":2}}}`))
	}))
	defer srv.Close()

	instance.MetricsURL = srv.URL + "/api/"
	src := NewHTTPSource(time.Second, "secret", logger.Nop())

	snap, err := src.Fetch(context.Background(), instance)
	must.NoError(t, err)
	must.Eq(t, "/api/instances/"+instance.ID.String()+"/metrics", gotPath)
	must.Eq(t, "cpu,sysinfo", gotLatest)
	must.Eq(t, "Bearer secret", gotAuth)
	must.Eq(t, 2, snap.Cores())
	must.MapLen(t, 2, snap.CPU)
}

func TestHTTPSource_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
	}{
		{name: "api reason", status: http.StatusNotFound, body: `{"reason":"instance not found"}`, wantReason: "instance not found"},
		{name: "api message", status: http.StatusForbidden, body: `{"message":"token expired"}`, wantReason: "token expired"},
		{name: "plain body", status: http.StatusBadGateway, body: `upstream down`, wantReason: "bad gateway"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			instance := &domain.Instance{ID: uuid.New(), MetricsURL: srv.URL}
			_, err := NewHTTPSource(time.Second, "", logger.Nop()).Fetch(context.Background(), instance)

			var fetchErr *domain.FetchError
			must.True(t, errors.As(err, &fetchErr))
			must.Eq(t, tc.wantReason, fetchErr.Reason)
			must.Eq(t, tc.status, fetchErr.Status)
		})
	}
}

func TestHTTPSource_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	instance := &domain.Instance{ID: uuid.New(), MetricsURL: srv.URL}
	_, err := NewHTTPSource(time.Second, "", logger.Nop()).Fetch(context.Background(), instance)
	must.ErrorIs(t, err, ErrInvalidPayload)
}

func TestHTTPSource_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	instance := &domain.Instance{ID: uuid.New(), MetricsURL: srv.URL}
	_, err := NewHTTPSource(50*time.Millisecond, "", logger.Nop()).Fetch(context.Background(), instance)

	var fetchErr *domain.FetchError
	must.True(t, errors.As(err, &fetchErr))
	must.Eq(t, "metrics request failed", fetchErr.Reason)
}

func TestMetricsEndpoint_Invalid(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "://bad"} {
		_, err := metricsEndpoint(&domain.Instance{ID: uuid.New(), MetricsURL: raw})
		must.Error(t, err)
	}
}
