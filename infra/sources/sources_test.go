package sources

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/depotplan/core/factory"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
)

func serve(t *testing.T, method, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFleet(t *testing.T) {
	srv := serve(t, http.MethodGet, `[
		{"id":"T1","mileage":100,"openJobCards":0,"fitness":{"chassis":true,"signal":true,"telecom":true},"status":"standby"},
		{"mileage":5},
		"junk"
	]`, http.StatusOK)
	s, err := NewHTTPFleet(HTTPConfig{URL: srv.URL})
	require.NoError(t, err)
	vs, err := s.Vehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "T1", vs[0].ID)
	assert.Equal(t, model.StatusStandby, vs[0].Status)
}

func TestHTTPStatusError(t *testing.T) {
	srv := serve(t, http.MethodGet, `oops`, http.StatusBadGateway)
	s, err := NewHTTPGeography(HTTPConfig{URL: srv.URL})
	require.NoError(t, err)
	if _, err := s.Stations(context.Background()); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestHTTPHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `[{"bayId":"B1","bayNumber":1,"occupantVehicleIds":["T1"]}]`)
	}))
	defer srv.Close()
	s, err := NewHTTPDepot(HTTPConfig{URL: srv.URL, Headers: map[string]string{"X-Api-Key": "k"}})
	require.NoError(t, err)
	bays, err := s.Bays(context.Background())
	require.NoError(t, err)
	require.Len(t, bays, 1)
	assert.True(t, bays[0].Holds("T1"))
}

func TestHTTPOptimizer(t *testing.T) {
	srv := serve(t, http.MethodPost, `{"results":[{"train_id":"T1","decision":"RUN","score":2},{"trainId":"T2","action":"hold"},7]}`, http.StatusOK)
	s, err := NewHTTPOptimizer(HTTPConfig{URL: srv.URL})
	require.NoError(t, err)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "T2", res[1].VehicleID)
}

func TestHTTPOptimizerMalformed(t *testing.T) {
	srv := serve(t, http.MethodPost, `{"results":"nope"}`, http.StatusOK)
	s, err := NewHTTPOptimizer(HTTPConfig{URL: srv.URL})
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	if !errors.Is(err, optimizer.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload error, got %v", err)
	}
}

func TestHTTPJobCardsTarget(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		_, _ = io.WriteString(w, `[{"id":"J1","vehicleId":"T1"},{"id":"J2"},{"id":"J3","vehicleId":"T9"}]`)
	}))
	defer srv.Close()

	s, err := NewHTTPJobCards(HTTPConfig{URL: srv.URL + "/trains/{id}/jobcards"})
	require.NoError(t, err)
	cards, err := s.JobCards(context.Background(), "T1")
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	s, err = NewHTTPJobCards(HTTPConfig{URL: srv.URL + "/jobcards"})
	require.NoError(t, err)
	_, err = s.JobCards(context.Background(), "T 2")
	require.NoError(t, err)
	assert.Equal(t, []string{"/trains/T1/jobcards", "/jobcards?vehicle_id=T+2"}, paths)
}

func TestNewHTTPRequiresURL(t *testing.T) {
	if _, err := NewHTTPFleet(HTTPConfig{}); err == nil {
		t.Fatalf("expected error for missing url")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFileSources(t *testing.T) {
	ctx := context.Background()
	stations := NewFileGeography(FileConfig{Path: writeFile(t, "st.json", `[{"name":"Aluva","latitude":10.1}]`)})
	st, err := stations.Stations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Aluva", st[0].Name)

	cards := NewFileJobCards(FileConfig{Path: writeFile(t, "jc.json", `[{"id":"J1","vehicleId":"T1"},{"id":"J2"}]`)})
	got, err := cards.JobCards(ctx, "T1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "J1", got[0].ID)

	empty := NewFileDepot(FileConfig{Path: writeFile(t, "bays.json", `null`)})
	bays, err := empty.Bays(ctx)
	require.NoError(t, err)
	assert.NotNil(t, bays)

	missing := NewFileFleet(FileConfig{Path: filepath.Join(t.TempDir(), "none.json")})
	if _, err := missing.Vehicles(ctx); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestBuild(t *testing.T) {
	path := writeFile(t, "opt.json", `{"results":[]}`)
	srcs, err := Build(Config{
		Fleet:     factory.ModuleConfig{Type: "http", Conf: map[string]any{"url": "http://fleet", "timeout": "2s"}},
		Optimizer: factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": path}},
	})
	require.NoError(t, err)
	assert.NotNil(t, srcs.Fleet)
	assert.NotNil(t, srcs.Optimizer)
	assert.Nil(t, srcs.Geography)
	assert.Nil(t, srcs.Depot)
	assert.Nil(t, srcs.JobCards)

	res, err := srcs.Optimizer.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res)

	_, err = Build(Config{Depot: factory.ModuleConfig{Type: "ftp"}})
	assert.Error(t, err)
	_, err = Build(Config{Depot: factory.ModuleConfig{Type: "file"}})
	assert.Error(t, err)
	assert.Equal(t, []string{"file", "http"}, Types())
}
