package cascadeinfra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// regionsAPIStub sirve el contrato público de /regions como lo hace el backend
func regionsAPIStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/regions/provinces", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "tengah" {
			writeJSON(w, []map[string]any{
				{"id": 20, "code": "33", "name": "JAWA TENGAH"},
			})
			return
		}
		writeJSON(w, []map[string]any{
			{"id": 10, "code": "32", "name": "JAWA BARAT"},
			{"id": 20, "code": "33", "name": "JAWA TENGAH"},
		})
	})
	mux.HandleFunc("/api/v1/regions/regencies", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("province_id") != "10" {
			writeJSON(w, []map[string]any{})
			return
		}
		writeJSON(w, []map[string]any{
			{"id": 101, "code": "3273", "name": "KOTA BANDUNG", "province": 10},
		})
	})
	mux.HandleFunc("/api/v1/regions/villages/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/regions/villages/10001" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{
			"id":            10001,
			"code":          "3273060001",
			"name":          "DAGO",
			"district":      1001,
			"district_name": "COBLONG",
			"regency_name":  "KOTA BANDUNG",
			"province_name": "JAWA BARAT",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newHTTPDirectory(t *testing.T) *HTTPDirectory {
	return NewHTTPDirectory(regionsAPIStub(t).URL+"/api/v1", time.Second)
}

func TestHTTPDirectoryListsProvinces(t *testing.T) {
	dir := newHTTPDirectory(t)

	options, err := dir.Provinces(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "JAWA BARAT", options[0].Name)
}

func TestHTTPDirectoryForwardsSearch(t *testing.T) {
	dir := newHTTPDirectory(t)

	options, err := dir.Provinces(context.Background(), "tengah")
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "JAWA TENGAH", options[0].Name)
}

func TestHTTPDirectoryForwardsParentFilter(t *testing.T) {
	dir := newHTTPDirectory(t)

	options, err := dir.Regencies(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "KOTA BANDUNG", options[0].Name)

	options, err = dir.Regencies(context.Background(), 99, "")
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestHTTPDirectoryVillageDetail(t *testing.T) {
	dir := newHTTPDirectory(t)

	ref, err := dir.Village(context.Background(), 10001)
	require.NoError(t, err)
	assert.Equal(t, "DAGO", ref.Name)
	assert.EqualValues(t, 1001, ref.DistrictID)
}

func TestHTTPDirectoryVillageNotFound(t *testing.T) {
	dir := newHTTPDirectory(t)

	_, err := dir.Village(context.Background(), 424242)
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, string(CodeVillageNotFound), xerr.Code)
}

func TestHTTPDirectoryServerErrorIsBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	dir := NewHTTPDirectory(server.URL, time.Second)
	_, err := dir.Provinces(context.Background(), "")
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, string(CodeBadResponse), xerr.Code)
}

func TestHTTPDirectoryUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	dir := NewHTTPDirectory(url, time.Second)
	_, err := dir.Provinces(context.Background(), "")
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, string(CodeDirectoryUnavailable), xerr.Code)
}
