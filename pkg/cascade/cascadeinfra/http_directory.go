package cascadeinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/cascade"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

var ErrRegistry = errx.NewRegistry("CASCADE")

var (
	CodeDirectoryUnavailable = ErrRegistry.Register("DIRECTORY_UNAVAILABLE", errx.TypeExternal, http.StatusBadGateway, "Directorio de regiones no disponible")
	CodeBadResponse          = ErrRegistry.Register("BAD_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Respuesta inválida del directorio de regiones")
	CodeVillageNotFound      = ErrRegistry.Register("VILLAGE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Kelurahan/desa no encontrada en el directorio")
)

// HTTPDirectory consume la API pública de regiones (el lado móvil/SPA del
// cascade). Same read contract as the in-process adapter: lists come back in
// backend order, a zero parent is never sent as a request.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory crea el cliente; baseURL apunta al prefijo de la API
// (ej. "https://api.kms-connect.example/api/v1")
func NewHTTPDirectory(baseURL string, timeout time.Duration) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDirectory) Provinces(ctx context.Context, search string) ([]cascade.Option, error) {
	return d.list(ctx, "/regions/provinces", "", 0, search)
}

func (d *HTTPDirectory) Regencies(ctx context.Context, provinceID kernel.RegionID, search string) ([]cascade.Option, error) {
	return d.list(ctx, "/regions/regencies", "province_id", provinceID, search)
}

func (d *HTTPDirectory) Districts(ctx context.Context, regencyID kernel.RegionID, search string) ([]cascade.Option, error) {
	return d.list(ctx, "/regions/districts", "regency_id", regencyID, search)
}

func (d *HTTPDirectory) Villages(ctx context.Context, districtID kernel.RegionID, search string) ([]cascade.Option, error) {
	return d.list(ctx, "/regions/villages", "district_id", districtID, search)
}

func (d *HTTPDirectory) Village(ctx context.Context, id kernel.RegionID) (*cascade.VillageRef, error) {
	body, status, err := d.get(ctx, fmt.Sprintf("/regions/villages/%s", id.String()), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrRegistry.New(CodeVillageNotFound).WithDetail("village_id", id.String())
	}
	if status != http.StatusOK {
		return nil, ErrRegistry.New(CodeBadResponse).WithDetail("status", status)
	}

	var ref cascade.VillageRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return nil, ErrRegistry.New(CodeBadResponse).WithCause(err)
	}
	return &ref, nil
}

func (d *HTTPDirectory) list(ctx context.Context, path, parentParam string, parentID kernel.RegionID, search string) ([]cascade.Option, error) {
	query := url.Values{}
	if parentParam != "" {
		query.Set(parentParam, parentID.String())
	}
	if search != "" {
		query.Set("search", search)
	}

	body, status, err := d.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, ErrRegistry.New(CodeBadResponse).
			WithDetail("path", path).
			WithDetail("status", status)
	}

	var options []cascade.Option
	if err := json.Unmarshal(body, &options); err != nil {
		return nil, ErrRegistry.New(CodeBadResponse).WithDetail("path", path).WithCause(err)
	}
	return options, nil
}

func (d *HTTPDirectory) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	endpoint := d.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, ErrRegistry.New(CodeDirectoryUnavailable).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, ErrRegistry.New(CodeDirectoryUnavailable).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, ErrRegistry.New(CodeDirectoryUnavailable).WithCause(err)
	}
	return body, resp.StatusCode, nil
}

var _ cascade.Directory = (*HTTPDirectory)(nil)
