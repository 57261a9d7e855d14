package regionsrv

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/fsx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/logx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
)

// DatasetImporter carga el dataset ibnux/data-indonesia en la base de datos.
//
// Expected layout under basePath (local dir or S3 prefix):
//
//	provinsi.json            -> provinces (propinsi.json also accepted)
//	kabupaten/{prov}.json    -> regencies, one file per province code
//	kecamatan/{reg}.json     -> districts, one file per regency code
//	kelurahan/{dist}.json    -> villages, one file per district code
//
// Re-running is idempotent: rows are upserted by official code. Missing child
// files are skipped (some regencies publish no kelurahan data).
type DatasetImporter struct {
	writer   region.DatasetWriter
	files    fsx.FileSystem
	basePath string
}

// NewDatasetImporter crea el importer sobre el file system dado
func NewDatasetImporter(writer region.DatasetWriter, files fsx.FileSystem, basePath string) *DatasetImporter {
	return &DatasetImporter{
		writer:   writer,
		files:    files,
		basePath: strings.Trim(basePath, "/"),
	}
}

// datasetEntry es la forma de cada elemento en los JSON de ibnux
type datasetEntry struct {
	ID   json.Number `json:"id"`
	Nama string      `json:"nama"`
	Name string      `json:"name"`
}

func (e datasetEntry) code() string {
	return strings.TrimSpace(e.ID.String())
}

func (e datasetEntry) name() string {
	name := e.Nama
	if name == "" {
		name = e.Name
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// Import carga las cuatro jerarquías. Con clear, borra el dataset previo.
func (i *DatasetImporter) Import(ctx context.Context, clear bool) (*region.ImportSummary, error) {
	if clear {
		logx.Info("Clearing existing region dataset...")
		if err := i.writer.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	summary := &region.ImportSummary{}

	provinces, err := i.readEntries(ctx, "provinsi.json", "propinsi.json")
	if err != nil {
		return nil, err
	}

	for _, prov := range provinces {
		if prov.code() == "" || prov.name() == "" {
			continue
		}
		provID, err := i.writer.UpsertProvince(ctx, prov.code(), prov.name())
		if err != nil {
			return nil, err
		}
		summary.Provinces++

		if err := i.importRegencies(ctx, provID, prov.code(), summary); err != nil {
			return nil, err
		}
	}

	logx.WithFields(logx.Fields{
		"provinces": summary.Provinces,
		"regencies": summary.Regencies,
		"districts": summary.Districts,
		"villages":  summary.Villages,
	}).Info("Region dataset import finished")

	return summary, nil
}

func (i *DatasetImporter) importRegencies(ctx context.Context, provID kernel.RegionID, provCode string, summary *region.ImportSummary) error {
	regencies, err := i.readChildEntries(ctx, "kabupaten", provCode)
	if err != nil {
		return err
	}

	for _, reg := range regencies {
		if reg.code() == "" || reg.name() == "" {
			continue
		}
		regID, err := i.writer.UpsertRegency(ctx, provID, reg.code(), reg.name())
		if err != nil {
			return err
		}
		summary.Regencies++

		if err := i.importDistricts(ctx, regID, reg.code(), summary); err != nil {
			return err
		}
	}
	return nil
}

func (i *DatasetImporter) importDistricts(ctx context.Context, regID kernel.RegionID, regCode string, summary *region.ImportSummary) error {
	districts, err := i.readChildEntries(ctx, "kecamatan", regCode)
	if err != nil {
		return err
	}

	for _, dist := range districts {
		if dist.code() == "" || dist.name() == "" {
			continue
		}
		distID, err := i.writer.UpsertDistrict(ctx, regID, dist.code(), dist.name())
		if err != nil {
			return err
		}
		summary.Districts++

		villages, err := i.readChildEntries(ctx, "kelurahan", dist.code())
		if err != nil {
			return err
		}
		for _, vill := range villages {
			if vill.code() == "" || vill.name() == "" {
				continue
			}
			if _, err := i.writer.UpsertVillage(ctx, distID, vill.code(), vill.name()); err != nil {
				return err
			}
			summary.Villages++
		}
	}
	return nil
}

func (i *DatasetImporter) path(parts ...string) string {
	if i.basePath == "" {
		return strings.Join(parts, "/")
	}
	return i.basePath + "/" + strings.Join(parts, "/")
}

// readEntries lee el primer path existente de la lista de candidatos
func (i *DatasetImporter) readEntries(ctx context.Context, candidates ...string) ([]datasetEntry, error) {
	for _, name := range candidates {
		data, err := i.files.Read(ctx, i.path(name))
		if err != nil {
			continue
		}
		return parseEntries(data, name)
	}
	return nil, region.ErrInvalidDataset().
		WithDetail("missing", strings.Join(candidates, " or ")).
		WithDetail("base_path", i.basePath)
}

// readChildEntries lee dir/{parentCode}.json; ausente no es error
func (i *DatasetImporter) readChildEntries(ctx context.Context, dir, parentCode string) ([]datasetEntry, error) {
	path := i.path(dir, parentCode+".json")

	data, err := i.files.Read(ctx, path)
	if err != nil {
		return nil, nil
	}
	return parseEntries(data, path)
}

func parseEntries(data []byte, path string) ([]datasetEntry, error) {
	var entries []datasetEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// some files hold a single object instead of a list
		var single datasetEntry
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, region.ErrInvalidDataset().
				WithDetail("path", path).
				WithCause(err)
		}
		entries = []datasetEntry{single}
	}
	return entries, nil
}
