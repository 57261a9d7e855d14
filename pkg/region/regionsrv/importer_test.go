package regionsrv

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/fsx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
)

// memFS es un fsx.FileSystem en memoria para los tests del importer
type memFS struct {
	files map[string][]byte
}

func newMemFS(files map[string]string) *memFS {
	fs := &memFS{files: make(map[string][]byte)}
	for path, content := range files {
		fs.files[path] = []byte(content)
	}
	return fs
}

func (m *memFS) Read(_ context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fsx.ErrFileNotFound().WithDetail("path", path)
	}
	return data, nil
}

func (m *memFS) Write(_ context.Context, path string, data []byte) error {
	m.files[path] = data
	return nil
}

func (m *memFS) Exists(_ context.Context, path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func (m *memFS) Delete(_ context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *memFS) List(_ context.Context, prefix string) ([]string, error) {
	var paths []string
	for path := range m.files {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// recordingWriter registra los upserts en orden y asigna IDs secuenciales
type recordingWriter struct {
	nextID  int64
	upserts []string
	cleared bool
}

func (w *recordingWriter) upsert(level, code, name string) kernel.RegionID {
	w.nextID++
	w.upserts = append(w.upserts, level+":"+code+":"+name)
	return kernel.RegionID(w.nextID)
}

func (w *recordingWriter) UpsertProvince(_ context.Context, code, name string) (kernel.RegionID, error) {
	return w.upsert("province", code, name), nil
}

func (w *recordingWriter) UpsertRegency(_ context.Context, _ kernel.RegionID, code, name string) (kernel.RegionID, error) {
	return w.upsert("regency", code, name), nil
}

func (w *recordingWriter) UpsertDistrict(_ context.Context, _ kernel.RegionID, code, name string) (kernel.RegionID, error) {
	return w.upsert("district", code, name), nil
}

func (w *recordingWriter) UpsertVillage(_ context.Context, _ kernel.RegionID, code, name string) (kernel.RegionID, error) {
	return w.upsert("village", code, name), nil
}

func (w *recordingWriter) ClearAll(_ context.Context) error {
	w.cleared = true
	return nil
}

func TestImportWalksFullHierarchy(t *testing.T) {
	fs := newMemFS(map[string]string{
		"data/provinsi.json":         `[{"id":32,"nama":"Jawa Barat"}]`,
		"data/kabupaten/32.json":     `[{"id":3273,"nama":"Kota Bandung"}]`,
		"data/kecamatan/3273.json":   `[{"id":327306,"nama":"Coblong"}]`,
		"data/kelurahan/327306.json": `[{"id":3273060001,"nama":"Dago"},{"id":3273060002,"nama":"Lebakgede"}]`,
	})
	writer := &recordingWriter{}

	importer := NewDatasetImporter(writer, fs, "data")
	summary, err := importer.Import(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Provinces)
	assert.Equal(t, 1, summary.Regencies)
	assert.Equal(t, 1, summary.Districts)
	assert.Equal(t, 2, summary.Villages)
	assert.False(t, writer.cleared)

	// names are uppercased on the way in
	assert.Contains(t, writer.upserts, "province:32:JAWA BARAT")
	assert.Contains(t, writer.upserts, "village:3273060001:DAGO")
}

func TestImportAcceptsLegacyProvinceFilename(t *testing.T) {
	fs := newMemFS(map[string]string{
		"data/propinsi.json": `[{"id":32,"nama":"Jawa Barat"}]`,
	})
	writer := &recordingWriter{}

	summary, err := NewDatasetImporter(writer, fs, "data").Import(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Provinces)
}

func TestImportMissingChildFileIsSkipped(t *testing.T) {
	// some regencies publish no kelurahan data; the import keeps going
	fs := newMemFS(map[string]string{
		"data/provinsi.json":     `[{"id":32,"nama":"Jawa Barat"}]`,
		"data/kabupaten/32.json": `[{"id":3273,"nama":"Kota Bandung"}]`,
	})
	writer := &recordingWriter{}

	summary, err := NewDatasetImporter(writer, fs, "data").Import(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Regencies)
	assert.Equal(t, 0, summary.Districts)
}

func TestImportMissingProvinceFileFails(t *testing.T) {
	writer := &recordingWriter{}

	_, err := NewDatasetImporter(writer, newMemFS(nil), "data").Import(context.Background(), false)
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, string(region.CodeInvalidDataset), xerr.Code)
}

func TestImportClearDropsDatasetFirst(t *testing.T) {
	fs := newMemFS(map[string]string{
		"data/provinsi.json": `[{"id":32,"nama":"Jawa Barat"}]`,
	})
	writer := &recordingWriter{}

	_, err := NewDatasetImporter(writer, fs, "data").Import(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, writer.cleared)
}

func TestImportSkipsBlankEntries(t *testing.T) {
	fs := newMemFS(map[string]string{
		"data/provinsi.json": `[{"id":32,"nama":"Jawa Barat"},{"id":0,"nama":""},{"nama":"Sin Codigo"}]`,
	})
	writer := &recordingWriter{}

	summary, err := NewDatasetImporter(writer, fs, "data").Import(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Provinces)
}

func TestImportSingleObjectFileIsAccepted(t *testing.T) {
	fs := newMemFS(map[string]string{
		"data/provinsi.json":     `[{"id":32,"nama":"Jawa Barat"}]`,
		"data/kabupaten/32.json": `{"id":3273,"nama":"Kota Bandung"}`,
	})
	writer := &recordingWriter{}

	summary, err := NewDatasetImporter(writer, fs, "data").Import(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Regencies)
}
