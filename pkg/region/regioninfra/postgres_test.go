package regioninfra

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/errx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
)

func newMockRepo(t *testing.T) (*PostgresRegionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresRegionRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestListProvincesAppliesSearch(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "code", "name"}).
		AddRow(10, "32", "JAWA BARAT")

	mock.ExpectQuery(`SELECT id, code, name\s+FROM region_provinces`).
		WithArgs("jawa", "%jawa%").
		WillReturnRows(rows)

	provinces, err := repo.ListProvinces(context.Background(), "jawa")
	require.NoError(t, err)
	require.Len(t, provinces, 1)
	assert.Equal(t, "JAWA BARAT", provinces[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRegenciesFiltersByProvince(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "province_id"}).
		AddRow(101, "3273", "KOTA BANDUNG", 10).
		AddRow(102, "3204", "KAB. BANDUNG", 10)

	mock.ExpectQuery(`FROM region_regencies\s+WHERE province_id = \$1`).
		WithArgs(int64(10), "", "%%").
		WillReturnRows(rows)

	regencies, err := repo.ListRegencies(context.Background(), 10, "")
	require.NoError(t, err)
	require.Len(t, regencies, 2)
	assert.Equal(t, kernel.RegionID(10), regencies[0].ProvinceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVillagesEmptyResultIsNotAnError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM region_villages\s+WHERE district_id = \$1`).
		WithArgs(int64(9999), "", "%%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "district_id"}))

	villages, err := repo.ListVillages(context.Background(), 9999, "")
	require.NoError(t, err)
	assert.Empty(t, villages)
	assert.NotNil(t, villages)
}

func TestFindVillageResolvesHierarchy(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "district_id", "district_name", "regency_name", "province_name"}).
		AddRow(10001, "3273060001", "DAGO", 1001, "COBLONG", "KOTA BANDUNG", "JAWA BARAT")

	mock.ExpectQuery(`FROM region_villages v\s+JOIN region_districts d`).
		WithArgs(int64(10001)).
		WillReturnRows(rows)

	detail, err := repo.FindVillage(context.Background(), 10001)
	require.NoError(t, err)
	assert.Equal(t, kernel.RegionID(1001), detail.DistrictID)
	assert.Equal(t, "COBLONG", detail.DistrictName)
	assert.Equal(t, "JAWA BARAT", detail.ProvinceName)
}

func TestFindVillageNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM region_villages v`).
		WithArgs(int64(424242)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindVillage(context.Background(), 424242)
	require.Error(t, err)

	var xerr *errx.Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, string(region.CodeVillageNotFound), xerr.Code)
}

func TestUpsertProvinceReturnsID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO region_provinces`).
		WithArgs("32", "JAWA BARAT").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	id, err := repo.UpsertProvince(context.Background(), "32", "JAWA BARAT")
	require.NoError(t, err)
	assert.Equal(t, kernel.RegionID(10), id)
}

func TestUpsertRegencyIsIdempotentByCode(t *testing.T) {
	repo, mock := newMockRepo(t)

	// same code twice returns the same row id
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`INSERT INTO region_regencies`).
			WithArgs(int64(10), "3273", "KOTA BANDUNG").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	}

	first, err := repo.UpsertRegency(context.Background(), 10, "3273", "KOTA BANDUNG")
	require.NoError(t, err)
	second, err := repo.UpsertRegency(context.Background(), 10, "3273", "KOTA BANDUNG")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClearAllTruncatesCascade(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`TRUNCATE region_provinces CASCADE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ClearAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
