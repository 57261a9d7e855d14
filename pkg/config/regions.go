package config

import "time"

// RegionsConfig controla el directorio de wilayah (provinsi → kabupaten/kota →
// kecamatan → kelurahan) y su caché.
type RegionsConfig struct {
	// CacheTTL is how long cached dropdown lists stay valid.
	CacheTTL time.Duration
	// CacheEnabled disables the Redis read-through layer when false.
	CacheEnabled bool
	// DatasetPath is where the importer looks for the ibnux data-indonesia
	// layout (provinsi.json, kabupaten/, kecamatan/, kelurahan/), relative to
	// the configured file storage.
	DatasetPath string
	// ClientBaseURL and ClientTimeout configure the HTTP directory client used
	// by in-process cascade consumers when pointed at a remote regions API.
	ClientBaseURL string
	ClientTimeout time.Duration
}

func loadRegionsConfig() RegionsConfig {
	return RegionsConfig{
		CacheTTL:      getEnvDuration("REGIONS_CACHE_TTL", 12*time.Hour),
		CacheEnabled:  getEnvBool("REGIONS_CACHE_ENABLED", true),
		DatasetPath:   getEnv("REGIONS_DATASET_PATH", "data-indonesia"),
		ClientBaseURL: getEnv("REGIONS_CLIENT_BASE_URL", ""),
		ClientTimeout: getEnvDuration("REGIONS_CLIENT_TIMEOUT", 10*time.Second),
	}
}
