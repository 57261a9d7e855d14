package config

// StorageConfig selecciona el file system para datasets (local o S3)
type StorageConfig struct {
	Mode      string // "local" or "s3"
	LocalPath string
	S3Bucket  string
	S3Region  string
	S3Prefix  string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:      getEnv("STORAGE_MODE", "local"),
		LocalPath: getEnv("STORAGE_LOCAL_PATH", "./storage"),
		S3Bucket:  getEnv("STORAGE_S3_BUCKET", "kms-connect-datasets"),
		S3Region:  getEnv("STORAGE_S3_REGION", "ap-southeast-1"),
		S3Prefix:  getEnv("STORAGE_S3_PREFIX", ""),
	}
}
