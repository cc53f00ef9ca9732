package config

type StorageConfig struct {
	Provider  string     `yaml:"provider"` // local, s3 or gcs
	LocalPath string     `yaml:"local_path"`
	BaseURL   string     `yaml:"base_url"`
	S3        *S3Config  `yaml:"s3"`
	GCS       *GCSConfig `yaml:"gcs"`
}

type S3Config struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		BaseURL:   getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		S3: &S3Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Bucket:          getEnv("S3_BUCKET", "cleanwave-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		GCS: &GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", "cleanwave-uploads"),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}
}
