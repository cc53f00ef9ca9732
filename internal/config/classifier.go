package config

import "time"

// ClassifierConfig points at the waste-classification inference
// service (multipart POST /classify-image returning label and score).
type ClassifierConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxImageEdge int           `yaml:"max_image_edge"`
}

func loadClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		Endpoint:     getEnv("CLASSIFIER_ENDPOINT", "http://localhost:5000/classify-image"),
		Timeout:      getEnvAsDuration("CLASSIFIER_TIMEOUT", 30*time.Second),
		MaxImageEdge: getEnvAsInt("CLASSIFIER_MAX_IMAGE_EDGE", 1024),
	}
}
