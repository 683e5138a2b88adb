// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/snaptext/snaptext/pkg/models"
	"github.com/snaptext/snaptext/pkg/utils"
)

type Config struct {
	InputDir   string `yaml:"input_dir"`
	HistoryDir string `yaml:"history_dir"`
	OCR        struct {
		Languages []string `yaml:"languages"`
	} `yaml:"ocr"`
	Translation struct {
		Endpoint   string `yaml:"endpoint"`
		SourceLang string `yaml:"source_lang"`
		TargetLang string `yaml:"target_lang"`
	} `yaml:"translation"`
	Processing models.ProcessingOptions `yaml:"processing"`
	Resize     struct {
		MaxWidth int `yaml:"max_width"`
		Quality  int `yaml:"quality"`
	} `yaml:"resize"`
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./inbox"
	}
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = utils.GetDefaultHistoryDir()
	}
	if len(cfg.OCR.Languages) == 0 {
		cfg.OCR.Languages = []string{"eng", "chi_sim"}
	}
	if cfg.Translation.Endpoint == "" {
		cfg.Translation.Endpoint = "https://translate.astian.org/translate"
	}
	if cfg.Translation.SourceLang == "" {
		cfg.Translation.SourceLang = "zh"
	}
	if cfg.Translation.TargetLang == "" {
		cfg.Translation.TargetLang = "en"
	}
	if cfg.Processing == (models.ProcessingOptions{}) {
		cfg.Processing = models.DefaultProcessingOptions()
	}
	if cfg.Resize.MaxWidth == 0 {
		cfg.Resize.MaxWidth = 1000
	}
	if cfg.Resize.Quality == 0 {
		cfg.Resize.Quality = 80
	}
}
