// Package config handles application configuration from environment variables
// and the YAML repository list.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"issuefeed/internal/model"
)

//go:embed defaults.yaml
var defaultFile []byte

const (
	defaultConcurrency    = 16
	defaultMaxItems       = 200
	defaultPageSize       = 100
	defaultRequestTimeout = 30 * time.Second
	maxPageSize           = 100
)

// Site describes the published site: where feeds are served from and who runs it.
type Site struct {
	RootURL      string
	GeneratorURL string
	Author       model.Person
}

// Config holds the application configuration.
type Config struct {
	OutputDir      string
	GitHubToken    string
	APIBaseURL     string
	LogLevel       string
	FailFast       bool
	Repositories   []model.Repository
	ExcludedUsers  []string
	ExcludedLabels []string
	Concurrency    int
	MaxItems       int
	PageSize       int
	RequestTimeout time.Duration
	Site           Site
}

type fileConfig struct {
	Repositories   []string `yaml:"repositories"`
	ExcludedUsers  []string `yaml:"excluded_users"`
	ExcludedLabels []string `yaml:"excluded_labels"`
	Concurrency    int      `yaml:"concurrency"`
	MaxItems       int      `yaml:"max_items"`
	PageSize       int      `yaml:"page_size"`
	RequestTimeout string   `yaml:"request_timeout"`
	Site           struct {
		RootURL      string `yaml:"root_url"`
		GeneratorURL string `yaml:"generator_url"`
		Author       struct {
			Name  string `yaml:"name"`
			Email string `yaml:"email"`
			URI   string `yaml:"uri"`
		} `yaml:"author"`
	} `yaml:"site"`
}

// Load builds the configuration from the command-line arguments, environment
// variables and the repository file. The token argument takes precedence over
// GITHUB_TOKEN.
func Load(outputDir, token string) (*Config, error) {
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	failFast := false
	if raw := os.Getenv("FAIL_FAST"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FAIL_FAST %q: %w", raw, err)
		}
		failFast = v
	}

	data := defaultFile
	if path := os.Getenv("ISSUEFEED_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		data = b
	}

	fc, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OutputDir:      outputDir,
		GitHubToken:    token,
		APIBaseURL:     os.Getenv("GITHUB_API_URL"),
		LogLevel:       logLevel,
		FailFast:       failFast,
		ExcludedUsers:  fc.ExcludedUsers,
		ExcludedLabels: fc.ExcludedLabels,
		Concurrency:    orDefault(fc.Concurrency, defaultConcurrency),
		MaxItems:       orDefault(fc.MaxItems, defaultMaxItems),
		PageSize:       min(orDefault(fc.PageSize, defaultPageSize), maxPageSize),
		RequestTimeout: defaultRequestTimeout,
		Site: Site{
			RootURL:      fc.Site.RootURL,
			GeneratorURL: fc.Site.GeneratorURL,
			Author: model.Person{
				Name:  fc.Site.Author.Name,
				Email: fc.Site.Author.Email,
				URI:   fc.Site.Author.URI,
			},
		},
	}

	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid request_timeout %q", fc.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}

	seen := make(map[model.Repository]bool, len(fc.Repositories))
	for _, raw := range fc.Repositories {
		repo, err := model.ParseRepository(raw)
		if err != nil {
			return nil, err
		}
		if seen[repo] {
			continue
		}
		seen[repo] = true
		cfg.Repositories = append(cfg.Repositories, repo)
	}
	if len(cfg.Repositories) == 0 {
		return nil, fmt.Errorf("no repositories configured")
	}

	return cfg, nil
}

func parseFile(data []byte) (*fileConfig, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if fc.Concurrency < 0 || fc.MaxItems < 0 || fc.PageSize < 0 {
		return nil, fmt.Errorf("concurrency, max_items and page_size must not be negative")
	}
	return &fc, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
