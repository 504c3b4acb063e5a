// Package config provides configuration loading and validation for the
// enrich-submission service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// OrganizationPlaceholder is the token the graph template must contain;
// it is substituted with an organization id when deriving a graph name.
const OrganizationPlaceholder = "~ORGANIZATION_ID~"

// Config represents the complete service configuration.
type Config struct {
	SPARQL     SPARQLConfig     `yaml:"sparql"`
	HTTP       HTTPConfig       `yaml:"http"`
	Files      FilesConfig      `yaml:"files"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	NATS       NATSConfig       `yaml:"nats"`
}

// SPARQLConfig configures the triplestore connection.
type SPARQLConfig struct {
	// Endpoint is the SPARQL endpoint URL.
	Endpoint string `yaml:"endpoint"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	// Listen is the address the server binds to.
	Listen string `yaml:"listen"`
}

// FilesConfig configures file storage.
type FilesConfig struct {
	// ShareRoot is the directory share:// URIs map onto.
	ShareRoot string `yaml:"share_root"`

	// FileGraph is the graph file resource records are kept in.
	FileGraph string `yaml:"file_graph"`

	// ActiveForm is the path of the currently active form definition.
	ActiveForm string `yaml:"active_form"`
}

// EnrichmentConfig configures the meta graph computation.
type EnrichmentConfig struct {
	// PublicGraph is the graph the reference data is read from.
	PublicGraph string `yaml:"public_graph"`

	// BatchSize bounds the page size of batched triple selections.
	BatchSize int `yaml:"batch_size"`

	// GraphTemplate is the organization graph name template. It must
	// contain the ~ORGANIZATION_ID~ placeholder.
	GraphTemplate string `yaml:"graph_template"`

	// ConceptSchemes lists the schemes imported verbatim into every
	// meta snapshot.
	ConceptSchemes []string `yaml:"concept_schemes"`
}

// NATSConfig configures the optional NATS delta ingress. When URL is
// empty the service only accepts deltas over HTTP.
type NATSConfig struct {
	// URL is the NATS server URL.
	URL string `yaml:"url"`

	// Subject is the subject delta payloads are consumed from.
	Subject string `yaml:"subject"`
}

// DefaultConfig returns a Config with the defaults the service ships
// with in the automatic submission stack.
func DefaultConfig() *Config {
	return &Config{
		SPARQL: SPARQLConfig{
			Endpoint: "http://database:8890/sparql",
		},
		HTTP: HTTPConfig{
			Listen: ":80",
		},
		Files: FilesConfig{
			ShareRoot:  "/share",
			FileGraph:  "http://mu.semte.ch/graphs/public",
			ActiveForm: "/data/semantic-forms/form.ttl",
		},
		Enrichment: EnrichmentConfig{
			PublicGraph:   "http://mu.semte.ch/graphs/public",
			BatchSize:     1000,
			GraphTemplate: "http://mu.semte.ch/graphs/organizations/~ORGANIZATION_ID~/LoketLB-toezichtGebruiker",
			ConceptSchemes: []string{
				"http://lblod.data.gift/concept-schemes/f9cac08a-13c1-49da-acb8-f41cd0a44f89",
				"http://lblod.data.gift/concept-schemes/5cecd2af-ced1-49ae-8c19-e7b9980e0f03",
				"http://lblod.data.gift/concept-schemes/3037c4f4-1c63-43ac-bfc4-b41d098b15a6",
			},
		},
		NATS: NATSConfig{
			Subject: "delta.notifications",
		},
	}
}

// Validate checks that the configuration is complete enough to start.
// Required values fail fast here instead of at first use.
func (c *Config) Validate() error {
	if c.SPARQL.Endpoint == "" {
		return fmt.Errorf("sparql.endpoint is required")
	}
	if c.HTTP.Listen == "" {
		return fmt.Errorf("http.listen is required")
	}
	if c.Files.ShareRoot == "" {
		return fmt.Errorf("files.share_root is required")
	}
	if c.Files.FileGraph == "" {
		return fmt.Errorf("files.file_graph is required")
	}
	if c.Files.ActiveForm == "" {
		return fmt.Errorf("files.active_form is required")
	}
	if c.Enrichment.PublicGraph == "" {
		return fmt.Errorf("enrichment.public_graph is required")
	}
	if c.Enrichment.BatchSize <= 0 {
		return fmt.Errorf("enrichment.batch_size must be positive")
	}
	if !strings.Contains(c.Enrichment.GraphTemplate, OrganizationPlaceholder) {
		return fmt.Errorf("enrichment.graph_template %q does not contain %s", c.Enrichment.GraphTemplate, OrganizationPlaceholder)
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	return nil
}

// GraphForOrganization substitutes an organization id into the graph
// template.
func (c *Config) GraphForOrganization(organizationID string) string {
	return strings.ReplaceAll(c.Enrichment.GraphTemplate, OrganizationPlaceholder, organizationID)
}

// Load builds the effective configuration: defaults, overlaid with the
// optional YAML file at path, overlaid with environment variables, then
// validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Merge merges another config into this one; non-zero values of other
// take precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.SPARQL.Endpoint != "" {
		c.SPARQL.Endpoint = other.SPARQL.Endpoint
	}
	if other.HTTP.Listen != "" {
		c.HTTP.Listen = other.HTTP.Listen
	}
	if other.Files.ShareRoot != "" {
		c.Files.ShareRoot = other.Files.ShareRoot
	}
	if other.Files.FileGraph != "" {
		c.Files.FileGraph = other.Files.FileGraph
	}
	if other.Files.ActiveForm != "" {
		c.Files.ActiveForm = other.Files.ActiveForm
	}
	if other.Enrichment.PublicGraph != "" {
		c.Enrichment.PublicGraph = other.Enrichment.PublicGraph
	}
	if other.Enrichment.BatchSize != 0 {
		c.Enrichment.BatchSize = other.Enrichment.BatchSize
	}
	if other.Enrichment.GraphTemplate != "" {
		c.Enrichment.GraphTemplate = other.Enrichment.GraphTemplate
	}
	if len(other.Enrichment.ConceptSchemes) > 0 {
		c.Enrichment.ConceptSchemes = other.Enrichment.ConceptSchemes
	}
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
}

// applyEnv overlays the environment variables the service historically
// reads in its container deployments.
func (c *Config) applyEnv() {
	if v := os.Getenv("MU_SPARQL_ENDPOINT"); v != "" {
		c.SPARQL.Endpoint = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.HTTP.Listen = v
	}
	if v := os.Getenv("SHARE_ROOT"); v != "" {
		c.Files.ShareRoot = v
	}
	if v := os.Getenv("FILE_GRAPH"); v != "" {
		c.Files.FileGraph = v
	}
	if v := os.Getenv("ACTIVE_FORM_FILE"); v != "" {
		c.Files.ActiveForm = v
	}
	if v := os.Getenv("PUBLIC_GRAPH"); v != "" {
		c.Enrichment.PublicGraph = v
	}
	if v := os.Getenv("CONSTRUCT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Enrichment.BatchSize = n
		}
	}
	if v := os.Getenv("GRAPH_TEMPLATE"); v != "" {
		c.Enrichment.GraphTemplate = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("NATS_SUBJECT"); v != "" {
		c.NATS.Subject = v
	}
}
