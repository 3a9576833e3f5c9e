package types

import "time"

// HTTPConfig holds shared HTTP settings used by sources that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "phm-curator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the bibliographic sources.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the maximum number of records requested per source (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	EnableOpenAlex        bool `json:"enable_openalex" yaml:"enable_openalex" mapstructure:"enable_openalex"`
	EnableArxiv           bool `json:"enable_arxiv" yaml:"enable_arxiv" mapstructure:"enable_arxiv"`
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar" mapstructure:"enable_semantic_scholar"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// RequestsPerSecond caps the request rate per source (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429/5xx (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ThresholdLevels holds minimum, preferred and excellent impact factor levels.
type ThresholdLevels struct {
	Minimum   float64 `json:"minimum" yaml:"minimum" mapstructure:"minimum"`
	Preferred float64 `json:"preferred" yaml:"preferred" mapstructure:"preferred"`
	Excellent float64 `json:"excellent" yaml:"excellent" mapstructure:"excellent"`
}

// QuartileLevels holds minimum, preferred and excellent quartile levels.
type QuartileLevels struct {
	Minimum   Quartile `json:"minimum" yaml:"minimum" mapstructure:"minimum"`
	Preferred Quartile `json:"preferred" yaml:"preferred" mapstructure:"preferred"`
	Excellent Quartile `json:"excellent" yaml:"excellent" mapstructure:"excellent"`
}

// PHMConfig holds domain specific settings.
type PHMConfig struct {
	RelevanceThreshold float64  `json:"relevance_threshold" yaml:"relevance_threshold" mapstructure:"relevance_threshold"`
	CoreVenues         []string `json:"core_venues" yaml:"core_venues" mapstructure:"core_venues"`
}

// QualityFiltersConfig is the quality_filters section of the configuration file.
type QualityFiltersConfig struct {
	PublisherBlacklist []string        `json:"publisher_blacklist" yaml:"publisher_blacklist" mapstructure:"publisher_blacklist"`
	PublisherWhitelist []string        `json:"publisher_whitelist" yaml:"publisher_whitelist" mapstructure:"publisher_whitelist"`
	ImpactFactor       ThresholdLevels `json:"impact_factor" yaml:"impact_factor" mapstructure:"impact_factor"`
	Quartile           QuartileLevels  `json:"quartile" yaml:"quartile" mapstructure:"quartile"`
	PHM                PHMConfig       `json:"phm_specific" yaml:"phm_specific" mapstructure:"phm_specific"`
	MinCitationCount   int             `json:"min_citation_count" yaml:"min_citation_count" mapstructure:"min_citation_count"`
	AllowPreprints     bool            `json:"allow_preprints" yaml:"allow_preprints" mapstructure:"allow_preprints"`
	CustomRules        []Rule          `json:"custom_rules,omitempty" yaml:"custom_rules,omitempty" mapstructure:"custom_rules"`
}

// Config groups every configuration section. It is decoded by viper from
// phm-curator.yaml and PHM_CURATOR_* environment variables.
type Config struct {
	Search         SearchConfig         `json:"search" yaml:"search" mapstructure:"search"`
	QualityFilters QualityFiltersConfig `json:"quality_filters" yaml:"quality_filters" mapstructure:"quality_filters"`

	// RegistryFile is an optional YAML file of extra publishers and venues.
	RegistryFile string `json:"registry_file,omitempty" yaml:"registry_file,omitempty" mapstructure:"registry_file"`

	// StorePath is the SQLite database that archives filter runs.
	StorePath string `json:"store_path" yaml:"store_path" mapstructure:"store_path"`

	// ReferenceYear is the year citation ages are computed against
	// (0 means the current year).
	ReferenceYear int `json:"reference_year,omitempty" yaml:"reference_year,omitempty" mapstructure:"reference_year"`

	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogJSON  bool   `json:"log_json" yaml:"log_json" mapstructure:"log_json"`
}
