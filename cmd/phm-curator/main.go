// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the phm-curator CLI.
// See DESIGN.md for how the commands map onto the filter stages.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/phm-curator/internal/filter"
	"github.com/pdiddy/phm-curator/internal/logging"
	"github.com/pdiddy/phm-curator/internal/quality"
	"github.com/pdiddy/phm-curator/internal/relevance"
	"github.com/pdiddy/phm-curator/internal/reputation"
	"github.com/pdiddy/phm-curator/internal/secrets"
	"github.com/pdiddy/phm-curator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// configErr holds a config load failure from initConfig. An explicitly
// named config file that cannot be read is fatal; a missing default file
// is not.
var configErr error

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built in PersistentPreRunE from the log_level config.
var logger = zap.NewNop()

// rootCmd is the base command for the phm-curator CLI.
var rootCmd = &cobra.Command{
	Use:   "phm-curator",
	Short: "Score and filter academic papers for PHM research",
	Long: `phm-curator turns raw paper metadata into a ranked, policy-compliant
subset for prognostics and health management research. Papers are scored on
venue, publisher, impact factor, citations and PHM relevance, then filtered
by configurable criteria.

Input comes from a JSON, JSON lines or YAML file (filter, assess) or from a
live search against OpenAlex, arXiv and Semantic Scholar (search).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		level := viper.GetString("log_level")
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = "debug"
		}
		l, err := logging.New(level, viper.GetBool("log_json"))
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", secrets.Names(s)))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./phm-curator.yaml or ~/.config/phm-curator/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("phm-curator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "phm-curator"))
		}
	}

	viper.SetEnvPrefix("PHM_CURATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	case cfgFile != "":
		configErr = fmt.Errorf("loading config %s: %w", cfgFile, err)
	default:
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("loading config: %w", err)
		}
	}
}

// setDefaults registers the built-in configuration on v.
func setDefaults(v *viper.Viper) {
	qf := filter.DefaultQualityFilters()
	v.SetDefault("quality_filters.publisher_blacklist", qf.PublisherBlacklist)
	v.SetDefault("quality_filters.publisher_whitelist", qf.PublisherWhitelist)
	v.SetDefault("quality_filters.impact_factor.minimum", qf.ImpactFactor.Minimum)
	v.SetDefault("quality_filters.impact_factor.preferred", qf.ImpactFactor.Preferred)
	v.SetDefault("quality_filters.impact_factor.excellent", qf.ImpactFactor.Excellent)
	v.SetDefault("quality_filters.quartile.minimum", string(qf.Quartile.Minimum))
	v.SetDefault("quality_filters.quartile.preferred", string(qf.Quartile.Preferred))
	v.SetDefault("quality_filters.quartile.excellent", string(qf.Quartile.Excellent))
	v.SetDefault("quality_filters.phm_specific.relevance_threshold", qf.PHM.RelevanceThreshold)
	v.SetDefault("quality_filters.phm_specific.core_venues", qf.PHM.CoreVenues)
	v.SetDefault("quality_filters.min_citation_count", qf.MinCitationCount)
	v.SetDefault("quality_filters.allow_preprints", qf.AllowPreprints)

	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.user_agent", "phm-curator/"+version)
	v.SetDefault("search.max_results", 50)
	v.SetDefault("search.enable_openalex", true)
	v.SetDefault("search.enable_arxiv", true)
	v.SetDefault("search.enable_semantic_scholar", true)
	v.SetDefault("search.requests_per_second", 5.0)
	v.SetDefault("search.max_retries", 3)

	v.SetDefault("store_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// loadConfig decodes v into a Config and applies secrets, then validates
// the custom rules.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	secrets.ApplySearch(&cfg.Search, loadedSecrets)
	if err := filter.ValidateRules(cfg.QualityFilters.CustomRules); err != nil {
		return cfg, fmt.Errorf("invalid custom_rules: %w", err)
	}
	return cfg, nil
}

// newAssessor builds the registry (with any override file) and assessor.
func newAssessor(cfg types.Config, scorer *relevance.Scorer) (*quality.Assessor, error) {
	reg := reputation.Default()
	if cfg.RegistryFile != "" {
		o, err := reputation.LoadOverrides(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}
		reg = reg.With(o)
		logger.Debug("registry overrides loaded",
			zap.String("file", cfg.RegistryFile),
			zap.Int("publishers", len(o.Publishers)),
			zap.Int("venues", len(o.Venues)))
	}
	return quality.NewAssessor(reg, scorer, quality.Config{
		ReferenceYear: cfg.ReferenceYear,
		CoreVenues:    cfg.QualityFilters.PHM.CoreVenues,
	}), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
