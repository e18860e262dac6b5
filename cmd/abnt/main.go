// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the abnt CLI, which formats ABNT
// references and citations, validates reference strings, extracts page
// metadata, manages a local reference library, and serves the HTTP API.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/internal/secrets"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the abnt CLI.
var rootCmd = &cobra.Command{
	Use:   "abnt",
	Short: "Format references and citations according to ABNT",
	Long: `abnt produces bibliographic references (NBR 6023) and in-text citations
(NBR 10520) for books, articles, websites, and theses, checks existing
reference strings for common mistakes, and keeps a local library of saved
references grouped into projects.

Every operation is available both as a subcommand and through the HTTP API
started by "abnt serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./abnt.yaml or ~/.config/abnt/abnt.yaml)")
	rootCmd.PersistentFlags().String("library", "", "library database path (default data/library.db)")
	viper.BindPFlag("library.path", rootCmd.PersistentFlags().Lookup("library"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("abnt")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "abnt"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("ABNT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env overrides apply even when
// no config file exists.
func setDefaults(v *viper.Viper) {
	def := types.DefaultConfig()
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.mode", string(def.Server.Mode))
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
	v.SetDefault("library.path", def.Library.Path)
	v.SetDefault("extract.timeout", def.Extract.Timeout)
	v.SetDefault("extract.user_agent", def.Extract.UserAgent)
	v.SetDefault("extract.rate_per_second", def.Extract.RatePerSecond)
	v.SetDefault("extract.max_retries", def.Extract.MaxRetries)
	v.SetDefault("extract.max_body_bytes", def.Extract.MaxBodyBytes)
	v.SetDefault("lookup.timeout", def.Lookup.Timeout)
	v.SetDefault("lookup.user_agent", def.Lookup.UserAgent)
	v.SetDefault("lookup.mailto", def.Lookup.Mailto)
	v.SetDefault("lookup.max_retries", def.Lookup.MaxRetries)
}

// loadConfig reads the effective configuration from v.
func loadConfig(v *viper.Viper) types.Config {
	def := types.DefaultConfig()
	cfg := types.Config{
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			Mode:            types.ServerMode(v.GetString("server.mode")),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Library: types.LibraryConfig{
			Path: v.GetString("library.path"),
		},
		Extract: types.ExtractConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("extract.timeout"),
				UserAgent: v.GetString("extract.user_agent"),
			},
			RatePerSecond: v.GetFloat64("extract.rate_per_second"),
			MaxRetries:    v.GetInt("extract.max_retries"),
			MaxBodyBytes:  v.GetInt64("extract.max_body_bytes"),
		},
		Lookup: types.LookupConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("lookup.timeout"),
				UserAgent: v.GetString("lookup.user_agent"),
			},
			Mailto:     loadedSecrets.Get(secrets.OpenAlexEmail, v.GetString("lookup.mailto")),
			APIKey:     loadedSecrets.Get(secrets.OpenAlexAPIKey, ""),
			MaxRetries: v.GetInt("lookup.max_retries"),
		},
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = def.Server.Mode
	}
	if cfg.Library.Path == "" {
		cfg.Library.Path = def.Library.Path
	}
	if cfg.Extract.Timeout == 0 {
		cfg.Extract.Timeout = def.Extract.Timeout
	}
	if cfg.Extract.UserAgent == "" {
		cfg.Extract.UserAgent = def.Extract.UserAgent
	}
	if cfg.Lookup.Timeout == 0 {
		cfg.Lookup.Timeout = def.Lookup.Timeout
	}
	if cfg.Lookup.UserAgent == "" {
		cfg.Lookup.UserAgent = def.Lookup.UserAgent
	}
	return cfg
}

// openLibrary opens the configured library store.
func openLibrary() (*library.Store, error) {
	return library.Open(loadConfig(viper.GetViper()).Library)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
