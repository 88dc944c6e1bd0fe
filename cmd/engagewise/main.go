// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the engagewise CLI: recommend ranks
// the study catalog against a study-configuration form, studies manages
// saved projects across the local and remote stores, and star maintains the
// standing starred-items bucket.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/engagewise/engagewise/internal/auth"
	"github.com/engagewise/engagewise/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// sessionDir is bound to the --session-dir flag; empty means the config
// value (or .session/) applies.
var sessionDir string

// identity is the provider built from the session directory at startup;
// it reports nil while nobody is signed in.
var identity auth.Provider = auth.NewStatic(nil)

func currentUser() *types.User {
	return identity.CurrentUser()
}

// rootCmd is the base command for the engagewise CLI.
var rootCmd = &cobra.Command{
	Use:   "engagewise",
	Short: "Study recommendations for clinical trial recruitment",
	Long: `engagewise ranks a catalog of recruitment and engagement studies against
a study-configuration form and persists the resulting shortlists as named
projects. Projects are written to an embedded local store first for
immediate availability; a background writer mirrors them to the remote
store.

Each operation is a subcommand: recommend, studies, star, and whoami.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		user, err := auth.LoadSession(sessionConfig())
		if err != nil {
			return err
		}
		identity = auth.NewStatic(user)
		identity.OnAuthChange(func(u *types.User) {
			if u != nil {
				fmt.Fprintf(os.Stderr, "Signed in as %s\n", u.UID)
			}
		})
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./engagewise.yaml or ~/.config/engagewise/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionDir, "session-dir", "", "session directory holding the signed-in identity (default: .session/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("engagewise")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "engagewise"))
		}
	}

	viper.SetEnvPrefix("ENGAGEWISE")
	viper.AutomaticEnv()

	viper.SetDefault("catalog.source", "data/catalog.json")
	viper.SetDefault("catalog.top_k", 4)
	viper.SetDefault("catalog.timeout", "30s")
	viper.SetDefault("local_store.dir", "data/local")
	viper.SetDefault("remote_store.path", "data/remote/engagewise.db")
	viper.SetDefault("outbox.max_retries", 3)
	viper.SetDefault("session.dir", ".session")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the component configuration from viper.
func engineConfig() types.EngineConfig {
	return types.EngineConfig{
		Catalog: types.CatalogConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("catalog.timeout"),
				UserAgent: "engagewise/" + version,
			},
			Source: viper.GetString("catalog.source"),
			TopK:   viper.GetInt("catalog.top_k"),
		},
		LocalStore:  types.LocalStoreConfig{Dir: viper.GetString("local_store.dir")},
		RemoteStore: types.RemoteStoreConfig{Path: viper.GetString("remote_store.path")},
		Outbox:      types.OutboxConfig{MaxRetries: viper.GetInt("outbox.max_retries")},
		Session:     sessionConfig(),
	}
}

func sessionConfig() types.SessionConfig {
	dir := sessionDir
	if dir == "" {
		dir = viper.GetString("session.dir")
	}
	if dir == "" {
		dir = ".session"
	}
	return types.SessionConfig{Dir: dir}
}

// requireUser fails fast for commands that need a signed-in identity.
func requireUser() (*types.User, error) {
	user := currentUser()
	if user == nil || user.UID == "" {
		return nil, fmt.Errorf("no user is signed in: write a uid file under %s", sessionConfig().Dir)
	}
	return user, nil
}

// truncate shortens s to at most n runes for column rendering. Study
// titles may carry multi-byte characters, so never slice bytes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// flushTimeout bounds the wait for queued remote writes at command exit.
const flushTimeout = 30 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
