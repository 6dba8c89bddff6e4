package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/cliconfig"
)

var (
	profileName   string
	region        string
	guid          string
	apiKey        string
	environmentID string
	collectionID  string
	format        string
)

var rootCmd = &cobra.Command{
	Use:   "appconfig",
	Short: "CLI for IBM Cloud App Configuration feature flags and properties",
	Long: `appconfig is a command-line client for IBM Cloud App Configuration.

It evaluates feature flags and properties against a live service
connection, using the same client the SDK exposes to Go programs.

Examples:
  appconfig list features --profile prod
  appconfig get feature my_flag --profile prod --entity user-42
  appconfig config init`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "named connection profile from ~/.appconfig/config.yaml")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "service region (overrides profile/env)")
	rootCmd.PersistentFlags().StringVar(&guid, "guid", "", "service instance guid (overrides profile/env)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "IAM API key (overrides profile/env)")
	rootCmd.PersistentFlags().StringVar(&environmentID, "environment-id", "", "environment id (overrides profile/env)")
	rootCmd.PersistentFlags().StringVar(&collectionID, "collection-id", "", "collection id (overrides profile/env)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "output format (table, json)")

	viper.SetEnvPrefix("appconfig")
	viper.AutomaticEnv()
	viper.SetDefault("profile", "")
	viper.SetDefault("format", "table")
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
}

// newClient resolves the effective profile from flags, environment
// variables, and the config file (in that priority), then constructs a
// connected Client. profile and format are read through viper so that
// APPCONFIG_PROFILE/APPCONFIG_FORMAT apply whenever their flags are left
// at the default.
func newClient(ctx context.Context) (*appconfiguration.Client, error) {
	format = viper.GetString("format")

	flagProfile := cliconfig.Profile{
		Region: region, GUID: guid, APIKey: apiKey,
		EnvironmentID: environmentID, CollectionID: collectionID,
	}

	profile, _, err := cliconfig.Resolve(viper.GetString("profile"), flagProfile)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if profile.EnvironmentID == "" || profile.CollectionID == "" {
		return nil, fmt.Errorf("configuration error: environment-id and collection-id are required")
	}

	return appconfiguration.New(ctx, appconfiguration.Options{
		Credentials: appconfiguration.Credentials{APIKey: profile.APIKey, Region: profile.Region, GUID: profile.GUID},
		Context:     appconfiguration.Context{EnvironmentID: profile.EnvironmentID, CollectionID: profile.CollectionID},
	})
}
