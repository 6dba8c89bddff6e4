package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/cliconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage connection profiles",
	Long:  `Manage the appconfig CLI's named connection profiles.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty profile config file",
	Long: `Create a default configuration file at ~/.appconfig/config.yaml

Example:
  appconfig config init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &cliconfig.Config{Profiles: map[string]cliconfig.Profile{}}
		if err := cliconfig.Save(cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		path, _ := cliconfig.Path()
		fmt.Printf("Configuration file created at: %s\n", path)
		fmt.Println("Add a profile with: appconfig config set <name> --region ... --guid ... --api-key ... --environment-id ... --collection-id ...")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	Long: `Display the current profile configuration.

Example:
  appconfig config list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliconfig.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("Default profile: %s\n\n", cfg.DefaultProfile)
		fmt.Println("Profiles:")
		for name, p := range cfg.Profiles {
			maskedKey := "***"
			if len(p.APIKey) > 4 {
				maskedKey = p.APIKey[:4] + "***"
			}
			fmt.Printf("  %s:\n", name)
			fmt.Printf("    region: %s\n", p.Region)
			fmt.Printf("    guid: %s\n", p.GUID)
			fmt.Printf("    environment_id: %s\n", p.EnvironmentID)
			fmt.Printf("    collection_id: %s\n", p.CollectionID)
			fmt.Printf("    api_key: %s\n", maskedKey)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a profile",
	Long: `Create or update a named connection profile.

Example:
  appconfig config set prod --region us-south --guid abcd-1234 --api-key my-key --environment-id prod --collection-id web --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := cliconfig.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profile := cfg.Profiles[name]
		if region != "" {
			profile.Region = region
		}
		if guid != "" {
			profile.GUID = guid
		}
		if apiKey != "" {
			profile.APIKey = apiKey
		}
		if environmentID != "" {
			profile.EnvironmentID = environmentID
		}
		if collectionID != "" {
			profile.CollectionID = collectionID
		}
		cfg.Profiles[name] = profile

		setDefault, _ := cmd.Flags().GetBool("default")
		if setDefault {
			cfg.DefaultProfile = name
		}

		if err := cliconfig.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Saved profile %q\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().Bool("default", false, "make this the default profile")
}
