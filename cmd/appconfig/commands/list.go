package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List feature or property ids",
}

var listFeaturesCmd = &cobra.Command{
	Use:   "features",
	Short: "List feature ids in the current collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		client, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		ids, err := client.FeatureIDs()
		if err != nil {
			return fmt.Errorf("failed to list features: %w", err)
		}
		return printIDs("features", ids)
	},
}

var listPropertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "List property ids in the current collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		client, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		ids, err := client.PropertyIDs()
		if err != nil {
			return fmt.Errorf("failed to list properties: %w", err)
		}
		return printIDs("properties", ids)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listFeaturesCmd)
	listCmd.AddCommand(listPropertiesCmd)
}
