package remote

import (
	"fmt"

	"modkeeper/cmd/root"
	"modkeeper/internal/models"
	"modkeeper/internal/utils"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show daemon health and mod statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(0)
		defer client.Close()

		resp, err := client.Get("/healthz", nil)
		if err != nil {
			return err
		}
		var health models.HealthResponse
		if err := resp.Decode(&health); err != nil {
			return err
		}
		if root.OutputFormat != utils.FormatTable {
			return utils.Print(root.OutputFormat, health)
		}
		fmt.Printf("Status: %s (version %s, up %s)\n", health.Status, health.Version, health.Uptime)
		fmt.Printf("Mods: %d in catalog, %d installed, %d enabled\n",
			health.Metrics.TotalMods, health.Metrics.InstalledMods, health.Metrics.EnabledMods)
		fmt.Printf("Runtime support: %s\n", health.Metrics.ApiState)
		fmt.Printf("Requests: %d total, %d failed\n", health.Metrics.TotalRequests, health.Metrics.ErrorRequests)
		return nil
	},
}

func init() {
	remoteCmd.AddCommand(healthCmd)
}
