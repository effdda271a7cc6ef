package remote

import (
	"modkeeper/cmd/mod"
	"modkeeper/cmd/root"
	"modkeeper/controllers"
	"modkeeper/internal/models"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [mod name]",
	Short: "List mods known to the daemon",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(0)
		defer client.Close()

		if len(args) == 1 {
			resp, err := client.Get(modPath(args[0], ""), nil)
			if err != nil {
				return err
			}
			var detail models.ModDetail
			if err := resp.Decode(&detail); err != nil {
				return err
			}
			return mod.PrintModDetail(root.OutputFormat, detail)
		}

		resp, err := client.Get(controllers.APIPrefix+"/mods", nil)
		if err != nil {
			return err
		}
		var mods []models.ModDetail
		if err := resp.Decode(&mods); err != nil {
			return err
		}
		return mod.PrintModList(root.OutputFormat, mods)
	},
}

func init() {
	remoteCmd.AddCommand(listCmd)
}
