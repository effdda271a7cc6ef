package path

import (
	"fmt"

	"modkeeper/cmd/root"
	"modkeeper/internal/config"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Game directory helpers",
}

var checkCmd = &cobra.Command{
	Use:   "check [game directory]",
	Short: "Check that a directory is a valid game installation",
	Long:  "Check a game directory for a known Managed data folder and Assembly-CSharp.dll. Without argument the configured install.managed_dir is checked.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.App().Install.ManagedDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			return fmt.Errorf("no game directory given and install.managed_dir is not configured")
		}
		vp, err := config.ValidatePath(dir)
		if err != nil {
			return err
		}
		fmt.Printf("Valid game directory: %s\n", vp.Root)
		fmt.Printf("Data folder: %s\n", vp.Suffix)
		return nil
	},
}

func init() {
	pathCmd.AddCommand(checkCmd)
	root.RootCmd.AddCommand(pathCmd)
}
