package cmd

import (
	"fmt"

	"modkeeper/cmd/root"
	"modkeeper/internal/env"

	"github.com/spf13/cobra"
)

func PrintVersions() {
	fmt.Printf("%s %s\n", env.SoftwareName, env.SoftwareVer)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Printf("Build Tag: %s\n", env.BuildTag)
	fmt.Printf("Build Commit ID: %s\n", env.BuildCommit)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `The 'version' command shows version details including git commit and build time`,

	Run: func(cmd *cobra.Command, args []string) {
		PrintVersions()
	},
}

func init() {
	root.RootCmd.AddCommand(versionCmd)

	versionCmd.Example = `  modkeeper version`
}
