package mod

import (
	"fmt"
	"strings"

	"modkeeper/cmd/root"
	"modkeeper/internal/models"
	"modkeeper/internal/utils"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [mod name]",
	Short: "List mods of the catalog",
	Long:  "List all mods of the catalog with their installation state. If a mod name is specified, only show detailed information of that mod.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := CommandContext()
		defer cancel()
		m, err := LoadManager(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			mod, err := m.GetMod(args[0])
			if err != nil {
				return err
			}
			return PrintModDetail(root.OutputFormat, mod.GetDetail())
		}
		return PrintModList(root.OutputFormat, m.GetMods())
	},
}

/**
 *	Fields displayed in list format
 */
type Mod_Columns struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	State     string `json:"state"`
	Installed string `json:"installed"`
	Update    string `json:"update"`
	Depends   string `json:"depends"`
}

/**
 * Print mod list
 * @param {string} format - table, json or yaml
 * @param {[]models.ModDetail} mods - Mods sorted by name
 * @returns {error} Output errors
 * @description
 * - Table output shows one line per mod and marks mods with a newer catalog version
 * - json/yaml output prints the full details
 */
func PrintModList(format string, mods []models.ModDetail) error {
	if len(mods) == 0 {
		fmt.Println("No mods found")
		return nil
	}
	if format != utils.FormatTable {
		return utils.Print(format, mods)
	}
	rows := make([]Mod_Columns, 0, len(mods))
	for _, d := range mods {
		row := Mod_Columns{
			Name:      d.Name,
			Version:   d.Version,
			State:     d.State,
			Installed: d.InstalledVersion,
			Depends:   strings.Join(d.Dependencies, ","),
		}
		if d.Installed && utils.UpdateAvailable(d.InstalledVersion, d.Version) {
			row.Update = "yes"
		}
		rows = append(rows, row)
	}
	return utils.Print(format, rows)
}

// PrintModDetail 输出单个模组详情
func PrintModDetail(format string, d models.ModDetail) error {
	if format != utils.FormatTable {
		return utils.Print(format, d)
	}
	fmt.Printf("=== Detailed information of mod '%s' ===\n", d.Name)
	fmt.Printf("Name: %s\n", d.Name)
	fmt.Printf("Version: %s\n", d.Version)
	fmt.Printf("State: %s\n", d.State)
	if d.Installed {
		fmt.Printf("Installed version: %s\n", d.InstalledVersion)
		fmt.Printf("Up to date: %v\n", d.Updated)
	}
	if d.Description != "" {
		fmt.Printf("Description: %s\n", d.Description)
	}
	if d.Repository != "" {
		fmt.Printf("Repository: %s\n", d.Repository)
	}
	if len(d.Dependencies) > 0 {
		fmt.Printf("Dependencies: %s\n", strings.Join(d.Dependencies, ", "))
	}
	fmt.Printf("Link: %s\n", d.Link)
	return nil
}

func init() {
	modCmd.AddCommand(listCmd)
}
