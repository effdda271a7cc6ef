package mod

import (
	"fmt"
	"os"
	"time"

	"modkeeper/internal/models"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var optDisabled bool

var installCmd = &cobra.Command{
	Use:   "install <mod name>",
	Short: "Install a mod and its dependencies",
	Long:  "Download, verify and extract a mod together with any missing dependencies. The runtime support package is installed first when needed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := CommandContext()
		defer cancel()
		m, err := LoadManager(ctx)
		if err != nil {
			return err
		}
		reporter := newProgressReporter(args[0])
		if err := m.Install(ctx, args[0], !optDisabled, reporter.Report); err != nil {
			return err
		}
		fmt.Printf("Mod '%s' installed\n", args[0])
		return nil
	},
}

/**
 * Render install progress events on stderr
 * @description
 * - The bar is created lazily on the first sample with a known total size
 * - Downloads without Content-Length are not rendered
 */
type progressReporter struct {
	name string
	bar  *progressbar.ProgressBar
}

func newProgressReporter(name string) *progressReporter {
	return &progressReporter{name: name}
}

func (r *progressReporter) Report(p models.ModProgress) {
	switch {
	case p.Completed:
		if r.bar != nil {
			r.bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
	case p.Download != nil:
		if p.Download.TotalBytes <= 0 {
			return
		}
		if r.bar == nil {
			r.bar = progressbar.NewOptions64(p.Download.TotalBytes,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("downloading "+r.name),
				progressbar.OptionShowBytes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionThrottle(100*time.Millisecond),
			)
		}
		r.bar.Set(int(p.Download.BytesRead))
	}
}

func init() {
	installCmd.Flags().BoolVar(&optDisabled, "disabled", false, "install into the disabled folder")
	modCmd.AddCommand(installCmd)
}
