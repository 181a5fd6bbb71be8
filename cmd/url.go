package cmd

import (
	"fmt"

	"github.com/grovetools/panos-eol/pkg/docurl"
	"github.com/grovetools/panos-eol/pkg/version"
	"github.com/spf13/cobra"
)

func newURLCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "url <version>...",
		Short: "Print the release-notes URL for PAN-OS versions",
		Long: `Prints the addressed-issues URL that update would write for each version,
or "-" when none can be derived (cycles before 8.1 link to PDFs).

Example:
  panos-eol url 12.1.4-h2 10.2.10-h31`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := docurl.New(rt.cfg.DocsBaseURL)
			out := cmd.OutOrStdout()

			for _, v := range args {
				if _, ok := version.Parse(v); !ok {
					return fmt.Errorf("invalid version %q: want major.minor.patch[-hN]", v)
				}
				url, ok := urls.Build(v)
				if !ok {
					url = "-"
				}
				fmt.Fprintln(out, url)
			}
			return nil
		},
	}
}
