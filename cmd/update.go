package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovetools/panos-eol/pkg/docurl"
	"github.com/grovetools/panos-eol/pkg/document"
	"github.com/grovetools/panos-eol/pkg/feed"
	"github.com/grovetools/panos-eol/pkg/patch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	markerNoUpdates    = "NO_UPDATES"
	markerUpdatesFound = "UPDATES_FOUND"
)

type updateOptions struct {
	FeedPath   string
	DocPath    string
	OutputPath string
	DryRun     bool
}

func newUpdateCmd(rt *runtime) *cobra.Command {
	var opts updateOptions

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update pan-os.md with new PAN-OS versions",
		Long: `Compares the versions feed with pan-os.md and writes an updated copy when
newer releases exist.

Output on stdout is meant for scripts:
  NO_UPDATES              nothing changed, the output file is not written
  UPDATES_FOUND           followed by one "<cycle>: <old> -> <new>" line per change

Example:
  panos-eol update --json PaloAltoVersions.json --md pan-os.md --output pan-os.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, rt, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FeedPath, "json", "", "Path to PaloAltoVersions.json")
	cmd.Flags().StringVar(&opts.DocPath, "md", "", "Path to current pan-os.md")
	cmd.Flags().StringVar(&opts.OutputPath, "output", "", "Path to write updated pan-os.md")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report changes without writing the output file")
	_ = cmd.MarkFlagRequired("json")
	_ = cmd.MarkFlagRequired("md")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runUpdate(cmd *cobra.Command, rt *runtime, opts updateOptions) error {
	log := rt.log.WithFields(logrus.Fields{"feed": opts.FeedPath, "document": opts.DocPath})

	loader := feed.NewLoader(rt.log)
	loader.ValidateSchema = rt.cfg.ValidateFeed
	cycles, err := loader.Load(opts.FeedPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.DocPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	content := string(data)

	blocks, err := document.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", opts.DocPath, err)
	}
	log.WithFields(logrus.Fields{"cycles": len(cycles), "blocks": len(blocks)}).Debug("Inputs loaded")

	applier := patch.NewApplier(docurl.New(rt.cfg.DocsBaseURL), rt.log)
	result := applier.Apply(content, blocks, cycles)

	out := cmd.OutOrStdout()
	if !result.Updated() {
		fmt.Fprintln(out, markerNoUpdates)
		log.Info("No updates found")
		return nil
	}

	if rt.cfg.VerifyOutput {
		if err := document.VerifyFrontmatter(result.Content); err != nil {
			return fmt.Errorf("updated document failed verification: %w", err)
		}
	}

	if opts.DryRun {
		log.WithField("output", opts.OutputPath).Info("Dry run, not writing output")
	} else {
		if err := os.WriteFile(opts.OutputPath, []byte(result.Content), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.WithFields(logrus.Fields{"output": opts.OutputPath, "changes": len(result.Changes)}).Info("Wrote updated document")
	}

	fmt.Fprintln(out, markerUpdatesFound)
	for _, change := range result.Changes {
		fmt.Fprintln(out, change.String())
	}

	if errOut := cmd.ErrOrStderr(); isTerminal(errOut) {
		printSummary(errOut, result.Changes, opts.DryRun)
	}
	return nil
}

// printSummary renders a human-oriented view of the changes.
func printSummary(w io.Writer, changes []patch.Change, dryRun bool) {
	title := fmt.Sprintf("%d release cycle(s) updated", len(changes))
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, headerStyle.Render(title))

	for _, c := range changes {
		from := c.From
		if strings.TrimSpace(from) == "" {
			from = "(none)"
		}
		fmt.Fprintf(w, "  %s %s %s %s\n",
			versionStyle.Render(c.Cycle),
			faintStyle.Render(from),
			faintStyle.Render("→"),
			updateStyle.Render(c.To))
	}
}
