// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"plugpack-cli/internal/issue"
	"plugpack-cli/internal/toolchain"
	"plugpack-cli/internal/tui"
	"plugpack-cli/pkg/plugin"

	"github.com/spf13/cobra"
)

var (
	// bundleOutput is the target file or directory for the archive
	bundleOutput string
	// bundleYes skips the directory-creation confirmation prompt
	bundleYes bool
	// bundlePackageManager overrides the configured package manager
	bundlePackageManager string

	// bundleCmd packages a plugin directory into a distributable archive
	bundleCmd = &cobra.Command{
		Use:   "bundle <directory>",
		Short: "Package a plugin into a distributable archive",
		Long: `Package a plugin source directory into a distributable .tgz archive.

The pipeline installs the plugin's dependencies, compiles the entry
module into a single bundle file, and packs the whole directory
(bundle included) into <name>-<version>.tgz.

The output flag may name a file, an existing directory, or a path that
does not exist yet; a missing directory is created after confirmation.

Examples:
  plugpack bundle ./my-plugin
  plugpack bundle ./my-plugin --output ./dist/
  plugpack bundle ./my-plugin -o ./dist/custom-name.tgz
  plugpack bundle ./my-plugin -o ./release/ --yes`,
		Args: cobra.ExactArgs(1),
		RunE: runBundle,
	}
)

func init() {
	bundleCmd.Flags().StringVarP(&bundleOutput, "output", "o", ".", "target file or directory for the produced archive")
	bundleCmd.Flags().BoolVarP(&bundleYes, "yes", "y", false, "answer confirmation prompts with yes")
	bundleCmd.Flags().StringVar(&bundlePackageManager, "package-manager", "", "override the package manager (default: from config, auto-detected)")
}

func runBundle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println(TitleStyle.Render("Bundle Plugin"))

	p, err := plugin.Load(args[0])
	if err != nil {
		topic := issue.ManifestInvalid
		if errors.Is(err, plugin.ErrNotDirectory) {
			topic = issue.NotADirectory
		}
		return fail(cmd, issue.NewErrorContext().
			WithOperation("load plugin").
			WithResource(args[0]).
			WithTopic(topic).
			Wrap(err).
			BuildError())
	}

	m := p.Manifest
	fmt.Printf("%s Plugin: %s\n", infoIcon, CmdStyle.Render(m.ArchiveName()))
	fmt.Printf("%s Source: %s\n", infoIcon, PathStyle.Render(p.Dir))

	outputFile, err := p.ResolveOutput(bundleOutput, confirmFunc())
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("resolve output path").
			WithResource(bundleOutput).
			Wrap(err)
		if errors.Is(err, plugin.ErrCreateDeclined) {
			ec.WithTopic(issue.OutputDeclined)
		}
		return fail(cmd, ec.BuildError())
	}
	fmt.Printf("%s Output: %s\n", infoIcon, PathStyle.Render(outputFile))
	fmt.Println()

	tc := toolchain.New(packageManagerSetting(), cfg.Tools.Bundler)

	fmt.Printf("%s Installing dependencies...\n", infoIcon)
	if err := tc.Install(ctx, p.Dir); err != nil {
		return fail(cmd, issue.NewErrorContext().
			WithOperation("install dependencies").
			WithResource(p.Dir).
			WithTopic(issue.InstallFailed).
			Wrap(err).
			BuildError())
	}
	fmt.Printf("%s Dependencies installed\n", successIcon)

	entry, err := p.Entry()
	if err != nil {
		return fail(cmd, issue.NewErrorContext().
			WithOperation("resolve entry module").
			WithResource(p.Dir).
			WithTopic(issue.EntryNotFound).
			Wrap(err).
			BuildError())
	}
	bundlePath := p.BundlePath()
	fmt.Printf("%s Entry: %s\n", infoIcon, PathStyle.Render(entry))
	fmt.Printf("%s Bundle: %s\n", infoIcon, PathStyle.Render(bundlePath))

	fmt.Printf("%s Compiling bundle...\n", infoIcon)
	if err := tc.Build(ctx, p.Dir, entry, bundlePath); err != nil {
		return fail(cmd, issue.NewErrorContext().
			WithOperation("compile plugin bundle").
			WithResource(entry).
			WithTopic(issue.BuildFailed).
			Wrap(err).
			BuildError())
	}
	fmt.Printf("%s Bundle compiled\n", successIcon)

	fmt.Printf("%s Packing archive...\n", infoIcon)
	if err := p.Pack(outputFile); err != nil {
		return fail(cmd, issue.NewErrorContext().
			WithOperation("pack plugin archive").
			WithResource(outputFile).
			WithTopic(issue.PackFailed).
			Wrap(err).
			BuildError())
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "stat output file", outputFile))
	}

	fmt.Printf("%s Archive packed\n", successIcon)
	fmt.Println()
	fmt.Printf("%s Bundled %s into %s (%s)\n", successIcon,
		PathStyle.Render(filepath.Base(p.Dir)),
		PathStyle.Render(outputFile),
		formatFileSize(info.Size()))

	return nil
}

// packageManagerSetting resolves the package manager from flag over config.
func packageManagerSetting() string {
	if bundlePackageManager != "" {
		return bundlePackageManager
	}
	return cfg.Tools.PackageManager
}

// confirmFunc wires the interactive prompt, honoring --yes and the
// configured assume_yes setting.
func confirmFunc() plugin.ConfirmFunc {
	if bundleYes || cfg.UI.AssumeYes {
		return func(string, bool) (bool, error) { return true, nil }
	}
	return func(prompt string, defaultYes bool) (bool, error) {
		return tui.Confirm(tui.ConfirmOptions{
			Title:   prompt,
			Default: defaultYes,
		})
	}
}
