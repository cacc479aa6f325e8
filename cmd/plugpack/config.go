// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"plugpack-cli/internal/config"
	"plugpack-cli/internal/issue"

	"github.com/spf13/cobra"
)

var (
	// configCmd groups configuration subcommands
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage plugpack configuration",
		Long: `Manage the plugpack configuration file.

The configuration selects the external tools the bundle pipeline runs
(package manager and bundler) and UI behavior. Settings live in a TOML
file under the platform config directory.

Examples:
  plugpack config show
  plugpack config path
  plugpack config init`,
	}

	// configShowCmd prints the effective configuration
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE:  runConfigShow,
	}

	// configPathCmd prints the config file location
	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE:  runConfigPath,
	}

	// configInitCmd writes a default config file
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE:  runConfigInit,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := cfg.TOML()
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "render configuration", ""))
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Print(out)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.FilePath()
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "resolve config path", ""))
	}
	fmt.Println(path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.FilePath()
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "resolve config path", ""))
	}

	if err := config.WriteDefault(path); err != nil {
		return fail(cmd, issue.NewErrorContext().
			WithOperation("write default config").
			WithResource(path).
			WithSuggestion("Remove or back up the existing file first").
			Wrap(err).
			BuildError())
	}

	fmt.Printf("%s Default config written to %s\n", successIcon, PathStyle.Render(path))
	return nil
}
