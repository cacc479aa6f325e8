// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"plugpack-cli/internal/issue"
	"plugpack-cli/pkg/plugin"

	"github.com/spf13/cobra"
)

// validateCmd checks a plugin directory without building it
var validateCmd = &cobra.Command{
	Use:   "validate <directory>",
	Short: "Validate a plugin directory",
	Long: `Validate the structure and manifest of a plugin directory without
running the bundle pipeline.

Checks performed:
  - Path exists and is a directory
  - package.json is present and parses
  - version is set (required for archive naming)
  - An entry module is resolvable (main, index.js, or index.tsx)
  - The bundle output path stays inside the plugin directory

Examples:
  plugpack validate ./my-plugin`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Println(TitleStyle.Render("Plugin Validation"))

	result, err := plugin.Validate(args[0])
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "validate plugin", args[0]))
	}

	fmt.Printf("%s Path: %s\n", infoIcon, PathStyle.Render(result.PluginDir))
	if result.PluginName != "" {
		fmt.Printf("%s Name: %s\n", infoIcon, CmdStyle.Render(result.PluginName))
	}
	if result.Entry != "" {
		fmt.Printf("%s Entry: %s\n", infoIcon, PathStyle.Render(result.Entry))
	}
	fmt.Println()

	if result.Valid {
		fmt.Printf("%s Plugin is valid\n", successIcon)
		return nil
	}

	fmt.Printf("%s Plugin validation failed with %d issue(s)\n", errorIcon, len(result.Issues))
	fmt.Println()

	for i, iss := range result.Issues {
		if iss.Path != "" {
			fmt.Printf("  %d. [%s] %s: %s\n", i+1, iss.Type, PathStyle.Render(iss.Path), iss.Message)
		} else {
			fmt.Printf("  %d. [%s] %s\n", i+1, iss.Type, iss.Message)
		}
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1}
}
