// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"plugpack-cli/internal/issue"
	"plugpack-cli/pkg/plugin"

	"github.com/spf13/cobra"
)

var (
	// unpackPath is the destination directory for extracted plugins
	unpackPath string
	// unpackOverwrite allows overwriting an existing plugin directory
	unpackOverwrite bool

	// unpackCmd extracts a plugin archive
	unpackCmd = &cobra.Command{
		Use:   "unpack <source>",
		Short: "Extract a plugin archive",
		Long: `Extract a plugin .tgz archive into a destination directory.

The source may be a local file or an http(s) URL. The archive must
contain a single plugin directory with a package.json at its root.

Examples:
  plugpack unpack ./my-plugin-1.2.3.tgz
  plugpack unpack https://example.com/plugins/my-plugin-1.2.3.tgz
  plugpack unpack ./my-plugin-1.2.3.tgz --path ./plugins
  plugpack unpack ./my-plugin-1.2.3.tgz --overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: runUnpack,
	}
)

func init() {
	unpackCmd.Flags().StringVarP(&unpackPath, "path", "p", "", "destination directory (default: current directory)")
	unpackCmd.Flags().BoolVar(&unpackOverwrite, "overwrite", false, "overwrite an existing plugin if present")
}

func runUnpack(cmd *cobra.Command, args []string) error {
	source := args[0]

	fmt.Println(TitleStyle.Render("Unpack Plugin"))

	pluginPath, err := plugin.Unpack(plugin.UnpackOptions{
		Source:    source,
		DestDir:   unpackPath,
		Overwrite: unpackOverwrite,
	})
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "unpack plugin archive", source))
	}

	p, err := plugin.Load(pluginPath)
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "load extracted plugin", pluginPath))
	}

	fmt.Printf("%s Plugin unpacked successfully\n", successIcon)
	fmt.Println()
	fmt.Printf("%s Name: %s\n", infoIcon, CmdStyle.Render(p.Manifest.Name))
	fmt.Printf("%s Version: %s\n", infoIcon, p.Manifest.Version)
	fmt.Printf("%s Path: %s\n", infoIcon, PathStyle.Render(pluginPath))

	return nil
}
