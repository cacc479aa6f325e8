// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"plugpack-cli/internal/issue"

	"github.com/spf13/cobra"
)

// explainCmd renders the remedy text for a known failure topic
var explainCmd = &cobra.Command{
	Use:   "explain [topic]",
	Short: "Explain a known failure topic",
	Long: `Render the remedy text for a known failure topic.

Error messages reference these topics; without an argument the
available topics are listed.

Examples:
  plugpack explain
  plugpack explain entry-not-found`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println(TitleStyle.Render("Topics"))
		for _, topic := range issue.Topics() {
			fmt.Printf("  %s %s\n", infoIcon, CmdStyle.Render(string(topic)))
		}
		return nil
	}

	i, err := issue.Lookup(issue.Topic(args[0]))
	if err != nil {
		return fail(cmd, err)
	}

	out, err := i.Render()
	if err != nil {
		return fail(cmd, issue.WrapWithContext(err, "render topic", args[0]))
	}

	fmt.Print(out)
	return nil
}
