// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Topic identifies a catalog entry for `plugpack explain`.
type Topic string

const (
	NotADirectory   Topic = "not-a-directory"
	ManifestInvalid Topic = "manifest-invalid"
	EntryNotFound   Topic = "entry-not-found"
	InstallFailed   Topic = "install-failed"
	BuildFailed     Topic = "build-failed"
	PackFailed      Topic = "pack-failed"
	OutputDeclined  Topic = "output-declined"
)

// MarkdownMsg is remedy text in Markdown, rendered via glamour.
type MarkdownMsg string

// Issue is a known failure mode with a longer remedy text.
type Issue struct {
	topic Topic
	mdMsg MarkdownMsg
}

// Topic returns the catalog key of the issue.
func (i *Issue) Topic() Topic {
	return i.topic
}

// render is swappable for tests that don't want ANSI output.
var render = glamour.Render

// Render returns the remedy text rendered for the terminal.
func (i *Issue) Render() (string, error) {
	return render(string(i.mdMsg), "dark")
}

var catalog = map[Topic]*Issue{
	NotADirectory: {
		topic: NotADirectory,
		mdMsg: `# Input is not a directory

The ` + "`bundle`" + ` command takes a plugin **source directory** as its
argument. A file path (even a previously produced archive) is not accepted.

- Pass the directory that contains ` + "`package.json`" + `
- To re-extract an archive, use ` + "`plugpack unpack <file>`" + ` instead`,
	},
	ManifestInvalid: {
		topic: ManifestInvalid,
		mdMsg: `# Plugin manifest missing or invalid

Every plugin needs a readable ` + "`package.json`" + ` at its root. It supplies
the archive name (` + "`name`" + `, ` + "`version`" + `) and the build hints
(` + "`main`" + `, ` + "`bundleMain`" + `).

- Check the file exists and parses as JSON
- ` + "`version`" + ` is required for archive naming
- Run ` + "`plugpack validate <dir>`" + ` for a full report`,
	},
	EntryNotFound: {
		topic: EntryNotFound,
		mdMsg: `# No entry module found

The compiler needs an entry file. Resolution order:

1. ` + "`main`" + ` declared in ` + "`package.json`" + `
2. ` + "`index.js`" + ` at the plugin root
3. ` + "`index.tsx`" + ` at the plugin root

If none of these exist the bundle operation fails rather than passing an
empty entry to the compiler.`,
	},
	InstallFailed: {
		topic: InstallFailed,
		mdMsg: `# Dependency installation failed

The package manager exited with an error. Its own output above has the
details; plugpack does not retry.

- The tool is picked from the lockfile (` + "`pnpm-lock.yaml`" + `,
  ` + "`yarn.lock`" + `, else npm) or from ` + "`tools.package_manager`" + ` in the config
- Run the install command manually in the plugin directory to reproduce`,
	},
	BuildFailed: {
		topic: BuildFailed,
		mdMsg: `# Bundle compilation failed

The bundler exited with an error. Its own output above has the details.

- The command template comes from ` + "`tools.bundler`" + ` in the config
  (default: esbuild via npx)
- ` + "`{entry}`" + ` and ` + "`{output}`" + ` placeholders are filled per run`,
	},
	PackFailed: {
		topic: PackFailed,
		mdMsg: `# Archive creation failed

Writing the final ` + "`.tgz`" + ` failed. Common causes:

- No write permission at the output location
- The disk is full
- A file disappeared while being archived

A partially written archive is removed.`,
	},
	OutputDeclined: {
		topic: OutputDeclined,
		mdMsg: `# Output directory creation declined

The requested output location pointed into a directory that does not exist,
and the confirmation prompt was answered with no. Nothing was created.

- Re-run and confirm, or pre-create the directory
- Use ` + "`--yes`" + ` in scripts to skip the prompt`,
	},
}

// Lookup returns the catalog entry for a topic.
func Lookup(topic Topic) (*Issue, error) {
	i, ok := catalog[topic]
	if !ok {
		return nil, fmt.Errorf("unknown topic %q (see 'plugpack explain' for the list)", topic)
	}
	return i, nil
}

// Topics returns all catalog topics in sorted order.
func Topics() []Topic {
	topics := maps.Keys(catalog)
	slices.Sort(topics)
	return topics
}
