// SPDX-License-Identifier: MPL-2.0

package main

import cmd "plugpack-cli/cmd/plugpack"

func main() {
	cmd.Execute()
}
