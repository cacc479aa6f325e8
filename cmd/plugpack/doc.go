// SPDX-License-Identifier: MPL-2.0

// Package cmd wires the plugpack CLI: the bundle pipeline plus the
// supporting unpack, validate, config, and explain subcommands.
package cmd
