// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error handling: ActionableError
// carries operation, resource, and suggestions for terminal display, and
// a catalog of known failure topics backs the `plugpack explain` command.
package issue
