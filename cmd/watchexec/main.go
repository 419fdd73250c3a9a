// SPDX-License-Identifier: MPL-2.0

// Command watchexec watches a set of paths and re-runs a command whenever
// they change.
package main

func main() {
	Execute()
}
