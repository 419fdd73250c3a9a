// SPDX-License-Identifier: MPL-2.0

// Package watch observes filesystem trees and turns bursts of change
// notifications into debounced, filtered batches of PathOp values.
//
// It does not itself decide what to do with a batch; see package procman
// and internal/execwatch for the process-lifecycle policy that consumes
// the output of WaitFS.
package watch
