// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thalnet

import "errors"

// Error categories shared by the network builder, stimulus scheduler and probes.
// Specific errors wrap one of these, so test with errors.Is.
var (
	// ErrInvalidConfig is returned for bad population sizes, group counts
	// or synapse parameters.  Nothing is created in the engine.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidArgument is returned for out-of-range group or cycle indexes,
	// malformed feature masks and stimulus requests in the wrong phase.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFatal is returned when the engine fails to create or wire something.
	// The network must be considered unusable: rebuild from scratch.
	ErrFatal = errors.New("fatal engine failure")
)
