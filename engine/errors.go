// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "errors"

var (
	// ErrUnknownModel is returned for a model name the engine does not know
	ErrUnknownModel = errors.New("engine: unknown model")

	// ErrInvalidID is returned for a node or connection handle that was never created
	ErrInvalidID = errors.New("engine: invalid handle")

	// ErrInvalidParam is returned for out-of-range sizes, indexes or parameter values
	ErrInvalidParam = errors.New("engine: invalid parameter")

	// ErrResource is returned when the engine cannot allocate more nodes
	ErrResource = errors.New("engine: resources exhausted")
)
