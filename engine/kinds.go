// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/goki/ki/kit"

// Kinds are the basic kinds of node that a model creates
type Kinds int

//go:generate stringer -type=Kinds

var KiT_Kinds = kit.Enums.AddEnum(KindsN, kit.NotBitFlag, nil)

func (ev Kinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Kinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Neuron nodes integrate synaptic input and emit spikes
	Neuron Kinds = iota

	// Generator nodes emit stimulus spike trains -- they can only send
	Generator

	// Recorder nodes observe neurons.  Multimeters send (they poll their
	// targets), spike recorders only receive.
	Recorder

	KindsN
)
