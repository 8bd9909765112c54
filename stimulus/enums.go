// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stimulus

import "github.com/goki/ki/kit"

// Phases are the phases of the protocol, visited in order
type Phases int

//go:generate stringer -type=Phases

var KiT_Phases = kit.Enums.AddEnum(PhasesN, kit.NotBitFlag, nil)

func (ev Phases) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Phases) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// AwakeTrain binds each cortical group to one thalamic feature pattern,
	// driven by contextual, inhibitory and training signals.
	AwakeTrain Phases = iota

	// AwakeRetrieve presents the training signal alone: contextual and
	// inhibitory signals are off.
	AwakeRetrieve

	// Sleep drives slow oscillations with non-specific noise, with increased
	// adaptation, weaker cortical inhibition and depression-biased STDP.
	Sleep

	PhasesN
)

// GenKinds are the kinds of stimulus generator
type GenKinds int

//go:generate stringer -type=GenKinds

var KiT_GenKinds = kit.Enums.AddEnum(GenKindsN, kit.NotBitFlag, nil)

func (ev GenKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *GenKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// ContextGen facilitates one cortical group, one generator per group
	ContextGen GenKinds = iota

	// InhibGen drives the inhibitory interneurons, a single generator
	InhibGen

	// TrainGen drives the thalamic neurons selected by a feature mask,
	// one generator per cycle
	TrainGen

	// SleepGen is the non-specific cortical noise during sleep
	SleepGen

	GenKindsN
)
