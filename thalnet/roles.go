// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thalnet

import "github.com/goki/ki/kit"

// Roles are the functional roles of the four populations
type Roles int

//go:generate stringer -type=Roles

var KiT_Roles = kit.Enums.AddEnum(RolesN, kit.NotBitFlag, nil)

func (ev Roles) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Roles) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Cx are excitatory cortical pyramidal neurons, one group per training image
	Cx Roles = iota

	// In are inhibitory cortical interneurons
	In

	// Tc are excitatory thalamic relay neurons, one per feature vector element
	Tc

	// Re are inhibitory thalamic reticular neurons
	Re

	RolesN
)
