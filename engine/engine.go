// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package engine defines the capability surface of a spiking network simulation
engine, as used by the thalamo-cortical network builder, stimulus scheduler
and probes, along with Registry, an in-memory implementation that records the
resulting network state.

All engine objects are referred to by integer handles (ID for node
collections, ConnID for connection groups) -- callers never hold references
into the engine's own object model.  Neuron and synapse dynamics are entirely
the engine's business: this package only describes how networks are created,
wired, parameterized and stepped.
*/
package engine

import (
	"github.com/emer/emergent/prjn"
)

// Standard model names, following the NEST naming conventions.
const (
	// AdEx is the adaptive exponential integrate-and-fire neuron with
	// alpha-shaped conductances.
	AdEx = "aeif_cond_alpha"

	// Poisson is a Poisson spike-train generator.
	Poisson = "poisson_generator"

	// SinPoisson is a sinusoidally modulated Poisson spike-train generator.
	SinPoisson = "sinusoidal_poisson_generator"

	// Multimeter records analog state variables (e.g., V_m) from neurons.
	Multimeter = "multimeter"

	// SpikeRecorder records spike times from neurons.
	SpikeRecorder = "spike_recorder"

	// Static is the fixed-weight synapse model.
	Static = "static_synapse"

	// STDP is the spike-timing-dependent plasticity synapse model.
	STDP = "stdp_synapse"
)

// ID is a handle to a node collection (population or device) created by an Engine.
type ID int

// ConnID is a handle to a group of connections created by one Connect call.
type ConnID int

// Props is a set of named numeric parameters or status values.
type Props map[string]float64

// Clone returns a copy of the props
func (pr Props) Clone() Props {
	cp := make(Props, len(pr))
	for k, v := range pr {
		cp[k] = v
	}
	return cp
}

// Target selects nodes within a node collection.
// A nil Idx selects all of the nodes.
type Target struct {
	ID  ID
	Idx []int
}

// All returns a Target for all nodes of given collection
func All(id ID) Target {
	return Target{ID: id}
}

// Range returns a Target for nodes [st, ed) of given collection
func Range(id ID, st, ed int) Target {
	idx := make([]int, 0, ed-st)
	for i := st; i < ed; i++ {
		idx = append(idx, i)
	}
	return Target{ID: id, Idx: idx}
}

// Select returns a Target for the nodes whose corresponding mask value is true.
func Select(id ID, mask []bool) Target {
	idx := []int{}
	for i, on := range mask {
		if on {
			idx = append(idx, i)
		}
	}
	return Target{ID: id, Idx: idx}
}

// SynSpec specifies the synapse model and its parameters for a Connect call.
type SynSpec struct {
	Model  string  `desc:"synapse model name -- Static or STDP (empty = Static)"`
	Weight float64 `desc:"initial synaptic weight"`
	Alpha  float64 `desc:"STDP asymmetry of depression relative to potentiation (1 = symmetric)"`
	WMax   float64 `desc:"STDP maximum weight bound"`
}

// IsPlastic returns true if the synapse model is plastic
func (ss *SynSpec) IsPlastic() bool {
	return ss.Model == STDP
}

// ModelName returns the synapse model, defaulting to Static
func (ss *SynSpec) ModelName() string {
	if ss.Model == "" {
		return Static
	}
	return ss.Model
}

// Props returns the synapse parameters as Props
func (ss *SynSpec) Props() Props {
	pr := Props{"weight": ss.Weight}
	if ss.IsPlastic() {
		pr["alpha"] = ss.Alpha
		pr["Wmax"] = ss.WMax
	}
	return pr
}

// Engine is the set of capabilities that the network builder, stimulus
// scheduler and probes require from a simulation engine.
// All times are in simulated milliseconds.
type Engine interface {
	// ModelDefaults returns the default parameters of given model
	ModelDefaults(model string) (Props, error)

	// SetModelDefaults sets default parameters of given model, affecting
	// all nodes created subsequently.
	SetModelDefaults(model string, props Props) error

	// CopyModel creates a new model from an existing one, with given
	// parameters overriding the copied defaults.
	CopyModel(model, newModel string, props Props) error

	// Create creates n nodes of given model, returning a handle to the collection.
	Create(model string, n int) (ID, error)

	// Size returns the number of nodes in given collection (0 if invalid).
	Size(id ID) int

	// SetStatus sets parameters on the targeted nodes.
	SetStatus(tg Target, props Props) error

	// Status returns the parameters of node idx in given collection.
	Status(id ID, idx int) (Props, error)

	// Connect connects the sending to receiving nodes using given
	// connectivity pattern and synapse spec.
	Connect(send, recv Target, pat prjn.Pattern, syn SynSpec) (ConnID, error)

	// Connections returns the connection groups from send to recv collections
	// having given synapse model (empty = any model).
	Connections(send, recv ID, model string) ([]ConnID, error)

	// ConnStatus returns the synapse parameters of given connection group
	ConnStatus(cn ConnID) (Props, error)

	// SetConnStatus sets synapse parameters on given connection groups
	SetConnStatus(cns []ConnID, props Props) error

	// Time returns the current simulated time
	Time() float64

	// Simulate advances simulated time by given duration
	Simulate(dur float64) error

	// Update runs given function as a single transaction: no other
	// reader or writer observes the engine state until fn returns.
	// The Engine passed to fn must be used for all calls within fn.
	Update(fn func(eng Engine) error) error
}
