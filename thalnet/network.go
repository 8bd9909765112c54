// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package thalnet builds the thalamo-cortical network: four populations of
adaptive exponential integrate-and-fire neurons (cortical pyramidal Cx,
cortical inhibitory In, thalamic relay Tc, thalamic reticular Re), six
fixed-weight connections and three STDP connections (Cx->Cx, Cx->Tc, Tc->Cx).

The cortex is organized in groups of Pop.GroupN neurons, one per training
image: each group is bound to one thalamic feature pattern during training.
*/
package thalnet

import (
	"fmt"
	"log"
	"math"

	"github.com/emer/emergent/prjn"
	"github.com/emer/tcsleep/engine"
)

// Population is a handle to one of the four neuron populations
type Population struct {
	Role Roles     `desc:"functional role"`
	ID   engine.ID `desc:"engine handle of the node collection"`
	N    int       `desc:"number of neurons"`
}

// Conn records one population-level connection made by Build
type Conn struct {
	ConnSpec
	ID engine.ConnID `desc:"engine handle of the connection group"`
}

// Network holds the handles to the populations and connections of a built
// thalamo-cortical network.  It is immutable after Build.
type Network struct {
	Groups int                `desc:"number of cortical groups (training images)"`
	GroupN int                `desc:"number of cortical neurons per group"`
	Model  string             `desc:"neuron model used for all populations"`
	Pops   [RolesN]Population `desc:"populations, indexed by Roles"`
	Conns  []Conn             `desc:"connections, in creation order"`
}

// ValidGroups converts a possibly non-integral group count (e.g., from a
// config file) into an int, returning ErrInvalidConfig unless it is a
// positive integer.
func ValidGroups(n float64) (int, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: number of cortical groups must be an integer, got %g", ErrInvalidConfig, n)
	}
	if n <= 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: number of cortical groups must be positive, got %g", ErrInvalidConfig, n)
	}
	return int(n), nil
}

// Dense returns the all-to-all pattern used for every population-level
// connection, including self-connections for recurrent ones.
func Dense() prjn.Pattern {
	full := prjn.NewFull()
	full.SelfCon = true
	return full
}

// Build creates the four populations and all connections in given engine.
// groups is the number of cortical groups (one per training image), so the
// cortex has groups * pars.Pop.GroupN neurons.
// All parameters are validated before anything is created: an
// ErrInvalidConfig error means the engine was not touched.  Any engine
// failure after that returns an ErrFatal error.
func Build(eng engine.Engine, groups int, pars *Params) (*Network, error) {
	if eng == nil || pars == nil {
		return nil, fmt.Errorf("%w: building the network needs an engine and parameters", ErrInvalidConfig)
	}
	if groups <= 0 {
		return nil, fmt.Errorf("%w: number of cortical groups must be positive, got %d", ErrInvalidConfig, groups)
	}
	if err := pars.Validate(); err != nil {
		return nil, err
	}
	if groups > math.MaxInt32/pars.Pop.GroupN {
		return nil, fmt.Errorf("%w: %d cortical groups of %d is too many", ErrInvalidConfig, groups, pars.Pop.GroupN)
	}
	nt := &Network{Groups: groups, GroupN: pars.Pop.GroupN, Model: pars.Neuron.Model}

	defs, err := eng.ModelDefaults(nt.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFatal, err)
	}
	vpeak := defs["V_th"] + pars.Neuron.PeakSlope*defs["Delta_T"]
	err = eng.SetModelDefaults(nt.Model, engine.Props{"V_peak": vpeak, "b": pars.Neuron.B})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFatal, err)
	}

	sizes := [RolesN]int{groups * pars.Pop.GroupN, pars.Pop.InN, pars.Pop.TcN, pars.Pop.ReN}
	for ri := Roles(0); ri < RolesN; ri++ {
		id, err := eng.Create(nt.Model, sizes[ri])
		if err != nil {
			return nil, fmt.Errorf("%w: creating %v population: %v", ErrFatal, ri, err)
		}
		nt.Pops[ri] = Population{Role: ri, ID: id, N: sizes[ri]}
	}

	for _, cs := range pars.ConnSpecs() {
		snd := nt.Pops[cs.Send].ID
		rcv := nt.Pops[cs.Recv].ID
		cid, err := eng.Connect(engine.All(snd), engine.All(rcv), Dense(), cs.Syn)
		if err != nil {
			return nil, fmt.Errorf("%w: connecting %s: %v", ErrFatal, cs.Name(), err)
		}
		nt.Conns = append(nt.Conns, Conn{ConnSpec: cs, ID: cid})
	}
	log.Printf("thalnet: built network with %d cortical groups: Cx %d, In %d, Tc %d, Re %d neurons, %d connections\n",
		groups, sizes[Cx], sizes[In], sizes[Tc], sizes[Re], len(nt.Conns))
	return nt, nil
}

// Pop returns the population with given role
func (nt *Network) Pop(role Roles) *Population {
	return &nt.Pops[role]
}

// CortexGroup returns the engine target for cortical group g, which
// comprises neurons [g*GroupN, (g+1)*GroupN).
func (nt *Network) CortexGroup(g int) (engine.Target, error) {
	if g < 0 || g >= nt.Groups {
		return engine.Target{}, fmt.Errorf("%w: cortical group %d out of range [0, %d)", ErrInvalidArgument, g, nt.Groups)
	}
	st := g * nt.GroupN
	return engine.Range(nt.Pops[Cx].ID, st, st+nt.GroupN), nil
}

// ConnIDs returns the handles of the connections made by Build from send
// to recv, with given synapse model (empty = any).
func (nt *Network) ConnIDs(send, recv Roles, model string) []engine.ConnID {
	var cns []engine.ConnID
	for _, cn := range nt.Conns {
		if cn.Send != send || cn.Recv != recv {
			continue
		}
		if model != "" && cn.Syn.ModelName() != model {
			continue
		}
		cns = append(cns, cn.ID)
	}
	return cns
}
