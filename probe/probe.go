// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package probe attaches recording devices to every population of a
thalamo-cortical network: a multimeter sampling the membrane potential and a
spike recorder, for 8 probes in all.  The recordings themselves are kept by
the engine.
*/
package probe

import (
	"fmt"
	"log"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/tcsleep/engine"
	"github.com/emer/tcsleep/thalnet"
	"github.com/goki/ki/kit"
)

// ProbeKinds are the kinds of recording probe
type ProbeKinds int

//go:generate stringer -type=ProbeKinds

var KiT_ProbeKinds = kit.Enums.AddEnum(ProbeKindsN, kit.NotBitFlag, nil)

func (ev ProbeKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ProbeKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// VoltageProbe is a multimeter recording V_m
	VoltageProbe ProbeKinds = iota

	// SpikeProbe is a spike recorder
	SpikeProbe

	ProbeKindsN
)

// Models are the engine models for each kind of probe
var Models = [ProbeKindsN]string{engine.Multimeter, engine.SpikeRecorder}

// Params are the recording parameters
type Params struct {
	Interval float64 `def:"1" min:"0" desc:"multimeter sampling interval (ms)"`
	RecordV  bool    `def:"true" desc:"record membrane potential V_m with the multimeters"`
}

func (pr *Params) Defaults() {
	pr.Interval = 1
	pr.RecordV = true
}

// Validate returns an ErrInvalidConfig error for a non-positive interval
func (pr *Params) Validate() error {
	if !(pr.Interval > 0) {
		return fmt.Errorf("%w: multimeter interval must be positive, got %g", thalnet.ErrInvalidConfig, pr.Interval)
	}
	return nil
}

// Probe is one recording device attached to a population
type Probe struct {
	Role thalnet.Roles `desc:"population recorded from"`
	Kind ProbeKinds    `desc:"kind of probe"`
	ID   engine.ID     `desc:"engine handle of the device"`
	Conn engine.ConnID `desc:"engine handle of the connection between device and population"`
}

// Set is the full set of probes, indexed by population role and kind
type Set struct {
	Probes [thalnet.RolesN][ProbeKindsN]Probe
}

// Attach creates and connects one probe of each kind for every population:
// multimeters connect to the population, and the population connects to
// the spike recorders.  Any engine failure returns an ErrFatal error.
func Attach(eng engine.Engine, net *thalnet.Network, pars *Params) (*Set, error) {
	if eng == nil || net == nil || pars == nil {
		return nil, fmt.Errorf("%w: probes need an engine, a built network and parameters", thalnet.ErrInvalidConfig)
	}
	if err := pars.Validate(); err != nil {
		return nil, err
	}
	ps := &Set{}
	mprops := engine.Props{"interval": pars.Interval, "record_V_m": 0}
	if pars.RecordV {
		mprops["record_V_m"] = 1
	}
	err := eng.Update(func(eng engine.Engine) error {
		for ri := thalnet.Roles(0); ri < thalnet.RolesN; ri++ {
			pop := net.Pop(ri)
			for pk := ProbeKinds(0); pk < ProbeKindsN; pk++ {
				id, err := eng.Create(Models[pk], 1)
				if err != nil {
					return fmt.Errorf("creating %v %v: %w", ri, pk, err)
				}
				var cid engine.ConnID
				switch pk {
				case VoltageProbe:
					if err = eng.SetStatus(engine.All(id), mprops); err != nil {
						return err
					}
					cid, err = eng.Connect(engine.All(id), engine.All(pop.ID), prjn.NewFull(), engine.SynSpec{})
				case SpikeProbe:
					cid, err = eng.Connect(engine.All(pop.ID), engine.All(id), prjn.NewFull(), engine.SynSpec{})
				}
				if err != nil {
					return fmt.Errorf("connecting %v %v: %w", ri, pk, err)
				}
				ps.Probes[ri][pk] = Probe{Role: ri, Kind: pk, ID: id, Conn: cid}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: attaching probes: %v", thalnet.ErrFatal, err)
	}
	log.Printf("probe: attached %d probes\n", int(thalnet.RolesN)*int(ProbeKindsN))
	return ps, nil
}

// Probe returns the probe of given kind on the population with given role
func (ps *Set) Probe(role thalnet.Roles, kind ProbeKinds) *Probe {
	return &ps.Probes[role][kind]
}

// Table returns a table listing all the probes
func (ps *Set) Table() *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "Probes")
	sch := etable.Schema{
		{"Pop", etensor.STRING, nil, nil},
		{"Kind", etensor.STRING, nil, nil},
		{"Model", etensor.STRING, nil, nil},
		{"ID", etensor.INT64, nil, nil},
		{"Conn", etensor.INT64, nil, nil},
	}
	dt.SetFromSchema(sch, int(thalnet.RolesN)*int(ProbeKindsN))
	row := 0
	for ri := thalnet.Roles(0); ri < thalnet.RolesN; ri++ {
		for pk := ProbeKinds(0); pk < ProbeKindsN; pk++ {
			pb := &ps.Probes[ri][pk]
			dt.SetCellString("Pop", row, ri.String())
			dt.SetCellString("Kind", row, pk.String())
			dt.SetCellString("Model", row, Models[pk])
			dt.SetCellFloat("ID", row, float64(pb.ID))
			dt.SetCellFloat("Conn", row, float64(pb.Conn))
			row++
		}
	}
	return dt
}
