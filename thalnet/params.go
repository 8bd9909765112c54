// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thalnet

import (
	"fmt"

	"github.com/emer/tcsleep/engine"
)

// NeuronParams are the shared neuron model parameters for all four populations
type NeuronParams struct {
	Model     string  `def:"aeif_cond_alpha" desc:"engine neuron model used for all populations"`
	PeakSlope float64 `def:"5" desc:"spike detection peak V_peak = V_th + PeakSlope * Delta_T, from the model defaults"`
	B         float64 `def:"0.01" min:"0" desc:"spike-frequency adaptation increment (b) during the awake phase -- raised during sleep"`
}

func (np *NeuronParams) Defaults() {
	np.Model = engine.AdEx
	np.PeakSlope = 5
	np.B = 0.01
}

// PopParams are the population sizes
type PopParams struct {
	GroupN int `def:"20" min:"1" desc:"number of cortical neurons per group -- one group per training image"`
	InN    int `def:"200" min:"1" desc:"number of cortical inhibitory interneurons"`
	TcN    int `def:"324" min:"1" desc:"number of thalamic relay neurons -- must equal the binned feature vector length"`
	ReN    int `def:"200" min:"1" desc:"number of thalamic reticular neurons"`
}

func (pp *PopParams) Defaults() {
	pp.GroupN = 20
	pp.InN = 200
	pp.TcN = 324
	pp.ReN = 200
}

// StaticParams are the fixed weights of the non-plastic connections
type StaticParams struct {
	InCx float64 `def:"-4" desc:"inhibitory interneurons -> cortex"`
	CxIn float64 `def:"60" desc:"cortex -> inhibitory interneurons"`
	TcRe float64 `def:"10" desc:"thalamic relay -> reticular"`
	ReTc float64 `def:"-10" desc:"reticular -> thalamic relay"`
	InIn float64 `def:"-1" desc:"inhibitory interneurons recurrent"`
	ReRe float64 `def:"-1" desc:"reticular recurrent"`
}

func (sp *StaticParams) Defaults() {
	sp.InCx = -4
	sp.CxIn = 60
	sp.TcRe = 10
	sp.ReTc = -10
	sp.InIn = -1
	sp.ReRe = -1
}

// PlasticParams are the bounds and initial weights of the STDP connections
type PlasticParams struct {
	MaxCxCx  float64 `def:"150" min:"0" desc:"maximum weight of the recurrent cortical connections"`
	MaxCxTc  float64 `def:"130" min:"0" desc:"maximum weight of cortex -> thalamic relay"`
	MaxTcCx  float64 `def:"5.5" min:"0" desc:"maximum weight of thalamic relay -> cortex"`
	InitCxCx float64 `def:"1" desc:"initial weight of the recurrent cortical connections"`
	InitCxTc float64 `def:"1" desc:"initial weight of cortex -> thalamic relay"`
	InitTcCx float64 `def:"1" desc:"initial weight of thalamic relay -> cortex"`
	Alpha    float64 `def:"1" min:"0" desc:"STDP asymmetry during wake -- 1 = symmetric potentiation and depression windows"`
}

func (pp *PlasticParams) Defaults() {
	pp.MaxCxCx = 150
	pp.MaxCxTc = 130
	pp.MaxTcCx = 5.5
	pp.InitCxCx = 1
	pp.InitCxTc = 1
	pp.InitTcCx = 1
	pp.Alpha = 1
}

// Params has all the parameters for building the thalamo-cortical network
type Params struct {
	Neuron  NeuronParams  `view:"inline" desc:"neuron model"`
	Pop     PopParams     `view:"inline" desc:"population sizes"`
	Static  StaticParams  `view:"inline" desc:"fixed connection weights"`
	Plastic PlasticParams `view:"inline" desc:"STDP connection parameters"`
}

func (pr *Params) Defaults() {
	pr.Neuron.Defaults()
	pr.Pop.Defaults()
	pr.Static.Defaults()
	pr.Plastic.Defaults()
}

// NewParams returns default Params
func NewParams() *Params {
	pr := &Params{}
	pr.Defaults()
	return pr
}

// ConnSpec is the declarative specification of one population-level connection
type ConnSpec struct {
	Send Roles          `desc:"sending population"`
	Recv Roles          `desc:"receiving population"`
	Syn  engine.SynSpec `desc:"synapse model and parameters"`
}

// Name returns a Send->Recv label
func (cs *ConnSpec) Name() string {
	return cs.Send.String() + "->" + cs.Recv.String()
}

// Validate checks the synapse parameters: plastic connections need a
// positive maximum weight that the initial weight does not exceed.
func (cs *ConnSpec) Validate() error {
	if !cs.Syn.IsPlastic() {
		return nil
	}
	if cs.Syn.WMax <= 0 {
		return fmt.Errorf("%w: %s maximum weight must be positive, got %g", ErrInvalidConfig, cs.Name(), cs.Syn.WMax)
	}
	if cs.Syn.Weight > cs.Syn.WMax {
		return fmt.Errorf("%w: %s initial weight %g exceeds maximum %g", ErrInvalidConfig, cs.Name(), cs.Syn.Weight, cs.Syn.WMax)
	}
	return nil
}

// ConnSpecs returns the specifications of all connections, static first
func (pr *Params) ConnSpecs() []ConnSpec {
	st := &pr.Static
	pl := &pr.Plastic
	stdp := func(init, wmax float64) engine.SynSpec {
		return engine.SynSpec{Model: engine.STDP, Weight: init, Alpha: pl.Alpha, WMax: wmax}
	}
	return []ConnSpec{
		{In, Cx, engine.SynSpec{Model: engine.Static, Weight: st.InCx}},
		{Cx, In, engine.SynSpec{Model: engine.Static, Weight: st.CxIn}},
		{Tc, Re, engine.SynSpec{Model: engine.Static, Weight: st.TcRe}},
		{Re, Tc, engine.SynSpec{Model: engine.Static, Weight: st.ReTc}},
		{In, In, engine.SynSpec{Model: engine.Static, Weight: st.InIn}},
		{Re, Re, engine.SynSpec{Model: engine.Static, Weight: st.ReRe}},
		{Cx, Cx, stdp(pl.InitCxCx, pl.MaxCxCx)},
		{Cx, Tc, stdp(pl.InitCxTc, pl.MaxCxTc)},
		{Tc, Cx, stdp(pl.InitTcCx, pl.MaxTcCx)},
	}
}

// Validate checks all the parameters, returning an ErrInvalidConfig error
// describing the first problem found.
func (pr *Params) Validate() error {
	if pr.Neuron.Model == "" {
		return fmt.Errorf("%w: no neuron model", ErrInvalidConfig)
	}
	sizes := []struct {
		nm string
		n  int
	}{{"GroupN", pr.Pop.GroupN}, {"InN", pr.Pop.InN}, {"TcN", pr.Pop.TcN}, {"ReN", pr.Pop.ReN}}
	for _, sz := range sizes {
		if sz.n <= 0 {
			return fmt.Errorf("%w: population size %s must be positive, got %d", ErrInvalidConfig, sz.nm, sz.n)
		}
	}
	if pr.Plastic.Alpha < 0 {
		return fmt.Errorf("%w: STDP alpha must be non-negative, got %g", ErrInvalidConfig, pr.Plastic.Alpha)
	}
	for _, cs := range pr.ConnSpecs() {
		if err := cs.Validate(); err != nil {
			return err
		}
	}
	return nil
}
