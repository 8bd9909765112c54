// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stimulus

import (
	"fmt"
	"math"

	"github.com/emer/tcsleep/thalnet"
)

// Window is an activation window in simulated ms
type Window struct {
	Start float64 `desc:"start of the window (ms)"`
	Stop  float64 `desc:"end of the window (ms)"`
}

// Dur returns the duration of the window
func (wn Window) Dur() float64 {
	return wn.Stop - wn.Start
}

func (wn Window) String() string {
	return fmt.Sprintf("[%g, %g]", wn.Start, wn.Stop)
}

// CycleParams determine the timing of the awake-phase cycles: cycle c
// starts at c * Period(), and every signal within it is active over
// [c * Period() + Eps, c * Period() + Dur - Eps] for its own Dur.
type CycleParams struct {
	Base    float64 `def:"450" min:"1" desc:"base duration (ms) that sets the cycle period -- the contextual signal duration"`
	Spacing float64 `def:"2" min:"1" desc:"cycle period = Spacing * Base -- the remainder of each cycle after the signals is quiet"`
	Eps     float64 `def:"0.1" min:"0" desc:"guard offset (ms) trimmed from both ends of every window, so consecutive windows never touch"`
}

func (cp *CycleParams) Defaults() {
	cp.Base = 450
	cp.Spacing = 2
	cp.Eps = 0.1
}

// Period returns the cycle period in ms
func (cp *CycleParams) Period() float64 {
	return cp.Spacing * cp.Base
}

// SignalParams are the parameters of one kind of awake-phase Poisson signal
type SignalParams struct {
	Rate   float64 `min:"0" desc:"Poisson rate (Hz) when on"`
	Weight float64 `desc:"weight of the connections from the generator to its targets"`
	Dur    float64 `min:"0" desc:"duration (ms) of the signal within its cycle, including the guard offsets"`
}

func (sp *SignalParams) validate(nm string, cp *CycleParams) error {
	if sp.Rate < 0 {
		return fmt.Errorf("%w: %s rate must be non-negative, got %g", thalnet.ErrInvalidConfig, nm, sp.Rate)
	}
	if sp.Dur <= 2*cp.Eps {
		return fmt.Errorf("%w: %s duration %g must exceed twice the guard offset %g", thalnet.ErrInvalidConfig, nm, sp.Dur, cp.Eps)
	}
	if sp.Dur > cp.Period() {
		return fmt.Errorf("%w: %s duration %g exceeds the cycle period %g", thalnet.ErrInvalidConfig, nm, sp.Dur, cp.Period())
	}
	return nil
}

// SleepParams are the parameters of the sleep phase
type SleepParams struct {
	Rate        float64 `def:"700" min:"0" desc:"Poisson rate (Hz) of the non-specific cortical noise"`
	Weight      float64 `def:"1" desc:"weight of the connections from the noise generator"`
	Dur         float64 `def:"600000" min:"0" desc:"duration of sleep (ms)"`
	Sinusoidal  bool    `def:"true" desc:"use a sinusoidally modulated generator sending the same spike train to all targets -- otherwise a plain Poisson generator"`
	Amplitude   float64 `viewif:"Sinusoidal" min:"0" desc:"modulation amplitude (Hz) of the sinusoidal generator"`
	Frequency   float64 `viewif:"Sinusoidal" min:"0" desc:"modulation frequency (Hz) of the sinusoidal generator"`
	ToInhib     bool    `def:"true" desc:"also drive the cortical inhibitory interneurons with the noise"`
	B           float64 `def:"60" min:"0" desc:"spike-frequency adaptation increment (b) of cortical neurons during sleep"`
	InCx        float64 `def:"-0.5" desc:"weight of inhibitory interneurons -> cortex during sleep"`
	Alpha       float64 `def:"3" min:"0" desc:"STDP asymmetry of the recurrent cortical connections during sleep -- > 1 biases toward depression"`
	RewriteInIn bool    `def:"false" desc:"also rewrite the recurrent inhibitory interneuron weight during sleep"`
	InIn        float64 `viewif:"RewriteInIn" def:"-1" desc:"recurrent inhibitory interneuron weight during sleep"`
	RewriteReRe bool    `def:"false" desc:"also rewrite the recurrent reticular weight during sleep"`
	ReRe        float64 `viewif:"RewriteReRe" def:"-1" desc:"recurrent reticular weight during sleep"`
}

func (sp *SleepParams) Defaults() {
	sp.Rate = 700
	sp.Weight = 1
	sp.Dur = 600000
	sp.Sinusoidal = true
	sp.Amplitude = 0
	sp.Frequency = 0
	sp.ToInhib = true
	sp.B = 60
	sp.InCx = -0.5
	sp.Alpha = 3
	sp.RewriteInIn = false
	sp.InIn = -1
	sp.RewriteReRe = false
	sp.ReRe = -1
}

func (sp *SleepParams) validate() error {
	switch {
	case sp.Rate < 0:
		return fmt.Errorf("%w: sleep rate must be non-negative, got %g", thalnet.ErrInvalidConfig, sp.Rate)
	case sp.Dur <= 0:
		return fmt.Errorf("%w: sleep duration must be positive, got %g", thalnet.ErrInvalidConfig, sp.Dur)
	case sp.Sinusoidal && sp.Amplitude > sp.Rate:
		return fmt.Errorf("%w: sleep modulation amplitude %g exceeds rate %g", thalnet.ErrInvalidConfig, sp.Amplitude, sp.Rate)
	case sp.Alpha < 0:
		return fmt.Errorf("%w: sleep STDP alpha must be non-negative, got %g", thalnet.ErrInvalidConfig, sp.Alpha)
	case sp.B < 0:
		return fmt.Errorf("%w: sleep adaptation b must be non-negative, got %g", thalnet.ErrInvalidConfig, sp.B)
	}
	return nil
}

// Params are all the stimulus protocol parameters
type Params struct {
	Cycle   CycleParams  `view:"inline" desc:"cycle timing"`
	Context SignalParams `view:"inline" desc:"contextual signal to one cortical group"`
	Inhib   SignalParams `view:"inline" desc:"signal to the inhibitory interneurons, keeping already trained groups quiet"`
	Train   SignalParams `view:"inline" desc:"training signal to the thalamic neurons selected by a feature mask"`
	Sleep   SleepParams  `view:"inline" desc:"sleep phase"`
}

func (pr *Params) Defaults() {
	pr.Cycle.Defaults()
	pr.Context = SignalParams{Rate: 2000, Weight: 15, Dur: 450}
	pr.Inhib = SignalParams{Rate: 10000, Weight: 5, Dur: 450}
	pr.Train = SignalParams{Rate: 30000, Weight: 5, Dur: 450}
	pr.Sleep.Defaults()
}

// NewParams returns default Params
func NewParams() *Params {
	pr := &Params{}
	pr.Defaults()
	return pr
}

// Validate returns an ErrInvalidConfig error for the first bad parameter found
func (pr *Params) Validate() error {
	cp := &pr.Cycle
	if cp.Base <= 0 || cp.Spacing < 1 || cp.Eps < 0 || math.IsInf(cp.Period(), 0) {
		return fmt.Errorf("%w: bad cycle timing: base %g, spacing %g, eps %g", thalnet.ErrInvalidConfig, cp.Base, cp.Spacing, cp.Eps)
	}
	if err := pr.Context.validate("context", cp); err != nil {
		return err
	}
	if err := pr.Inhib.validate("inhibition", cp); err != nil {
		return err
	}
	if err := pr.Train.validate("training", cp); err != nil {
		return err
	}
	return pr.Sleep.validate()
}

// Window returns the activation window of given signal in given cycle
func (pr *Params) Window(sp *SignalParams, cycle int) Window {
	t0 := float64(cycle) * pr.Cycle.Period()
	return Window{Start: t0 + pr.Cycle.Eps, Stop: t0 + sp.Dur - pr.Cycle.Eps}
}
