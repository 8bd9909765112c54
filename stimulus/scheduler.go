// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stimulus schedules the timed Poisson stimuli that drive the
thalamo-cortical network through the awake training, awake retrieval and
sleep phases of the protocol.

During training, cycle c binds cortical group g to one thalamic feature
pattern: a contextual signal facilitates group g, an inhibitory signal keeps
the already trained groups quiet, and a training signal drives the thalamic
neurons selected by the feature mask.  During retrieval only training
signals are presented.  Sleep replaces all structured input with a single
non-specific cortical noise source, and rewrites adaptation, cortical
inhibition and STDP asymmetry to produce slow oscillations.

Generators are kept in a map keyed by kind and index (cortical group for
context, 0 for inhibition, cycle for training): a key that is scheduled again
reuses its generator by rewriting its rate and window, once the previous
window has elapsed.
*/
package stimulus

import (
	"fmt"
	"log"
	"sort"

	"github.com/emer/emergent/prjn"
	"github.com/emer/tcsleep/engine"
	"github.com/emer/tcsleep/thalnet"
)

// ErrPhase is returned for a stimulus request that is not allowed in the
// current phase.  It is an ErrInvalidArgument.
var ErrPhase = fmt.Errorf("%w: not allowed in current phase", thalnet.ErrInvalidArgument)

// Key identifies a generator within the scheduler
type Key struct {
	Kind GenKinds
	Idx  int
}

// Generator records one stimulus generator and its current schedule
type Generator struct {
	Kind     GenKinds        `desc:"kind of signal"`
	Idx      int             `desc:"cortical group for context, cycle for training, 0 otherwise"`
	ID       engine.ID       `desc:"engine handle of the generator"`
	Model    string          `desc:"generator model"`
	Rate     float64         `desc:"current rate (Hz) -- 0 when silenced"`
	Window   Window          `desc:"current activation window"`
	Weight   float64         `desc:"weight of the connections to the targets"`
	NTargets int             `desc:"number of target neurons"`
	Conns    []engine.ConnID `desc:"engine handles of the connections to the targets"`
}

// Key returns the key of the generator
func (gn *Generator) Key() Key {
	return Key{gn.Kind, gn.Idx}
}

// Scheduler creates and times the stimulus generators for a built network.
// Calls are expected from a single goroutine.
type Scheduler struct {
	Pars *Params          `desc:"stimulus parameters -- do not modify after New"`
	Net  *thalnet.Network `desc:"network being stimulated"`

	eng      engine.Engine
	phase    Phases
	gens     map[Key]*Generator
	lastStop float64
	broken   error
}

// New returns a Scheduler for given network, in the AwakeTrain phase.
// The parameters are validated first: an ErrInvalidConfig error means
// nothing was done.
func New(eng engine.Engine, net *thalnet.Network, pars *Params) (*Scheduler, error) {
	if eng == nil || net == nil || pars == nil {
		return nil, fmt.Errorf("%w: scheduler needs an engine and a built network", thalnet.ErrInvalidConfig)
	}
	if err := pars.Validate(); err != nil {
		return nil, err
	}
	sc := &Scheduler{Pars: pars, Net: net, eng: eng}
	sc.gens = make(map[Key]*Generator)
	return sc, nil
}

// Phase returns the current phase
func (sc *Scheduler) Phase() Phases {
	return sc.phase
}

// LastStop returns the latest end time of any scheduled awake window
func (sc *Scheduler) LastStop() float64 {
	return sc.lastStop
}

// Generator returns the generator with given key, or nil
func (sc *Scheduler) Generator(kind GenKinds, idx int) *Generator {
	return sc.gens[Key{kind, idx}]
}

// Generators returns copies of all generators, sorted by kind then index
func (sc *Scheduler) Generators() []Generator {
	gs := make([]Generator, 0, len(sc.gens))
	for _, gn := range sc.gens {
		gs = append(gs, *gn)
	}
	sort.Slice(gs, func(i, j int) bool {
		if gs[i].Kind != gs[j].Kind {
			return gs[i].Kind < gs[j].Kind
		}
		return gs[i].Idx < gs[j].Idx
	})
	return gs
}

// Context schedules the contextual signal facilitating cortical group
// in given cycle.  Only allowed in AwakeTrain.
func (sc *Scheduler) Context(group, cycle int) (*Generator, error) {
	if err := sc.checkPhase("Context", AwakeTrain); err != nil {
		return nil, err
	}
	tg, err := sc.Net.CortexGroup(group)
	if err != nil {
		return nil, err
	}
	return sc.schedule(Key{ContextGen, group}, cycle, &sc.Pars.Context, tg)
}

// Inhibition schedules the signal to the inhibitory interneurons in given
// cycle.  Only allowed in AwakeTrain.
func (sc *Scheduler) Inhibition(cycle int) (*Generator, error) {
	if err := sc.checkPhase("Inhibition", AwakeTrain); err != nil {
		return nil, err
	}
	tg := engine.All(sc.Net.Pop(thalnet.In).ID)
	return sc.schedule(Key{InhibGen, 0}, cycle, &sc.Pars.Inhib, tg)
}

// Training schedules the training signal in given cycle, connected to the
// thalamic relay neurons whose mask value is true.  The mask must have
// one value per thalamic neuron.  Allowed in AwakeTrain and AwakeRetrieve.
func (sc *Scheduler) Training(cycle int, mask []bool) (*Generator, error) {
	if err := sc.checkPhase("Training", AwakeTrain, AwakeRetrieve); err != nil {
		return nil, err
	}
	tc := sc.Net.Pop(thalnet.Tc)
	if len(mask) != tc.N {
		return nil, fmt.Errorf("%w: feature mask has %d values, thalamic population has %d neurons", thalnet.ErrInvalidArgument, len(mask), tc.N)
	}
	return sc.schedule(Key{TrainGen, cycle}, cycle, &sc.Pars.Train, engine.Select(tc.ID, mask))
}

// BeginRetrieval moves from AwakeTrain to AwakeRetrieve, silencing every
// contextual and inhibitory generator.
func (sc *Scheduler) BeginRetrieval() error {
	if err := sc.checkPhase("BeginRetrieval", AwakeTrain); err != nil {
		return err
	}
	var off []*Generator
	for _, gn := range sc.gens {
		if gn.Kind == ContextGen || gn.Kind == InhibGen {
			off = append(off, gn)
		}
	}
	err := sc.eng.Update(func(eng engine.Engine) error {
		for _, gn := range off {
			if err := eng.SetStatus(engine.All(gn.ID), engine.Props{"rate": 0}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return sc.fail("silencing awake signals", err)
	}
	for _, gn := range off {
		gn.Rate = 0
	}
	sc.phase = AwakeRetrieve
	log.Printf("stimulus: retrieval: silenced %d contextual and inhibitory generators\n", len(off))
	return nil
}

// checkPhase returns an error if the scheduler is broken or the current
// phase is not one of those given.
func (sc *Scheduler) checkPhase(op string, phases ...Phases) error {
	if sc.broken != nil {
		return fmt.Errorf("%w: scheduler unusable after earlier failure: %v", thalnet.ErrFatal, sc.broken)
	}
	for _, ph := range phases {
		if sc.phase == ph {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %v", ErrPhase, op, sc.phase)
}

// fail records an engine failure, after which the scheduler is unusable
func (sc *Scheduler) fail(what string, err error) error {
	sc.broken = err
	return fmt.Errorf("%w: %s: %v", thalnet.ErrFatal, what, err)
}

// schedule sets up the generator for key over the window of sig in cycle,
// creating and connecting it on first use.  All arguments are checked
// before the engine is modified.
func (sc *Scheduler) schedule(key Key, cycle int, sig *SignalParams, tg engine.Target) (*Generator, error) {
	if cycle < 0 {
		return nil, fmt.Errorf("%w: cycle must be non-negative, got %d", thalnet.ErrInvalidArgument, cycle)
	}
	wn := sc.Pars.Window(sig, cycle)
	now := sc.eng.Time()
	if wn.Start < now {
		return nil, fmt.Errorf("%w: %v cycle %d window %v starts before current time %g", thalnet.ErrInvalidArgument, key.Kind, cycle, wn, now)
	}
	gn, has := sc.gens[key]
	if has && gn.Window.Stop > now {
		return nil, fmt.Errorf("%w: %v %d is still scheduled over %v", thalnet.ErrInvalidArgument, key.Kind, key.Idx, gn.Window)
	}
	on := engine.Props{"rate": sig.Rate, "start": wn.Start, "stop": wn.Stop}
	if has {
		err := sc.eng.SetStatus(engine.All(gn.ID), on)
		if err != nil {
			return nil, sc.fail(fmt.Sprintf("rescheduling %v %d", key.Kind, key.Idx), err)
		}
	} else {
		gn = &Generator{Kind: key.Kind, Idx: key.Idx, Model: engine.Poisson, Weight: sig.Weight}
		err := sc.eng.Update(func(eng engine.Engine) error {
			id, err := eng.Create(gn.Model, 1)
			if err != nil {
				return err
			}
			gn.ID = id
			if err := eng.SetStatus(engine.All(id), on); err != nil {
				return err
			}
			if tg.Idx != nil && len(tg.Idx) == 0 {
				return nil
			}
			cid, err := eng.Connect(engine.All(id), tg, prjn.NewFull(), engine.SynSpec{Model: engine.Static, Weight: sig.Weight})
			if err != nil {
				return err
			}
			gn.Conns = append(gn.Conns, cid)
			return nil
		})
		if err != nil {
			return nil, sc.fail(fmt.Sprintf("creating %v %d", key.Kind, key.Idx), err)
		}
		gn.NTargets = len(tg.Idx)
		if tg.Idx == nil {
			gn.NTargets = sc.eng.Size(tg.ID)
		}
		sc.gens[key] = gn
	}
	gn.Rate = sig.Rate
	gn.Window = wn
	if wn.Stop > sc.lastStop {
		sc.lastStop = wn.Stop
	}
	return gn, nil
}
