// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stimulus

import (
	"fmt"
	"log"
	"math"

	"github.com/emer/emergent/prjn"
	"github.com/emer/tcsleep/engine"
	"github.com/emer/tcsleep/thalnet"
)

// SleepModel is the name of the sinusoidal generator model used for sleep,
// copied from the engine's sinusoidal Poisson generator so that it sends
// the same spike train to all of its targets.
const SleepModel = "sinusoidal_sleep"

// rewrite is a change of synapse parameters on the connections from send to recv
type rewrite struct {
	send, recv thalnet.Roles
	model      string
	props      engine.Props
}

// EnterSleep moves to the Sleep phase.  It can only be called once: a second
// call returns an ErrPhase error and changes nothing.
//
// It creates a single noise generator active for Sleep.Dur from the end of
// the last awake window (or the current time, if later), connected to all
// cortical neurons (and to the inhibitory interneurons if Sleep.ToInhib).
// Within the same engine transaction it first simulates up to the sleep
// onset, so that no rewrite takes effect while an awake window is still
// pending, then raises cortical adaptation to Sleep.B, sets the In->Cx weight to Sleep.InCx and the Cx->Cx STDP alpha to
// Sleep.Alpha, plus the optional In->In and Re->Re weight rewrites.
func (sc *Scheduler) EnterSleep() (*Generator, error) {
	if err := sc.checkPhase("EnterSleep", AwakeTrain, AwakeRetrieve); err != nil {
		return nil, err
	}
	sp := &sc.Pars.Sleep
	nt := sc.Net
	start := math.Max(sc.lastStop, sc.eng.Time())
	gn := &Generator{Kind: SleepGen, Model: engine.Poisson, Rate: sp.Rate, Weight: sp.Weight,
		Window: Window{Start: start, Stop: start + sp.Dur}}
	on := engine.Props{"rate": sp.Rate, "start": gn.Window.Start, "stop": gn.Window.Stop}
	if sp.Sinusoidal {
		gn.Model = SleepModel
		on["amplitude"] = sp.Amplitude
		on["frequency"] = sp.Frequency
	}
	targs := []thalnet.Roles{thalnet.Cx}
	if sp.ToInhib {
		targs = append(targs, thalnet.In)
	}

	err := sc.eng.Update(func(eng engine.Engine) error {
		if dur := start - eng.Time(); dur > 0 {
			if err := eng.Simulate(dur); err != nil {
				return err
			}
		}
		if sp.Sinusoidal {
			if _, err := eng.ModelDefaults(SleepModel); err != nil {
				err = eng.CopyModel(engine.SinPoisson, SleepModel, engine.Props{"individual_spike_trains": 0})
				if err != nil {
					return err
				}
			}
		}
		id, err := eng.Create(gn.Model, 1)
		if err != nil {
			return err
		}
		gn.ID = id
		if err := eng.SetStatus(engine.All(id), on); err != nil {
			return err
		}
		for _, rl := range targs {
			pop := nt.Pop(rl)
			cid, err := eng.Connect(engine.All(id), engine.All(pop.ID), prjn.NewFull(), engine.SynSpec{Model: engine.Static, Weight: sp.Weight})
			if err != nil {
				return err
			}
			gn.Conns = append(gn.Conns, cid)
			gn.NTargets += pop.N
		}

		if err := eng.SetStatus(engine.All(nt.Pop(thalnet.Cx).ID), engine.Props{"b": sp.B}); err != nil {
			return err
		}
		rw := []rewrite{
			{thalnet.In, thalnet.Cx, engine.Static, engine.Props{"weight": sp.InCx}},
			{thalnet.Cx, thalnet.Cx, engine.STDP, engine.Props{"alpha": sp.Alpha}},
		}
		if sp.RewriteInIn {
			rw = append(rw, rewrite{thalnet.In, thalnet.In, engine.Static, engine.Props{"weight": sp.InIn}})
		}
		if sp.RewriteReRe {
			rw = append(rw, rewrite{thalnet.Re, thalnet.Re, engine.Static, engine.Props{"weight": sp.ReRe}})
		}
		for _, r := range rw {
			cns, err := eng.Connections(nt.Pop(r.send).ID, nt.Pop(r.recv).ID, r.model)
			if err != nil {
				return err
			}
			if len(cns) == 0 {
				return fmt.Errorf("no %s connections from %v to %v", r.model, r.send, r.recv)
			}
			if err := eng.SetConnStatus(cns, r.props); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, sc.fail("entering sleep", err)
	}
	sc.gens[gn.Key()] = gn
	sc.phase = Sleep
	log.Printf("stimulus: sleep: %s at %g Hz over %v, b = %g, In->Cx = %g, Cx->Cx alpha = %g\n",
		gn.Model, sp.Rate, gn.Window, sp.B, sp.InCx, sp.Alpha)
	return gn, nil
}
