// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package sim runs the full protocol on an engine: it builds the network,
attaches the probes, trains one cortical group per image, presents the
images again for retrieval, and finally enters sleep.  Each step is logged
to the RunLog table.
*/
package sim

import (
	"fmt"
	"log"
	"sort"

	"github.com/emer/emergent/timer"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/tcsleep/engine"
	"github.com/emer/tcsleep/features"
	"github.com/emer/tcsleep/probe"
	"github.com/emer/tcsleep/stimulus"
	"github.com/emer/tcsleep/thalnet"
	"github.com/goki/gi/gi"
)

// Sim runs one protocol on an engine
type Sim struct {
	Config   *Config                `desc:"parameters of the run"`
	Eng      engine.Engine          `view:"-" desc:"engine running the network"`
	Net      *thalnet.Network       `desc:"network built by Run"`
	Sched    *stimulus.Scheduler    `desc:"stimulus scheduler"`
	Probes   *probe.Set             `desc:"recording probes"`
	RunLog   *etable.Table          `view:"no-inline" desc:"one row per scheduled step"`
	FunTimes map[string]*timer.Time `view:"-" desc:"wall-clock timers for each phase"`
}

// New returns a new Sim running given config on given engine
func New(cfg *Config, eng engine.Engine) *Sim {
	return &Sim{Config: cfg, Eng: eng, FunTimes: make(map[string]*timer.Time)}
}

// Groups returns the number of cortical groups trained for n images
func (ss *Sim) Groups(n int) int {
	if ss.Config.Groups > 0 && ss.Config.Groups < n {
		return ss.Config.Groups
	}
	return n
}

// Run runs the whole protocol using the [images, features] masks, one row
// per training image.  Any error aborts the run: a partially run network
// is not resumable.
func (ss *Sim) Run(masks *etensor.Float32) error {
	cf := ss.Config
	if err := cf.Validate(); err != nil {
		return err
	}
	if masks == nil || masks.NumDims() != 2 {
		return fmt.Errorf("%w: masks must be a 2D [images, features] tensor", thalnet.ErrInvalidConfig)
	}
	if nf := masks.Dim(1); nf != cf.Net.Pop.TcN {
		return fmt.Errorf("%w: %d features per image, thalamic population has %d neurons", thalnet.ErrInvalidConfig, nf, cf.Net.Pop.TcN)
	}
	groups := ss.Groups(masks.Dim(0))

	ss.FunTimerStart("Build")
	var err error
	ss.Net, err = thalnet.Build(ss.Eng, groups, &cf.Net)
	if err != nil {
		return err
	}
	ss.Probes, err = probe.Attach(ss.Eng, ss.Net, &cf.Probe)
	if err != nil {
		return err
	}
	ss.Sched, err = stimulus.New(ss.Eng, ss.Net, &cf.Stim)
	if err != nil {
		return err
	}
	ss.FunTimerStop("Build")
	ss.ConfigRunLog(groups)

	ss.FunTimerStart("Train")
	for g := 0; g < groups; g++ {
		if _, err := ss.Sched.Context(g, g); err != nil {
			return err
		}
		if g > 0 {
			if _, err := ss.Sched.Inhibition(g); err != nil {
				return err
			}
		}
		if err := ss.present(g, g, features.RowMask(masks, g)); err != nil {
			return err
		}
	}
	ss.FunTimerStop("Train")

	if cf.Retrieve {
		ss.FunTimerStart("Retrieve")
		if err := ss.Sched.BeginRetrieval(); err != nil {
			return err
		}
		for g := 0; g < groups; g++ {
			if err := ss.present(groups+g, g, features.RowMask(masks, g)); err != nil {
				return err
			}
		}
		ss.FunTimerStop("Retrieve")
	}

	if cf.Sleep {
		ss.FunTimerStart("Sleep")
		gn, err := ss.Sched.EnterSleep()
		if err != nil {
			return err
		}
		if err := ss.simulateTo(gn.Window.Stop); err != nil {
			return err
		}
		ss.LogStep(gn, -1)
		ss.FunTimerStop("Sleep")
	}
	log.Printf("sim: %s: %d groups done at %g ms\n", cf.Version, groups, ss.Eng.Time())
	return nil
}

// present schedules the training signal for image img in given cycle and
// simulates to the end of the cycle.
func (ss *Sim) present(cycle, img int, mask []bool) error {
	gn, err := ss.Sched.Training(cycle, mask)
	if err != nil {
		return err
	}
	if err := ss.simulateTo(float64(cycle+1) * ss.Config.Stim.Cycle.Period()); err != nil {
		return err
	}
	ss.LogStep(gn, img)
	return nil
}

// simulateTo advances the engine to time t, if not already past it
func (ss *Sim) simulateTo(t float64) error {
	dur := t - ss.Eng.Time()
	if dur <= 0 {
		return nil
	}
	if err := ss.Eng.Simulate(dur); err != nil {
		return fmt.Errorf("%w: simulating: %v", thalnet.ErrFatal, err)
	}
	return nil
}

// ConfigRunLog configures the RunLog for given number of groups
func (ss *Sim) ConfigRunLog(groups int) {
	dt := &etable.Table{}
	dt.SetMetaData("name", "RunLog")
	dt.SetMetaData("desc", "record of each scheduled step of the protocol")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", "6")
	sch := etable.Schema{
		{"Phase", etensor.STRING, nil, nil},
		{"Cycle", etensor.INT64, nil, nil},
		{"Image", etensor.INT64, nil, nil},
		{"Start", etensor.FLOAT64, nil, nil},
		{"Stop", etensor.FLOAT64, nil, nil},
		{"NTargets", etensor.INT64, nil, nil},
		{"Time", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
	ss.RunLog = dt
}

// LogStep adds a row to the RunLog for given generator, in the current
// phase, for image img (-1 for none).
func (ss *Sim) LogStep(gn *stimulus.Generator, img int) {
	dt := ss.RunLog
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellString("Phase", row, ss.Sched.Phase().String())
	dt.SetCellFloat("Cycle", row, float64(gn.Idx))
	dt.SetCellFloat("Image", row, float64(img))
	dt.SetCellFloat("Start", row, gn.Window.Start)
	dt.SetCellFloat("Stop", row, gn.Window.Stop)
	dt.SetCellFloat("NTargets", row, float64(gn.NTargets))
	dt.SetCellFloat("Time", row, ss.Eng.Time())
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (ss *Sim) FunTimerStart(fun string) {
	ft, ok := ss.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		ss.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (ss *Sim) FunTimerStop(fun string) {
	ft := ss.FunTimes[fun]
	ft.Stop()
}

// TimerReport reports the amount of wall-clock time taken by each phase
func (ss *Sim) TimerReport() {
	fmt.Printf("TimerReport: %v\n", ss.Config.Version)
	fmt.Printf("\t%12s \t%8s\n", "Phase", "Secs")
	nms := make([]string, 0, len(ss.FunTimes))
	for nm := range ss.FunTimes {
		nms = append(nms, nm)
	}
	sort.Strings(nms)
	for _, nm := range nms {
		fmt.Printf("\t%12s \t%8.3f\n", nm, ss.FunTimes[nm].TotalSecs())
	}
}

// SaveTable saves a table as tab-separated values with headers
func SaveTable(dt *etable.Table, fname string) error {
	err := dt.SaveCSV(gi.FileName(fname), etable.Tab, etable.Headers)
	if err != nil {
		log.Println(err)
	}
	return err
}
