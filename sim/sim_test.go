// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/emer/tcsleep/engine"
	"github.com/emer/tcsleep/stimulus"
	"github.com/emer/tcsleep/thalnet"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-6

// testMasks returns n masks over nf features, image i having features
// i, i+n, i+2n.. on
func testMasks(n, nf int) *etensor.Float32 {
	masks := etensor.NewFloat32([]int{n, nf}, nil, []string{"Image", "Feature"})
	for i := 0; i < n; i++ {
		for j := i; j < nf; j += n {
			masks.Values[i*nf+j] = 1
		}
	}
	return masks
}

func TestRun(t *testing.T) {
	rg := engine.NewRegistry()
	ss := New(NewConfig(), rg)
	if err := ss.Run(testMasks(3, 324)); err != nil {
		t.Fatal(err)
	}
	dt := ss.RunLog
	if dt.Rows != 7 {
		t.Fatalf("run log: got %d rows, want 3 + 3 + 1", dt.Rows)
	}
	phases := []stimulus.Phases{
		stimulus.AwakeTrain, stimulus.AwakeTrain, stimulus.AwakeTrain,
		stimulus.AwakeRetrieve, stimulus.AwakeRetrieve, stimulus.AwakeRetrieve,
		stimulus.Sleep,
	}
	for i, ph := range phases {
		if got := dt.CellString("Phase", i); got != ph.String() {
			t.Errorf("row %d phase: got %s, want %s", i, got, ph)
		}
	}
	for i := 0; i < 6; i++ {
		if img := int(dt.CellFloat("Image", i)); img != i%3 {
			t.Errorf("row %d image: got %d, want %d", i, img, i%3)
		}
		if nt := int(dt.CellFloat("NTargets", i)); nt != 108 {
			t.Errorf("row %d: got %d targets, want 108", i, nt)
		}
		if tm := dt.CellFloat("Time", i); math.Abs(tm-float64(i+1)*900) > difTol {
			t.Errorf("row %d time: got %v, want %v", i, tm, float64(i+1)*900)
		}
	}
	if st := dt.CellFloat("Start", 6); math.Abs(st-5400) > difTol {
		t.Errorf("sleep start: got %v, want 5400", st)
	}
	if math.Abs(rg.Time()-605400) > difTol {
		t.Errorf("engine time: got %v, want 605400", rg.Time())
	}

	if ss.Sched.Phase() != stimulus.Sleep {
		t.Errorf("final phase: got %v, want Sleep", ss.Sched.Phase())
	}
	st, _ := rg.ConnStatus(ss.Net.ConnIDs(thalnet.In, thalnet.Cx, engine.Static)[0])
	if st["weight"] != -0.5 {
		t.Errorf("In->Cx weight: got %v, want -0.5", st["weight"])
	}
	if n := rg.Size(ss.Net.Pop(thalnet.Cx).ID); n != 60 {
		t.Errorf("cortex size: got %d, want 60", n)
	}
	if pb := ss.Probes.Probe(thalnet.Tc, 0); pb.Role != thalnet.Tc || pb.ID == ss.Net.Pop(thalnet.Tc).ID {
		t.Errorf("thalamic probe: got %v", pb)
	}
	for _, nm := range []string{"Build", "Train", "Retrieve", "Sleep"} {
		if _, has := ss.FunTimes[nm]; !has {
			t.Errorf("no %s timer", nm)
		}
	}
}

func TestRunPhases(t *testing.T) {
	cf := NewConfig()
	cf.Retrieve = false
	cf.Sleep = false
	cf.Groups = 2
	rg := engine.NewRegistry()
	ss := New(cf, rg)
	if err := ss.Run(testMasks(5, 324)); err != nil {
		t.Fatal(err)
	}
	if ss.RunLog.Rows != 2 {
		t.Errorf("run log: got %d rows, want 2", ss.RunLog.Rows)
	}
	if ss.Sched.Phase() != stimulus.AwakeTrain {
		t.Errorf("final phase: got %v, want AwakeTrain", ss.Sched.Phase())
	}
	if n := rg.Size(ss.Net.Pop(thalnet.Cx).ID); n != 40 {
		t.Errorf("cortex size: got %d, want 40", n)
	}
}

func TestGroups(t *testing.T) {
	ss := New(NewConfig(), engine.NewRegistry())
	if n := ss.Groups(7); n != 7 {
		t.Errorf("all images: got %d, want 7", n)
	}
	ss.Config.Groups = 3
	if n := ss.Groups(7); n != 3 {
		t.Errorf("capped: got %d, want 3", n)
	}
	if n := ss.Groups(2); n != 2 {
		t.Errorf("fewer images: got %d, want 2", n)
	}
}

func TestRunInvalid(t *testing.T) {
	bad := []*etensor.Float32{
		nil,
		etensor.NewFloat32([]int{324}, nil, nil),
		etensor.NewFloat32([]int{3, 323}, nil, nil),
		etensor.NewFloat32([]int{3, 324, 1}, nil, nil),
	}
	for i, masks := range bad {
		rg := engine.NewRegistry()
		ss := New(NewConfig(), rg)
		if err := ss.Run(masks); !errors.Is(err, thalnet.ErrInvalidConfig) {
			t.Errorf("case %d: got %v, want ErrInvalidConfig", i, err)
		}
		if rg.NMutations() != 0 {
			t.Errorf("case %d: invalid masks mutated the engine", i)
		}
	}
	rg := engine.NewRegistry()
	rg.MaxNodes = 100
	ss := New(NewConfig(), rg)
	if err := ss.Run(testMasks(3, 324)); !errors.Is(err, thalnet.ErrFatal) {
		t.Errorf("engine failure: got %v, want ErrFatal", err)
	}
}

func TestApplyParams(t *testing.T) {
	cf := NewConfig()
	if err := cf.ApplyParams(ParamSets, "V3", false); err != nil {
		t.Fatal(err)
	}
	if cf.Stim.Cycle.Spacing != 1.34 || cf.Stim.Cycle.Eps != 1 || cf.Version != "V3" {
		t.Errorf("V3: got spacing %v, eps %v, version %s", cf.Stim.Cycle.Spacing, cf.Stim.Cycle.Eps, cf.Version)
	}
	if err := cf.Validate(); err != nil {
		t.Errorf("V3 invalid: %v", err)
	}

	cf = NewConfig()
	if err := cf.ApplyParams(ParamSets, "V1", false); err != nil {
		t.Fatal(err)
	}
	if cf.Stim.Train.Weight != 8 || cf.Stim.Sleep.Sinusoidal || cf.Stim.Sleep.ToInhib {
		t.Errorf("V1: got weight %v, sinusoidal %v, to inhib %v", cf.Stim.Train.Weight, cf.Stim.Sleep.Sinusoidal, cf.Stim.Sleep.ToInhib)
	}

	cf = NewConfig()
	if err := cf.ApplyParams(ParamSets, "", false); err != nil || cf.Version != "Base" {
		t.Errorf("default set: got %s, %v", cf.Version, err)
	}
	if err := cf.ApplyParams(ParamSets, "V9", false); !errors.Is(err, thalnet.ErrInvalidConfig) {
		t.Errorf("unknown set: got %v, want ErrInvalidConfig", err)
	}
	for _, ps := range ParamSets {
		cf := NewConfig()
		if err := cf.ApplyParams(ParamSets, ps.Name, false); err != nil {
			t.Errorf("%s: %v", ps.Name, err)
			continue
		}
		if err := cf.Validate(); err != nil {
			t.Errorf("%s: invalid config: %v", ps.Name, err)
		}
	}
}

func TestApplyParamsBadPath(t *testing.T) {
	bad := params.Sets{
		{Name: "Base", Desc: "unknown field", Sheets: params.Sheets{
			"Config": &params.Sheet{
				{Sel: "Config", Desc: "no such cycle field",
					Params: params.Params{
						"Config.Stim.Cycle.Nope": "1",
					}},
			},
		}},
	}
	cf := NewConfig()
	if err := cf.ApplyParams(bad, "", false); !errors.Is(err, thalnet.ErrInvalidConfig) {
		t.Errorf("bad path: got %v, want ErrInvalidConfig", err)
	}
}

func TestConfigValidate(t *testing.T) {
	mods := []func(cf *Config){
		func(cf *Config) { cf.Groups = -1 },
		func(cf *Config) { cf.Net.Pop.TcN = 0 },
		func(cf *Config) { cf.Stim.Cycle.Spacing = 0.9 },
		func(cf *Config) { cf.Probe.Interval = 0 },
	}
	for i, mod := range mods {
		cf := NewConfig()
		mod(cf)
		if err := cf.Validate(); !errors.Is(err, thalnet.ErrInvalidConfig) {
			t.Errorf("case %d: got %v, want ErrInvalidConfig", i, err)
		}
	}
}

func TestSaveTable(t *testing.T) {
	ss := New(NewConfig(), engine.NewRegistry())
	if err := ss.Run(testMasks(2, 324)); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	fn := filepath.Join(dir, "runlog.tsv")
	if err := SaveTable(ss.RunLog, fn); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(fn); err != nil || fi.Size() == 0 {
		t.Errorf("run log not saved: %v", err)
	}
	fn = filepath.Join(dir, "generators.tsv")
	if err := SaveTable(ss.Sched.Table(), fn); err != nil {
		t.Fatal(err)
	}
	if err := SaveTable(ss.RunLog, filepath.Join(dir, "none", "x.tsv")); err == nil {
		t.Errorf("saving to a missing directory succeeded")
	}
}
