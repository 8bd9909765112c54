// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/emer/emergent/prjn"
)

func fullSelf() *prjn.Full {
	full := prjn.NewFull()
	full.SelfCon = true
	return full
}

func TestCreateDefaults(t *testing.T) {
	rg := NewRegistry()
	defs, err := rg.ModelDefaults(AdEx)
	if err != nil {
		t.Fatal(err)
	}
	if defs["V_th"] != -50.4 || defs["Delta_T"] != 2 {
		t.Errorf("unexpected AdEx defaults: V_th %v Delta_T %v", defs["V_th"], defs["Delta_T"])
	}
	defs["b"] = 1234 // copy: must not affect model
	id, err := rg.Create(AdEx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if sz := rg.Size(id); sz != 10 {
		t.Errorf("size: got %d, want 10", sz)
	}
	st, _ := rg.Status(id, 3)
	if st["b"] != 80.5 {
		t.Errorf("b: got %v, want 80.5", st["b"])
	}
	if err := rg.SetModelDefaults(AdEx, Props{"b": 0.01}); err != nil {
		t.Fatal(err)
	}
	id2, _ := rg.Create(AdEx, 2)
	st, _ = rg.Status(id2, 1)
	if st["b"] != 0.01 {
		t.Errorf("b after SetModelDefaults: got %v, want 0.01", st["b"])
	}
	st, _ = rg.Status(id, 0)
	if st["b"] != 80.5 {
		t.Errorf("earlier nodes must keep their b: got %v", st["b"])
	}
	if err := rg.SetModelDefaults(AdEx, Props{"nonesuch": 1}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("unknown param: got %v, want ErrInvalidParam", err)
	}
	if _, err := rg.Create("nonesuch", 1); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("unknown model: got %v, want ErrUnknownModel", err)
	}
	if _, err := rg.Create(AdEx, 0); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("zero nodes: got %v, want ErrInvalidParam", err)
	}
	if rg.NNodes() != 12 {
		t.Errorf("NNodes: got %d, want 12", rg.NNodes())
	}
}

func TestSetStatusTarget(t *testing.T) {
	rg := NewRegistry()
	id, _ := rg.Create(AdEx, 5)
	if err := rg.SetStatus(Range(id, 1, 3), Props{"b": 60}); err != nil {
		t.Fatal(err)
	}
	want := []float64{80.5, 60, 60, 80.5, 80.5}
	for i, w := range want {
		st, _ := rg.Status(id, i)
		if st["b"] != w {
			t.Errorf("node %d b: got %v, want %v", i, st["b"], w)
		}
	}
	if err := rg.SetStatus(Target{ID: id, Idx: []int{5}}, Props{"b": 1}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("out of range index: got %v, want ErrInvalidParam", err)
	}
	if err := rg.SetStatus(All(ID(7)), Props{"b": 1}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("invalid id: got %v, want ErrInvalidID", err)
	}
}

func TestConnectCounts(t *testing.T) {
	rg := NewRegistry()
	pop, _ := rg.Create(AdEx, 5)
	gen, _ := rg.Create(Poisson, 1)

	cn, err := rg.Connect(All(pop), All(pop), fullSelf(), SynSpec{Weight: 1})
	if err != nil {
		t.Fatal(err)
	}
	st, _ := rg.ConnStatus(cn)
	if st["n_synapses"] != 25 {
		t.Errorf("full with self: got %v synapses, want 25", st["n_synapses"])
	}

	cn, _ = rg.Connect(All(pop), All(pop), prjn.NewFull(), SynSpec{Weight: 1})
	st, _ = rg.ConnStatus(cn)
	if st["n_synapses"] != 20 {
		t.Errorf("full without self: got %v synapses, want 20", st["n_synapses"])
	}

	cn, _ = rg.Connect(All(gen), Select(pop, []bool{true, false, true, true, false}), fullSelf(), SynSpec{Weight: 5})
	st, _ = rg.ConnStatus(cn)
	if st["n_synapses"] != 3 {
		t.Errorf("selective: got %v synapses, want 3", st["n_synapses"])
	}

	cn, _ = rg.Connect(All(gen), Select(pop, make([]bool, 5)), fullSelf(), SynSpec{Weight: 5})
	st, _ = rg.ConnStatus(cn)
	if st["n_synapses"] != 0 {
		t.Errorf("empty selection: got %v synapses, want 0", st["n_synapses"])
	}
}

func TestConnectValidation(t *testing.T) {
	rg := NewRegistry()
	pop, _ := rg.Create(AdEx, 3)
	gen, _ := rg.Create(Poisson, 1)
	sr, _ := rg.Create(SpikeRecorder, 1)
	mm, _ := rg.Create(Multimeter, 1)
	nm := rg.NMutations()

	cases := []struct {
		name       string
		send, recv ID
		syn        SynSpec
	}{
		{"to generator", pop, gen, SynSpec{Weight: 1}},
		{"from spike recorder", sr, pop, SynSpec{Weight: 1}},
		{"to multimeter", pop, mm, SynSpec{Weight: 1}},
		{"no wmax", pop, pop, SynSpec{Model: STDP, Weight: 1}},
		{"weight over wmax", pop, pop, SynSpec{Model: STDP, Weight: 10, WMax: 5}},
		{"unknown synapse", pop, pop, SynSpec{Model: "tsodyks", Weight: 1}},
	}
	for _, c := range cases {
		if _, err := rg.Connect(All(c.send), All(c.recv), fullSelf(), c.syn); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
	if _, err := rg.Connect(All(pop), All(pop), nil, SynSpec{}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("nil pattern: got %v, want ErrInvalidParam", err)
	}
	if rg.NMutations() != nm {
		t.Errorf("failed connects must not mutate: %d -> %d", nm, rg.NMutations())
	}
	if _, err := rg.Connect(All(mm), All(pop), fullSelf(), SynSpec{Weight: 1}); err != nil {
		t.Errorf("multimeter -> pop: %v", err)
	}
	if _, err := rg.Connect(All(pop), All(sr), fullSelf(), SynSpec{Weight: 1}); err != nil {
		t.Errorf("pop -> spike recorder: %v", err)
	}
}

func TestConnectionsSetStatus(t *testing.T) {
	rg := NewRegistry()
	a, _ := rg.Create(AdEx, 4)
	b, _ := rg.Create(AdEx, 2)
	st1, _ := rg.Connect(All(a), All(b), fullSelf(), SynSpec{Weight: -4})
	pl1, _ := rg.Connect(All(a), All(b), fullSelf(), SynSpec{Model: STDP, Weight: 1, Alpha: 1, WMax: 150})
	rg.Connect(All(b), All(a), fullSelf(), SynSpec{Weight: 2})

	cns, err := rg.Connections(a, b, Static)
	if err != nil {
		t.Fatal(err)
	}
	if len(cns) != 1 || cns[0] != st1 {
		t.Errorf("static a->b: got %v, want [%d]", cns, st1)
	}
	cns, _ = rg.Connections(a, b, "")
	if len(cns) != 2 {
		t.Errorf("any a->b: got %d groups, want 2", len(cns))
	}
	if err := rg.SetConnStatus([]ConnID{st1}, Props{"alpha": 3}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("alpha on static: got %v, want ErrInvalidParam", err)
	}
	if err := rg.SetConnStatus([]ConnID{pl1}, Props{"alpha": 3}); err != nil {
		t.Fatal(err)
	}
	st, _ := rg.ConnStatus(pl1)
	if st["alpha"] != 3 || st["Wmax"] != 150 || st["weight"] != 1 {
		t.Errorf("stdp status after set: %v", st)
	}
	if err := rg.SetConnStatus([]ConnID{st1, pl1}, Props{"weight": -0.5}); err != nil {
		t.Fatal(err)
	}
	st, _ = rg.ConnStatus(st1)
	if st["weight"] != -0.5 {
		t.Errorf("static weight: got %v, want -0.5", st["weight"])
	}
	if err := rg.SetConnStatus([]ConnID{pl1}, Props{"Wmax": 0}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("zero Wmax: got %v, want ErrInvalidParam", err)
	}
}

func TestCopyModel(t *testing.T) {
	rg := NewRegistry()
	if err := rg.CopyModel(SinPoisson, "sinusoidal_sleep", Props{"individual_spike_trains": 0}); err != nil {
		t.Fatal(err)
	}
	id, err := rg.Create("sinusoidal_sleep", 1)
	if err != nil {
		t.Fatal(err)
	}
	nd, _ := rg.NodesByID(id)
	if nd.Kind != Generator {
		t.Errorf("copied kind: got %v, want Generator", nd.Kind)
	}
	if nd.Status[0]["individual_spike_trains"] != 0 {
		t.Errorf("copied param not overridden")
	}
	if err := rg.CopyModel(SinPoisson, "sinusoidal_sleep", nil); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("duplicate model: got %v, want ErrInvalidParam", err)
	}
}

func TestMaxNodes(t *testing.T) {
	rg := NewRegistry()
	rg.MaxNodes = 10
	if _, err := rg.Create(AdEx, 8); err != nil {
		t.Fatal(err)
	}
	nm := rg.NMutations()
	if _, err := rg.Create(Multimeter, 3); !errors.Is(err, ErrResource) {
		t.Errorf("over limit: got %v, want ErrResource", err)
	}
	if rg.NMutations() != nm || rg.NNodes() != 8 {
		t.Errorf("failed create must not mutate")
	}
}

func TestSimulate(t *testing.T) {
	rg := NewRegistry()
	if err := rg.Simulate(450); err != nil {
		t.Fatal(err)
	}
	rg.Simulate(50)
	if tm := rg.Time(); tm != 500 {
		t.Errorf("time: got %v, want 500", tm)
	}
	if err := rg.Simulate(-1); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("negative duration: got %v, want ErrInvalidParam", err)
	}
}

func TestUpdate(t *testing.T) {
	rg := NewRegistry()
	a, _ := rg.Create(AdEx, 20)
	cn, _ := rg.Connect(All(a), All(a), fullSelf(), SynSpec{Model: STDP, Weight: 1, Alpha: 1, WMax: 150})

	// concurrent readers must only ever see both or neither of the changes
	var wg sync.WaitGroup
	stop := make(chan struct{})
	bad := make(chan string, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			rg.Update(func(eng Engine) error {
				st, _ := eng.Status(a, 0)
				cs, _ := eng.ConnStatus(cn)
				if (st["b"] == 60) != (cs["alpha"] == 3) {
					select {
					case bad <- "partial update observed":
					default:
					}
				}
				return nil
			})
		}
	}()
	err := rg.Update(func(eng Engine) error {
		if err := eng.SetStatus(All(a), Props{"b": 60}); err != nil {
			return err
		}
		return eng.Update(func(eng Engine) error { // nested is ok
			return eng.SetConnStatus([]ConnID{cn}, Props{"alpha": 3})
		})
	})
	close(stop)
	wg.Wait()
	if err != nil {
		t.Fatal(err)
	}
	select {
	case msg := <-bad:
		t.Error(msg)
	default:
	}

	werr := errors.New("abort")
	if err := rg.Update(func(eng Engine) error { return werr }); err != werr {
		t.Errorf("Update must return fn error: got %v", err)
	}
}

func TestSizeReport(t *testing.T) {
	rg := NewRegistry()
	a, _ := rg.Create(AdEx, 100)
	rg.Connect(All(a), All(a), fullSelf(), SynSpec{Weight: 1})
	rpt := rg.SizeReport()
	if !strings.Contains(rpt, "Syns: 10000") {
		t.Errorf("size report missing synapse count:\n%s", rpt)
	}
	if !strings.Contains(rpt, "Total") {
		t.Errorf("size report missing total:\n%s", rpt)
	}
}
