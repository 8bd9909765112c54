// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
)

// Model is a named node model with its default parameters
type Model struct {
	Name string `desc:"name of the model"`
	Kind Kinds  `desc:"kind of node the model creates"`
	Defs Props  `desc:"default parameters, copied into each node at creation"`
}

// Nodes is a collection of nodes created by one Create call
type Nodes struct {
	ID     ID      `desc:"handle of this collection"`
	Model  string  `desc:"model the nodes were created from"`
	Kind   Kinds   `desc:"kind of nodes"`
	Status []Props `desc:"per-node parameters"`
}

// N returns the number of nodes
func (nd *Nodes) N() int {
	return len(nd.Status)
}

// ConnGroup is a group of connections created by one Connect call
type ConnGroup struct {
	ID      ConnID `desc:"handle of this group"`
	Send    Target `desc:"sending nodes"`
	Recv    Target `desc:"receiving nodes"`
	Pattern string `desc:"name of the connectivity pattern"`
	Model   string `desc:"synapse model"`
	Syn     Props  `desc:"synapse parameters shared by all synapses in the group"`
	NSyn    int    `desc:"number of synapses in the group"`
}

// Registry is an in-memory Engine that records the state of the network
// that has been configured: models, node collections, connection groups and
// the simulated clock.  It does not integrate any dynamics.
// It is safe for concurrent use: readers share a lock, and Update holds the
// write lock for the duration of the transaction.
type Registry struct {
	MaxNodes int `desc:"maximum total number of nodes that can be created -- 0 = no limit"`

	mu      sync.RWMutex
	models  map[string]*Model
	nodes   []*Nodes
	conns   []*ConnGroup
	time    float64
	nTot    int
	nMutate int
	nCalls  int64
}

// NewRegistry returns a new Registry with the standard models
func NewRegistry() *Registry {
	rg := &Registry{}
	rg.Reset()
	return rg
}

// Reset (re)initializes the standard models and clears all state
func (rg *Registry) Reset() {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	inf := math.Inf(1)
	rg.models = map[string]*Model{
		AdEx: {Name: AdEx, Kind: Neuron, Defs: Props{
			"C_m": 281, "g_L": 30, "E_L": -70.6, "V_th": -50.4, "Delta_T": 2,
			"tau_w": 144, "a": 4, "b": 80.5, "V_reset": -60, "t_ref": 0, "V_peak": 0,
			"E_ex": 0, "E_in": -85, "tau_syn_ex": 0.2, "tau_syn_in": 2, "I_e": 0,
			"V_m": -70.6, "w": 0}},
		Poisson: {Name: Poisson, Kind: Generator, Defs: Props{
			"rate": 0, "start": 0, "stop": inf, "origin": 0}},
		SinPoisson: {Name: SinPoisson, Kind: Generator, Defs: Props{
			"rate": 0, "amplitude": 0, "frequency": 0, "phase": 0,
			"individual_spike_trains": 1, "start": 0, "stop": inf, "origin": 0}},
		Multimeter: {Name: Multimeter, Kind: Recorder, Defs: Props{
			"interval": 1, "start": 0, "stop": inf, "record_V_m": 0}},
		SpikeRecorder: {Name: SpikeRecorder, Kind: Recorder, Defs: Props{
			"start": 0, "stop": inf}},
	}
	rg.nodes = nil
	rg.conns = nil
	rg.time = 0
	rg.nTot = 0
	rg.nMutate = 0
	atomic.StoreInt64(&rg.nCalls, 0)
}

// NCalls returns the number of Engine method calls made so far,
// reads and writes, successful or not.
func (rg *Registry) NCalls() int {
	return int(atomic.LoadInt64(&rg.nCalls))
}

// NMutations returns the number of successful state-changing calls
func (rg *Registry) NMutations() int {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.nMutate
}

// NNodes returns the total number of nodes created
func (rg *Registry) NNodes() int {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.nTot
}

// NodesByID returns a copy of the record of given node collection
func (rg *Registry) NodesByID(id ID) (*Nodes, error) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	nd, err := rg.nodesTry(id)
	if err != nil {
		return nil, err
	}
	cp := &Nodes{ID: nd.ID, Model: nd.Model, Kind: nd.Kind, Status: make([]Props, len(nd.Status))}
	for i, st := range nd.Status {
		cp.Status[i] = st.Clone()
	}
	return cp, nil
}

// ConnGroups returns copies of all connection group records, in creation order
func (rg *Registry) ConnGroups() []ConnGroup {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	cgs := make([]ConnGroup, len(rg.conns))
	for i, cg := range rg.conns {
		cgs[i] = *cg
		cgs[i].Syn = cg.Syn.Clone()
	}
	return cgs
}

/////////////////////////////////////////////////////////////
//  Engine interface

func (rg *Registry) ModelDefaults(model string) (Props, error) {
	rg.call()
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.modelDefaults(model)
}

func (rg *Registry) SetModelDefaults(model string, props Props) error {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.setModelDefaults(model, props)
}

func (rg *Registry) CopyModel(model, newModel string, props Props) error {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.copyModel(model, newModel, props)
}

func (rg *Registry) Create(model string, n int) (ID, error) {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.create(model, n)
}

func (rg *Registry) Size(id ID) int {
	rg.call()
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.size(id)
}

func (rg *Registry) SetStatus(tg Target, props Props) error {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.setStatus(tg, props)
}

func (rg *Registry) Status(id ID, idx int) (Props, error) {
	rg.call()
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.status(id, idx)
}

func (rg *Registry) Connect(send, recv Target, pat prjn.Pattern, syn SynSpec) (ConnID, error) {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.connect(send, recv, pat, syn)
}

func (rg *Registry) Connections(send, recv ID, model string) ([]ConnID, error) {
	rg.call()
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.connections(send, recv, model)
}

func (rg *Registry) ConnStatus(cn ConnID) (Props, error) {
	rg.call()
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.connStatus(cn)
}

func (rg *Registry) SetConnStatus(cns []ConnID, props Props) error {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.setConnStatus(cns, props)
}

func (rg *Registry) Time() float64 {
	rg.call()
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.time
}

func (rg *Registry) Simulate(dur float64) error {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.simulate(dur)
}

// Update runs fn holding the write lock; fn must only use the Engine it is passed.
func (rg *Registry) Update(fn func(eng Engine) error) error {
	rg.call()
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return fn(&txn{rg: rg})
}

/////////////////////////////////////////////////////////////
//  txn: lock-free view used within Update

// txn is the Engine passed to Update functions: it calls the registry
// implementation directly, as the lock is already held.
type txn struct {
	rg *Registry
}

func (tx *txn) ModelDefaults(model string) (Props, error) {
	tx.rg.call()
	return tx.rg.modelDefaults(model)
}

func (tx *txn) SetModelDefaults(model string, props Props) error {
	tx.rg.call()
	return tx.rg.setModelDefaults(model, props)
}

func (tx *txn) CopyModel(model, newModel string, props Props) error {
	tx.rg.call()
	return tx.rg.copyModel(model, newModel, props)
}

func (tx *txn) Create(model string, n int) (ID, error) {
	tx.rg.call()
	return tx.rg.create(model, n)
}

func (tx *txn) Size(id ID) int {
	tx.rg.call()
	return tx.rg.size(id)
}

func (tx *txn) SetStatus(tg Target, props Props) error {
	tx.rg.call()
	return tx.rg.setStatus(tg, props)
}

func (tx *txn) Status(id ID, idx int) (Props, error) {
	tx.rg.call()
	return tx.rg.status(id, idx)
}

func (tx *txn) Connect(send, recv Target, pat prjn.Pattern, syn SynSpec) (ConnID, error) {
	tx.rg.call()
	return tx.rg.connect(send, recv, pat, syn)
}

func (tx *txn) Connections(send, recv ID, model string) ([]ConnID, error) {
	tx.rg.call()
	return tx.rg.connections(send, recv, model)
}

func (tx *txn) ConnStatus(cn ConnID) (Props, error) {
	tx.rg.call()
	return tx.rg.connStatus(cn)
}

func (tx *txn) SetConnStatus(cns []ConnID, props Props) error {
	tx.rg.call()
	return tx.rg.setConnStatus(cns, props)
}

func (tx *txn) Time() float64 {
	tx.rg.call()
	return tx.rg.time
}

func (tx *txn) Simulate(dur float64) error {
	tx.rg.call()
	return tx.rg.simulate(dur)
}

func (tx *txn) Update(fn func(eng Engine) error) error {
	tx.rg.call()
	return fn(tx)
}

/////////////////////////////////////////////////////////////
//  Implementation -- lock must be held by caller

func (rg *Registry) call() {
	atomic.AddInt64(&rg.nCalls, 1)
}

func (rg *Registry) modelTry(model string) (*Model, error) {
	md, ok := rg.models[model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return md, nil
}

func (rg *Registry) nodesTry(id ID) (*Nodes, error) {
	if id < 0 || int(id) >= len(rg.nodes) {
		return nil, fmt.Errorf("%w: node collection %d", ErrInvalidID, id)
	}
	return rg.nodes[id], nil
}

func (rg *Registry) connTry(cn ConnID) (*ConnGroup, error) {
	if cn < 0 || int(cn) >= len(rg.conns) {
		return nil, fmt.Errorf("%w: connection group %d", ErrInvalidID, cn)
	}
	return rg.conns[cn], nil
}

// checkKeys returns an error if any of props is not a known parameter
func checkKeys(known Props, props Props, what string) error {
	for k, v := range props {
		if _, ok := known[k]; !ok {
			return fmt.Errorf("%w: %s has no parameter %q", ErrInvalidParam, what, k)
		}
		if math.IsNaN(v) {
			return fmt.Errorf("%w: %s parameter %q is NaN", ErrInvalidParam, what, k)
		}
	}
	return nil
}

// targetIdx returns the node indexes selected by the target, validated
func (rg *Registry) targetIdx(tg Target) (*Nodes, []int, error) {
	nd, err := rg.nodesTry(tg.ID)
	if err != nil {
		return nil, nil, err
	}
	n := nd.N()
	if tg.Idx == nil {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return nd, idx, nil
	}
	for _, i := range tg.Idx {
		if i < 0 || i >= n {
			return nil, nil, fmt.Errorf("%w: index %d out of range for node collection %d of size %d", ErrInvalidParam, i, tg.ID, n)
		}
	}
	return nd, tg.Idx, nil
}

func (rg *Registry) modelDefaults(model string) (Props, error) {
	md, err := rg.modelTry(model)
	if err != nil {
		return nil, err
	}
	return md.Defs.Clone(), nil
}

func (rg *Registry) setModelDefaults(model string, props Props) error {
	md, err := rg.modelTry(model)
	if err != nil {
		return err
	}
	if err := checkKeys(md.Defs, props, model); err != nil {
		return err
	}
	for k, v := range props {
		md.Defs[k] = v
	}
	rg.nMutate++
	return nil
}

func (rg *Registry) copyModel(model, newModel string, props Props) error {
	md, err := rg.modelTry(model)
	if err != nil {
		return err
	}
	if _, has := rg.models[newModel]; has {
		return fmt.Errorf("%w: model %q already exists", ErrInvalidParam, newModel)
	}
	if err := checkKeys(md.Defs, props, model); err != nil {
		return err
	}
	nm := &Model{Name: newModel, Kind: md.Kind, Defs: md.Defs.Clone()}
	for k, v := range props {
		nm.Defs[k] = v
	}
	rg.models[newModel] = nm
	rg.nMutate++
	return nil
}

func (rg *Registry) create(model string, n int) (ID, error) {
	md, err := rg.modelTry(model)
	if err != nil {
		return -1, err
	}
	if n <= 0 {
		return -1, fmt.Errorf("%w: cannot create %d nodes of %q", ErrInvalidParam, n, model)
	}
	if rg.MaxNodes > 0 && rg.nTot+n > rg.MaxNodes {
		return -1, fmt.Errorf("%w: %d + %d nodes exceeds limit of %d", ErrResource, rg.nTot, n, rg.MaxNodes)
	}
	id := ID(len(rg.nodes))
	nd := &Nodes{ID: id, Model: model, Kind: md.Kind, Status: make([]Props, n)}
	for i := range nd.Status {
		nd.Status[i] = md.Defs.Clone()
	}
	rg.nodes = append(rg.nodes, nd)
	rg.nTot += n
	rg.nMutate++
	return id, nil
}

func (rg *Registry) size(id ID) int {
	nd, err := rg.nodesTry(id)
	if err != nil {
		return 0
	}
	return nd.N()
}

func (rg *Registry) setStatus(tg Target, props Props) error {
	nd, idx, err := rg.targetIdx(tg)
	if err != nil {
		return err
	}
	md, err := rg.modelTry(nd.Model)
	if err != nil {
		return err
	}
	if err := checkKeys(md.Defs, props, nd.Model); err != nil {
		return err
	}
	for _, i := range idx {
		for k, v := range props {
			nd.Status[i][k] = v
		}
	}
	rg.nMutate++
	return nil
}

func (rg *Registry) status(id ID, idx int) (Props, error) {
	nd, err := rg.nodesTry(id)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= nd.N() {
		return nil, fmt.Errorf("%w: index %d out of range for node collection %d of size %d", ErrInvalidParam, idx, id, nd.N())
	}
	return nd.Status[idx].Clone(), nil
}

// synKeys are the parameters that can be set on each synapse model
var synKeys = map[string]Props{
	Static: {"weight": 0},
	STDP:   {"weight": 0, "alpha": 0, "Wmax": 0},
}

func (rg *Registry) connect(send, recv Target, pat prjn.Pattern, syn SynSpec) (ConnID, error) {
	if pat == nil {
		return -1, fmt.Errorf("%w: nil connectivity pattern", ErrInvalidParam)
	}
	snd, sidx, err := rg.targetIdx(send)
	if err != nil {
		return -1, err
	}
	rcv, ridx, err := rg.targetIdx(recv)
	if err != nil {
		return -1, err
	}
	switch {
	case rcv.Kind == Generator:
		return -1, fmt.Errorf("%w: generator %d cannot receive connections", ErrInvalidParam, recv.ID)
	case snd.Model == SpikeRecorder:
		return -1, fmt.Errorf("%w: spike recorder %d cannot send connections", ErrInvalidParam, send.ID)
	case rcv.Model == Multimeter:
		return -1, fmt.Errorf("%w: multimeter %d cannot receive connections", ErrInvalidParam, recv.ID)
	}
	model := syn.ModelName()
	if _, ok := synKeys[model]; !ok {
		return -1, fmt.Errorf("%w: synapse %q", ErrUnknownModel, model)
	}
	if syn.IsPlastic() {
		if syn.WMax <= 0 {
			return -1, fmt.Errorf("%w: plastic synapse needs Wmax > 0, got %g", ErrInvalidParam, syn.WMax)
		}
		if syn.Weight > syn.WMax {
			return -1, fmt.Errorf("%w: initial weight %g exceeds Wmax %g", ErrInvalidParam, syn.Weight, syn.WMax)
		}
	}
	cg := &ConnGroup{ID: ConnID(len(rg.conns)), Send: send, Recv: recv, Pattern: pat.Name(), Model: model, Syn: syn.Props()}
	cg.NSyn = SynCount(pat, len(sidx), len(ridx), send.ID == recv.ID)
	rg.conns = append(rg.conns, cg)
	rg.nMutate++
	return cg.ID, nil
}

// SynCount returns the number of synapses that given pattern creates between
// nsend sending and nrecv receiving nodes.  same indicates that sending and
// receiving nodes belong to the same collection (for self-connection rules).
func SynCount(pat prjn.Pattern, nsend, nrecv int, same bool) int {
	if nsend == 0 || nrecv == 0 {
		return 0
	}
	sshp := etensor.NewShape([]int{nsend}, nil, nil)
	rshp := etensor.NewShape([]int{nrecv}, nil, nil)
	_, recvn, _ := pat.Connect(sshp, rshp, same)
	n := 0
	for _, v := range recvn.Values {
		n += int(v)
	}
	return n
}

func (rg *Registry) connections(send, recv ID, model string) ([]ConnID, error) {
	if _, err := rg.nodesTry(send); err != nil {
		return nil, err
	}
	if _, err := rg.nodesTry(recv); err != nil {
		return nil, err
	}
	var cns []ConnID
	for _, cg := range rg.conns {
		if cg.Send.ID != send || cg.Recv.ID != recv {
			continue
		}
		if model != "" && cg.Model != model {
			continue
		}
		cns = append(cns, cg.ID)
	}
	return cns, nil
}

func (rg *Registry) connStatus(cn ConnID) (Props, error) {
	cg, err := rg.connTry(cn)
	if err != nil {
		return nil, err
	}
	pr := cg.Syn.Clone()
	pr["n_synapses"] = float64(cg.NSyn)
	return pr, nil
}

func (rg *Registry) setConnStatus(cns []ConnID, props Props) error {
	cgs := make([]*ConnGroup, len(cns))
	for i, cn := range cns {
		cg, err := rg.connTry(cn)
		if err != nil {
			return err
		}
		if err := checkKeys(synKeys[cg.Model], props, cg.Model); err != nil {
			return err
		}
		if cg.Model == STDP {
			wmax := cg.Syn["Wmax"]
			if v, has := props["Wmax"]; has {
				wmax = v
			}
			if wmax <= 0 {
				return fmt.Errorf("%w: plastic synapse needs Wmax > 0, got %g", ErrInvalidParam, wmax)
			}
		}
		cgs[i] = cg
	}
	for _, cg := range cgs {
		for k, v := range props {
			cg.Syn[k] = v
		}
	}
	rg.nMutate++
	return nil
}

func (rg *Registry) simulate(dur float64) error {
	if dur < 0 || math.IsNaN(dur) {
		return fmt.Errorf("%w: cannot simulate for %g ms", ErrInvalidParam, dur)
	}
	rg.time += dur
	rg.nMutate++
	return nil
}
