// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
)

var (
	_ Engine = (*Registry)(nil)
	_ Engine = (*txn)(nil)
)

// Synapse is the per-synapse state that a typical STDP engine keeps,
// used to estimate memory in SizeReport.
type Synapse struct {
	Wt     float64
	Delay  float64
	Kplus  float64
	TLast  float64
	Target int32
	Port   int32
}

// NodeBytes is the estimated per-neuron state size used in SizeReport
const NodeBytes = 32 * 8

// SizeReport returns a string reporting the size of each node collection
// and its outgoing connection groups, and the total estimated memory.
func (rg *Registry) SizeReport() string {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, nd := range rg.nodes {
		nn := nd.N()
		nmem := nn * NodeBytes
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s %3d:\t Nodes: %d\t NodeMem: %v \t Sends To:\n", nd.Model, nd.ID, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, cg := range rg.conns {
			if cg.Send.ID != nd.ID {
				continue
			}
			ns := cg.NSyn
			syn += ns
			pmem := ns * int(unsafe.Sizeof(Synapse{}))
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s %3d:\t Syns: %d\t SynMem: %v\n", rg.nodes[cg.Recv.ID].Model, cg.Recv.ID, ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Nodes: %d\t NodeMem: %v \t Syns: %d \t SynMem: %v\n", "Total", neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}
