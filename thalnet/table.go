// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thalnet

import (
	"log"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/tcsleep/engine"
)

// ConnTable returns a table with the current synapse parameters of each
// connection, as reported by the engine -- reflects any changes made after
// Build (e.g., by the sleep phase).
func (nt *Network) ConnTable(eng engine.Engine) *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "Connections")
	dt.SetMetaData("desc", "population-level connections and their current synapse parameters")
	sch := etable.Schema{
		{"Conn", etensor.STRING, nil, nil},
		{"Model", etensor.STRING, nil, nil},
		{"Weight", etensor.FLOAT64, nil, nil},
		{"Alpha", etensor.FLOAT64, nil, nil},
		{"WMax", etensor.FLOAT64, nil, nil},
		{"NSyn", etensor.INT64, nil, nil},
	}
	dt.SetFromSchema(sch, len(nt.Conns))
	for row, cn := range nt.Conns {
		st, err := eng.ConnStatus(cn.ID)
		if err != nil {
			log.Println(err)
			continue
		}
		dt.SetCellString("Conn", row, cn.Name())
		dt.SetCellString("Model", row, cn.Syn.ModelName())
		dt.SetCellFloat("Weight", row, st["weight"])
		dt.SetCellFloat("Alpha", row, st["alpha"])
		dt.SetCellFloat("WMax", row, st["Wmax"])
		dt.SetCellFloat("NSyn", row, st["n_synapses"])
	}
	return dt
}

// PopTable returns a table listing the populations and their sizes
func (nt *Network) PopTable() *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "Populations")
	sch := etable.Schema{
		{"Pop", etensor.STRING, nil, nil},
		{"ID", etensor.INT64, nil, nil},
		{"N", etensor.INT64, nil, nil},
	}
	dt.SetFromSchema(sch, int(RolesN))
	for ri := Roles(0); ri < RolesN; ri++ {
		pop := &nt.Pops[ri]
		row := int(ri)
		dt.SetCellString("Pop", row, ri.String())
		dt.SetCellFloat("ID", row, float64(pop.ID))
		dt.SetCellFloat("N", row, float64(pop.N))
	}
	return dt
}
