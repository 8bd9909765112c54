// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stimulus

import (
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Table returns a table of all generators, in Generators order
func (sc *Scheduler) Table() *etable.Table {
	gs := sc.Generators()
	dt := &etable.Table{}
	dt.SetMetaData("name", "Generators")
	dt.SetMetaData("desc", "stimulus generators and their current schedules")
	dt.SetMetaData("read-only", "true")
	sch := etable.Schema{
		{"Kind", etensor.STRING, nil, nil},
		{"Idx", etensor.INT64, nil, nil},
		{"ID", etensor.INT64, nil, nil},
		{"Model", etensor.STRING, nil, nil},
		{"Rate", etensor.FLOAT64, nil, nil},
		{"Start", etensor.FLOAT64, nil, nil},
		{"Stop", etensor.FLOAT64, nil, nil},
		{"Weight", etensor.FLOAT64, nil, nil},
		{"NTargets", etensor.INT64, nil, nil},
	}
	dt.SetFromSchema(sch, len(gs))
	for row := range gs {
		gn := &gs[row]
		dt.SetCellString("Kind", row, gn.Kind.String())
		dt.SetCellFloat("Idx", row, float64(gn.Idx))
		dt.SetCellFloat("ID", row, float64(gn.ID))
		dt.SetCellString("Model", row, gn.Model)
		dt.SetCellFloat("Rate", row, gn.Rate)
		dt.SetCellFloat("Start", row, gn.Window.Start)
		dt.SetCellFloat("Stop", row, gn.Window.Stop)
		dt.SetCellFloat("Weight", row, gn.Weight)
		dt.SetCellFloat("NTargets", row, float64(gn.NTargets))
	}
	return dt
}
