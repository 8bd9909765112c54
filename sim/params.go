// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/emer/emergent/params"

// ParamSets are the protocol versions -- Base is always applied, and the
// others apply on top of it.  Base is the canonical timing: every signal
// lasts 450 ms within a 900 ms cycle, with 0.1 ms guards at both ends.
var ParamSets = params.Sets{
	{Name: "Base", Desc: "canonical protocol: 2x cycle spacing, sinusoidal sleep noise to cortex and interneurons", Sheets: params.Sheets{
		"Config": &params.Sheet{
			{Sel: "Config", Desc: "canonical cycle timing",
				Params: params.Params{
					"Config.Stim.Cycle.Base":    "450",
					"Config.Stim.Cycle.Spacing": "2",
					"Config.Stim.Cycle.Eps":     "0.1",
				}},
		},
	}},
	{Name: "V1", Desc: "first version: stronger training input, plain Poisson sleep noise to cortex only", Sheets: params.Sheets{
		"Config": &params.Sheet{
			{Sel: "Config", Desc: "training weight 8, plain sleep generator",
				Params: params.Params{
					"Config.Stim.Train.Weight":     "8",
					"Config.Stim.Sleep.Sinusoidal": "false",
					"Config.Stim.Sleep.ToInhib":    "false",
				}},
		},
	}},
	{Name: "V2", Desc: "longer training signal extending past the context", Sheets: params.Sheets{
		"Config": &params.Sheet{
			{Sel: "Config", Desc: "650 ms training signal, plain sleep generator",
				Params: params.Params{
					"Config.Stim.Train.Dur":        "650",
					"Config.Stim.Sleep.Sinusoidal": "false",
				}},
		},
	}},
	{Name: "V3", Desc: "compressed cycles: period 1.34x the context duration", Sheets: params.Sheets{
		"Config": &params.Sheet{
			{Sel: "Config", Desc: "spacing 1.34, wider guards",
				Params: params.Params{
					"Config.Stim.Cycle.Spacing": "1.34",
					"Config.Stim.Cycle.Eps":     "1",
				}},
		},
	}},
	{Name: "V4", Desc: "sleep also weakens recurrent interneuron and reticular inhibition", Sheets: params.Sheets{
		"Config": &params.Sheet{
			{Sel: "Config", Desc: "In->In and Re->Re rewrites during sleep",
				Params: params.Params{
					"Config.Stim.Sleep.RewriteInIn": "true",
					"Config.Stim.Sleep.InIn":        "-0.5",
					"Config.Stim.Sleep.RewriteReRe": "true",
					"Config.Stim.Sleep.ReRe":        "-0.5",
				}},
		},
	}},
	{Name: "V5", Desc: "final version, an alias of Base: sinusoidal sleep generator sending one spike train to all targets", Sheets: params.Sheets{
		"Config": &params.Sheet{
			{Sel: "Config", Desc: "restates the Base sleep generator settings, so V5 runs the Base configuration",
				Params: params.Params{
					"Config.Stim.Sleep.Sinusoidal": "true",
					"Config.Stim.Sleep.ToInhib":    "true",
				}},
		},
	}},
}
