// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"

	"github.com/emer/emergent/params"
	"github.com/emer/tcsleep/probe"
	"github.com/emer/tcsleep/stimulus"
	"github.com/emer/tcsleep/thalnet"
)

// Config has all the parameters of a protocol run.  It is a params.Styler
// with type name "Config", so params.Sets with a "Config" sheet can set
// any of its fields by path, e.g., "Config.Stim.Cycle.Spacing".
type Config struct {
	Version  string          `desc:"name of the ParamSet applied on top of Base"`
	Groups   int             `def:"0" min:"0" desc:"number of images (cortical groups) to train on -- 0 = all the images given"`
	Retrieve bool            `def:"true" desc:"run the awake retrieval phase, presenting each training image again"`
	Sleep    bool            `def:"true" desc:"run the sleep phase"`
	Net      thalnet.Params  `view:"inline" desc:"network parameters"`
	Stim     stimulus.Params `view:"inline" desc:"stimulus parameters"`
	Probe    probe.Params    `view:"inline" desc:"recording parameters"`
}

func (cf *Config) Defaults() {
	cf.Version = "Base"
	cf.Groups = 0
	cf.Retrieve = true
	cf.Sleep = true
	cf.Net.Defaults()
	cf.Stim.Defaults()
	cf.Probe.Defaults()
}

// NewConfig returns a default Config
func NewConfig() *Config {
	cf := &Config{}
	cf.Defaults()
	return cf
}

func (cf *Config) TypeName() string { return "Config" }
func (cf *Config) Class() string    { return "" }
func (cf *Config) Name() string     { return cf.Version }

// Validate checks all the parameters, returning an ErrInvalidConfig error
// for the first problem found.
func (cf *Config) Validate() error {
	if cf.Groups < 0 {
		return fmt.Errorf("%w: number of groups must be non-negative, got %d", thalnet.ErrInvalidConfig, cf.Groups)
	}
	if err := cf.Net.Validate(); err != nil {
		return err
	}
	if err := cf.Stim.Validate(); err != nil {
		return err
	}
	return cf.Probe.Validate()
}

// ApplyParams applies the "Config" sheet of the "Base" set and then of the
// named set (if different) from sets.
// if setMsg = true then we output a message for each param that was set.
func (cf *Config) ApplyParams(sets params.Sets, name string, setMsg bool) error {
	if name == "" {
		name = "Base"
	}
	if err := cf.applySet(sets, "Base", setMsg); err != nil {
		return err
	}
	if name != "Base" {
		if err := cf.applySet(sets, name, setMsg); err != nil {
			return err
		}
	}
	cf.Version = name
	return nil
}

func (cf *Config) applySet(sets params.Sets, name string, setMsg bool) error {
	pset, err := sets.SetByNameTry(name)
	if err != nil {
		return fmt.Errorf("%w: %v", thalnet.ErrInvalidConfig, err)
	}
	if sheet, ok := pset.Sheets["Config"]; ok {
		if _, err := sheet.Apply(cf, setMsg); err != nil {
			return fmt.Errorf("%w: ParamSet %s: %v", thalnet.ErrInvalidConfig, name, err)
		}
	}
	return nil
}
