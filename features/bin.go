// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package features

import "github.com/emer/etable/norm"

// NBins is the number of levels each descriptor value is binned into
const NBins = 4

// BinThrs are the lower bounds of bins 1..3: a value equal to a threshold
// goes to the upper bin.
var BinThrs = [NBins - 1]float32{0.25, 0.5, 0.75}

// Bin returns the bin of a descriptor value: values below 0 go to bin 0,
// and values above 1 go to the top bin.
func Bin(v float32) int {
	bin := 0
	for _, th := range BinThrs {
		if v >= th {
			bin++
		}
	}
	return bin
}

// BinValues one-hot codes each descriptor value into NBins flags, in order,
// so the result has NBins * len(desc) values with exactly one true per group.
func BinValues(desc []float32) []bool {
	out := make([]bool, NBins*len(desc))
	for i, v := range desc {
		out[i*NBins+Bin(v)] = true
	}
	return out
}

// Mask returns the binary row as a mask, true for values >= 0.5
func Mask(row []float32) []bool {
	bin := make([]float32, len(row))
	copy(bin, row)
	norm.Binarize32(bin, .5, 1, 0)
	mask := make([]bool, len(row))
	for i, v := range bin {
		mask[i] = v == 1
	}
	return mask
}
