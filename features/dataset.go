// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package features

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/vision/vfilter"
)

// FromImage returns the grayscale [rows, cols] tensor of an image, resized
// to size first if needed.  Row 0 is the top of the image.
func FromImage(img image.Image, size image.Point) *etensor.Float32 {
	if img.Bounds().Size() != size {
		img = transform.Resize(img, size.X, size.Y, transform.Linear)
	}
	tsr := &etensor.Float32{}
	vfilter.RGBToGrey(img, tsr, 0, true)
	return tsr
}

// ProcessDataset extracts and bins the features of each image in a
// [n, rows, cols] tensor, returning a [n, features] tensor of 0 / 1 values
// with rows in image order.
func ProcessDataset(imgs *etensor.Float32) (*etensor.Float32, error) {
	return NewParams().ProcessDataset(imgs)
}

// ProcessDataset extracts and bins the features of each image in a
// [n, rows, cols] tensor, returning a [n, features] tensor of 0 / 1 values
// with rows in image order.  Images are processed in parallel, one per
// worker at a time, up to the number of CPUs.
func (hp *Params) ProcessDataset(imgs *etensor.Float32) (*etensor.Float32, error) {
	if imgs == nil || imgs.NumDims() != 3 {
		return nil, fmt.Errorf("%w: dataset must be a 3D [images, rows, cols] tensor", ErrInvalidInput)
	}
	n, rows, cols := imgs.Dim(0), imgs.Dim(1), imgs.Dim(2)
	if err := hp.Check(rows, cols); err != nil {
		return nil, err
	}
	nf := NBins * hp.DescLen(rows, cols)
	out := etensor.NewFloat32([]int{n, nf}, nil, []string{"Image", "Feature"})
	errs := make([]error, n)

	nw := runtime.NumCPU()
	if nw > n {
		nw = n
	}
	idxs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxs {
				errs[i] = hp.processImage(imgs, i, out.Values[i*nf:(i+1)*nf])
			}
		}()
	}
	for i := 0; i < n; i++ {
		idxs <- i
	}
	close(idxs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
	}
	return out, nil
}

// processImage writes the binned features of image i into row
func (hp *Params) processImage(imgs *etensor.Float32, i int, row []float32) error {
	rows, cols := imgs.Dim(1), imgs.Dim(2)
	sz := rows * cols
	img := etensor.NewFloat32([]int{rows, cols}, nil, nil)
	copy(img.Values, imgs.Values[i*sz:(i+1)*sz])
	desc, _, err := hp.Extract(img)
	if err != nil {
		return err
	}
	for j, on := range BinValues(desc) {
		if on {
			row[j] = 1
		}
	}
	return nil
}

// RowMask returns row i of a [n, features] dataset as a mask
func RowMask(mat *etensor.Float32, i int) []bool {
	nf := mat.Dim(1)
	return Mask(mat.Values[i*nf : (i+1)*nf])
}

// DatasetTable returns a table with one row per image of a [n, features]
// dataset, with the image index and its features.
func DatasetTable(name string, mat *etensor.Float32) *etable.Table {
	n, nf := mat.Dim(0), mat.Dim(1)
	dt := &etable.Table{}
	dt.SetMetaData("name", name)
	dt.SetMetaData("desc", "binned HOG features of each image")
	sch := etable.Schema{
		{"Index", etensor.INT64, nil, nil},
		{"Features", etensor.FLOAT32, []int{nf}, []string{"Feature"}},
	}
	dt.SetFromSchema(sch, n)
	fcol := dt.ColByName("Features").(*etensor.Float32)
	copy(fcol.Values, mat.Values)
	for i := 0; i < n; i++ {
		dt.SetCellFloat("Index", i, float64(i))
	}
	return dt
}
