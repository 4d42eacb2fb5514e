// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package patches tiles batches of images into non-overlapping fixed-size patches, for patch-based
// discriminators, and assembles them back.
//
// Patches are ordered row-major over the tile grid: all the column tiles of the first row of tiles, then
// the ones of the second row, etc. Each patch holds the tile of every example in the batch, so a batch
// shaped `[N, C, H, W]` (ChannelsFirst) cut in patches of `[h, w]` yields `(H/h) * (W/w)` tensors
// shaped `[N, C, h, w]`.
//
// Image dimensions must be exact multiples of the patch size: ragged edge tiles are rejected with
// ErrIndivisiblePatchSize rather than truncated.
package patches

import (
	"fmt"

	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/patchgan/patchgan/pkg/core/tensors/images"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	// ErrIndivisiblePatchSize is returned when the image height or width is not a multiple of the patch size.
	ErrIndivisiblePatchSize = errors.New("image dimensions not divisible by patch size")

	// ErrInvalidPatchSize is returned for non-positive patch dimensions.
	ErrInvalidPatchSize = errors.New("invalid patch size")
)

// Size of a patch, as {height, width}.
type Size [2]int

// String implements fmt.Stringer.
func (s Size) String() string { return fmt.Sprintf("%dx%d", s[0], s[1]) }

// Geometry of the tiling of an image in patches.
type Geometry struct {
	// Count is the number of patches, Rows * Cols.
	Count int

	// Rows and Cols of the grid of tiles.
	Rows, Cols int

	// PatchShape is the shape of one patch of one image, in the layout of the image:
	// `[channels, height, width]` or `[height, width, channels]`.
	PatchShape []int

	Layout images.ChannelsAxisConfig
}

// String implements fmt.Stringer.
func (g Geometry) String() string {
	return fmt.Sprintf("%d patches (%dx%d grid) of %v (%s)", g.Count, g.Rows, g.Cols, g.PatchShape, g.Layout)
}

// Compute the Geometry of tiling an image with the given dimensions (without the batch axis: rank 3,
// `[channels, height, width]` or `[height, width, channels]` depending on the layout) in patches of
// patchSize.
//
// It returns an error wrapping images.ErrInvalidLayout if the layout is not valid,
// ErrInvalidPatchSize if a patch dimension is not positive, and ErrIndivisiblePatchSize if the image
// height or width is not a multiple of the corresponding patch dimension.
func Compute(imageDims []int, patchSize Size, layout images.ChannelsAxisConfig) (g Geometry, err error) {
	if err = layout.Check(); err != nil {
		return
	}
	if len(imageDims) != 3 {
		return g, errors.Errorf("patches.Compute: image dimensions %v must have rank 3 (no batch axis)", imageDims)
	}
	var channels, height, width int
	if layout == images.ChannelsFirst {
		channels, height, width = imageDims[0], imageDims[1], imageDims[2]
	} else {
		height, width, channels = imageDims[0], imageDims[1], imageDims[2]
	}
	if channels <= 0 || height <= 0 || width <= 0 {
		return g, errors.Errorf("patches.Compute: invalid image dimensions %v", imageDims)
	}
	if patchSize[0] <= 0 || patchSize[1] <= 0 {
		return g, errors.Wrapf(ErrInvalidPatchSize, "patch size %s", patchSize)
	}
	if height%patchSize[0] != 0 || width%patchSize[1] != 0 {
		return g, errors.Wrapf(ErrIndivisiblePatchSize, "image %v (%s), patch size %s", imageDims, layout, patchSize)
	}
	g = Geometry{
		Rows:   height / patchSize[0],
		Cols:   width / patchSize[1],
		Layout: layout,
	}
	g.Count = g.Rows * g.Cols
	if layout == images.ChannelsFirst {
		g.PatchShape = []int{channels, patchSize[0], patchSize[1]}
	} else {
		g.PatchShape = []int{patchSize[0], patchSize[1], channels}
	}
	return g, nil
}

// PatchSize returns the {height, width} of the patches.
func (g Geometry) PatchSize() Size {
	if g.Layout == images.ChannelsFirst {
		return Size{g.PatchShape[1], g.PatchShape[2]}
	}
	return Size{g.PatchShape[0], g.PatchShape[1]}
}

// Extract slices a batch of images, shaped `[N, C, H, W]` or `[N, H, W, C]` depending on the layout, into
// patches of patchSize. See package documentation for the order of the patches.
//
// The patches are returned in the same layout as the batch.
// The batch is validated with Compute first, and its errors are returned.
func Extract(batch *tensors.Tensor, layout images.ChannelsAxisConfig, patchSize Size) ([]*tensors.Tensor, error) {
	if err := batch.CheckValid(); err != nil {
		return nil, errors.WithMessage(err, "patches.Extract")
	}
	if batch.Rank() != 4 {
		return nil, errors.Errorf("patches.Extract: batch shaped %s, wanted rank 4", batch.Shape())
	}
	g, err := Compute(batch.Shape().Dimensions[1:], patchSize, layout)
	if err != nil {
		return nil, err
	}

	// Tiles are cut in the channels-last layout.
	last, err := images.ToChannelsLast(batch, layout)
	if err != nil {
		return nil, err
	}
	d, err := images.GetDims(last, images.ChannelsLast)
	if err != nil {
		return nil, err
	}
	sizes := []int{d.BatchSize, patchSize[0], patchSize[1], d.Channels}
	patches := make([]*tensors.Tensor, 0, g.Count)
	for row := range g.Rows {
		for col := range g.Cols {
			tile, err := last.Slice([]int{0, row * patchSize[0], col * patchSize[1], 0}, sizes)
			if err != nil {
				return nil, errors.WithMessagef(err, "patches.Extract tile (%d, %d)", row, col)
			}
			tile, err = images.FromChannelsLast(tile, layout)
			if err != nil {
				return nil, err
			}
			patches = append(patches, tile)
		}
	}
	if klog.V(3).Enabled() {
		klog.Infof("patches.Extract: batch %s -> %s", batch.Shape(), g)
	}
	return patches, nil
}

// Assemble is the inverse of Extract: it places the patches back in a batch of images with the
// given dimensions (without the batch axis, in the given layout).
//
// All patches must have the same shape, matching the geometry, and be in the order returned by Extract.
func Assemble(patches []*tensors.Tensor, layout images.ChannelsAxisConfig, imageDims []int) (*tensors.Tensor, error) {
	if len(patches) == 0 {
		return nil, errors.New("patches.Assemble: no patches given")
	}
	first := patches[0]
	if err := first.CheckValid(); err != nil {
		return nil, errors.WithMessage(err, "patches.Assemble")
	}
	pd, err := images.GetDims(first, layout)
	if err != nil {
		return nil, errors.WithMessage(err, "patches.Assemble")
	}
	patchSize := Size{pd.Height, pd.Width}
	g, err := Compute(imageDims, patchSize, layout)
	if err != nil {
		return nil, err
	}
	if len(patches) != g.Count {
		return nil, errors.Errorf("patches.Assemble: got %d patches, geometry %s", len(patches), g)
	}

	outDims := append([]int{pd.BatchSize}, imageDims...)
	od, err := images.GetDims(shapes.Make(dtypes.Float32, outDims...), layout)
	if err != nil {
		return nil, err
	}
	if od.Channels != pd.Channels {
		return nil, errors.Errorf("patches.Assemble: patches have %d channels, image dimensions %v", pd.Channels, imageDims)
	}
	output := tensors.FromScalarAndDimensions(0, od.Shape(images.ChannelsLast)...)
	for ii, patch := range patches {
		if !patch.Shape().Equal(first.Shape()) {
			return nil, errors.Errorf("patches.Assemble: patch #%d shaped %s, but patch #0 shaped %s",
				ii, patch.Shape(), first.Shape())
		}
		tile, err := images.ToChannelsLast(patch, layout)
		if err != nil {
			return nil, err
		}
		row, col := ii/g.Cols, ii%g.Cols
		if err = output.SetSlice([]int{0, row * patchSize[0], col * patchSize[1], 0}, tile); err != nil {
			return nil, errors.WithMessagef(err, "patches.Assemble patch #%d", ii)
		}
	}
	return images.FromChannelsLast(output, layout)
}
