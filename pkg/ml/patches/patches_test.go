// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package patches

import (
	"fmt"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/patchgan/patchgan/pkg/core/tensors/images"
	"github.com/patchgan/patchgan/pkg/support/xslices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// iotaBatch returns a batch with distinct values 0, 1, 2, ... in row-major order.
func iotaBatch(dims ...int) *tensors.Tensor {
	t := tensors.FromShape(shapes.Make(dtypes.Float32, dims...))
	t.MutableFlatData(func(flat []float32) {
		for ii := range flat {
			flat[ii] = float32(ii)
		}
	})
	return t
}

func TestCompute(t *testing.T) {
	g, err := Compute([]int{3, 256, 256}, Size{64, 64}, images.ChannelsFirst)
	require.NoError(t, err)
	assert.Equal(t, 16, g.Count)
	assert.Equal(t, []int{3, 64, 64}, g.PatchShape)
	assert.Equal(t, Size{64, 64}, g.PatchSize())

	g, err = Compute([]int{256, 128, 1}, Size{32, 64}, images.ChannelsLast)
	require.NoError(t, err)
	assert.Equal(t, 8, g.Rows)
	assert.Equal(t, 2, g.Cols)
	assert.Equal(t, 16, g.Count)
	assert.Equal(t, []int{32, 64, 1}, g.PatchShape)
	assert.Equal(t, Size{32, 64}, g.PatchSize())
	assert.Equal(t, "16 patches (8x2 grid) of [32 64 1] (channels_last)", g.String())
}

func TestComputeErrors(t *testing.T) {
	_, err := Compute([]int{3, 256, 250}, Size{64, 64}, images.ChannelsFirst)
	require.ErrorIs(t, err, ErrIndivisiblePatchSize)
	_, err = Compute([]int{3, 32, 32}, Size{64, 64}, images.ChannelsFirst)
	require.ErrorIs(t, err, ErrIndivisiblePatchSize)
	_, err = Compute([]int{3, 256, 256}, Size{0, 64}, images.ChannelsFirst)
	require.ErrorIs(t, err, ErrInvalidPatchSize)
	_, err = Compute([]int{3, 256, 256}, Size{64, 64}, images.ChannelsAxisConfig(3))
	require.ErrorIs(t, err, images.ErrInvalidLayout)
	_, err = Compute([]int{256, 256}, Size{64, 64}, images.ChannelsLast)
	require.Error(t, err)
}

func TestGeometryArea(t *testing.T) {
	for _, layout := range images.ChannelsAxisConfigValues() {
		for _, hw := range [][2]int{{8, 8}, {12, 18}, {64, 32}} {
			for _, patch := range []Size{{1, 1}, {2, 3}, {4, 2}} {
				if hw[0]%patch[0] != 0 || hw[1]%patch[1] != 0 {
					continue
				}
				dims := []int{2, hw[0], hw[1]}
				if layout == images.ChannelsLast {
					dims = []int{hw[0], hw[1], 2}
				}
				g, err := Compute(dims, patch, layout)
				require.NoError(t, err)
				assert.Equal(t, xslices.Product(dims), g.Count*xslices.Product(g.PatchShape))
			}
		}
	}
}

func TestExtractChannelsFirst(t *testing.T) {
	batch := iotaBatch(2, 3, 4, 6)
	patches, err := Extract(batch, images.ChannelsFirst, Size{2, 3})
	require.NoError(t, err)
	require.Len(t, patches, 4)
	for _, p := range patches {
		require.NoError(t, p.Shape().Check(dtypes.Float32, 2, 3, 2, 3))
	}
	// Row-major over the tile grid: patch #1 is row 0, col 1; patch #2 is row 1, col 0.
	assert.Equal(t, batch.Value(1, 2, 0, 3), patches[1].Value(1, 2, 0, 0))
	assert.Equal(t, batch.Value(0, 1, 2, 0), patches[2].Value(0, 1, 0, 0))
	assert.Equal(t, batch.Value(1, 0, 3, 5), patches[3].Value(1, 0, 1, 2))
}

func TestExtractChannelsLast(t *testing.T) {
	batch := iotaBatch(1, 4, 4, 2)
	patches, err := Extract(batch, images.ChannelsLast, Size{2, 2})
	require.NoError(t, err)
	require.Len(t, patches, 4)
	for _, p := range patches {
		require.NoError(t, p.Shape().Check(dtypes.Float32, 1, 2, 2, 2))
	}
	// Pixel (row=2, col=1) lands in patch #2 (tile row 1, tile col 0) at (0, 1).
	assert.Equal(t, batch.Value(0, 2, 1, 1), patches[2].Value(0, 0, 1, 1))
}

func TestExtractAssembleRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		dims   []int
		layout images.ChannelsAxisConfig
		patch  Size
	}{
		{[]int{2, 3, 8, 8}, images.ChannelsFirst, Size{4, 4}},
		{[]int{3, 6, 9, 1}, images.ChannelsLast, Size{3, 3}},
		{[]int{1, 1, 4, 6}, images.ChannelsFirst, Size{1, 6}},
		{[]int{2, 4, 4, 3}, images.ChannelsLast, Size{4, 4}},
	} {
		t.Run(fmt.Sprintf("%v-%s-%s", tc.dims, tc.layout, tc.patch), func(t *testing.T) {
			batch := iotaBatch(tc.dims...)
			patches, err := Extract(batch, tc.layout, tc.patch)
			require.NoError(t, err)
			g := must.M1(Compute(tc.dims[1:], tc.patch, tc.layout))
			require.Len(t, patches, g.Count)
			assembled, err := Assemble(patches, tc.layout, tc.dims[1:])
			require.NoError(t, err)
			assert.True(t, batch.Equal(assembled), "assembled: %s", assembled)
		})
	}
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(iotaBatch(1, 3, 10, 8), images.ChannelsFirst, Size{4, 4})
	require.ErrorIs(t, err, ErrIndivisiblePatchSize)
	_, err = Extract(iotaBatch(1, 8, 8, 3), images.ChannelsAxisConfig(2), Size{4, 4})
	require.ErrorIs(t, err, images.ErrInvalidLayout)
	_, err = Extract(iotaBatch(8, 8, 3), images.ChannelsLast, Size{4, 4})
	require.Error(t, err)

	_, err = Assemble(nil, images.ChannelsFirst, []int{3, 8, 8})
	require.Error(t, err)
	patches := must.M1(Extract(iotaBatch(1, 3, 8, 8), images.ChannelsFirst, Size{4, 4}))
	_, err = Assemble(patches[:3], images.ChannelsFirst, []int{3, 8, 8})
	require.Error(t, err)
	_, err = Assemble(patches, images.ChannelsFirst, []int{1, 8, 8})
	require.Error(t, err)
}
