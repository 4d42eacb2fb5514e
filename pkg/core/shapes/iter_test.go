// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"slices"
	"testing"

	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape_Strides(t *testing.T) {
	shape := Make(dtypes.Float32, 2, 3, 4)
	require.Equal(t, []int{12, 4, 1}, shape.Strides())

	shape = Make(dtypes.Float32, 5)
	require.Equal(t, []int{1}, shape.Strides())

	shape = Make(dtypes.Float32, 3, 1, 2)
	require.Equal(t, []int{2, 2, 1}, shape.Strides())

	require.Nil(t, Make(dtypes.Float32).Strides())
}

func TestShape_Iter(t *testing.T) {
	shape := Make(dtypes.Float32, 1, 1, 1)
	var collect [][]int
	for flatIdx, indices := range shape.Iter() {
		require.Equal(t, 0, flatIdx)
		collect = append(collect, slices.Clone(indices))
	}
	require.Equal(t, [][]int{{0, 0, 0}}, collect)

	shape = Make(dtypes.Float64, 3, 2)
	collect = nil
	counter := 0
	for flatIdx, indices := range shape.Iter() {
		require.Equal(t, counter, flatIdx)
		collect = append(collect, slices.Clone(indices))
		counter++
	}
	require.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}, collect)

	// Scalars yield exactly once.
	counter = 0
	for range Make(dtypes.Float32).Iter() {
		counter++
	}
	require.Equal(t, 1, counter)

	// Early termination.
	counter = 0
	for range Make(dtypes.Float32, 10, 10).Iter() {
		counter++
		if counter == 7 {
			break
		}
	}
	require.Equal(t, 7, counter)
}

func TestShape_IterOnAxes(t *testing.T) {
	shape := Make(dtypes.Float32, 2, 3, 4)
	indices := make([]int, shape.Rank())
	indices[1] = 1
	var flats []int
	var collect [][]int
	for flatIdx, indices := range shape.IterOnAxes([]int{0, 2}, nil, indices) {
		flats = append(flats, flatIdx)
		collect = append(collect, slices.Clone(indices))
	}
	require.Len(t, collect, 8)
	require.Equal(t, []int{0, 1, 0}, collect[0])
	require.Equal(t, []int{0, 1, 3}, collect[3])
	require.Equal(t, []int{1, 1, 0}, collect[4])
	require.Equal(t, []int{4, 5, 6, 7, 16, 17, 18, 19}, flats)

	require.Panics(t, func() { shape.IterOnAxes([]int{3}, nil, nil) })
	require.Panics(t, func() { shape.IterOnAxes([]int{0}, nil, []int{0}) })
}
