// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"iter"

	"github.com/pkg/errors"
)

// Strides returns the strides for each axis of the shape, assuming a "row-major" layout
// in memory, the one used by every tensor.
//
// Notice the strides are **not in bytes**, but in indices.
func (s Shape) Strides() (strides []int) {
	rank := s.Rank()
	if rank == 0 {
		return
	}
	strides = make([]int, rank)
	currentStride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		strides[axis] = currentStride
		currentStride *= s.Dimensions[axis]
	}
	return
}

// Iter iterates sequentially (row-major) over all possible indices of the shape.
//
// It yields the flat index (counter) and a slice of indices for each axis.
//
// The yielded indices slice is owned by the iterator and reused between iterations:
// don't change it inside the loop, and clone it if it needs to be kept.
func (s Shape) Iter() iter.Seq2[int, []int] {
	axes := make([]int, s.Rank())
	for axis := range axes {
		axes[axis] = axis
	}
	return s.IterOnAxes(axes, nil, nil)
}

// IterOnAxes iterates over all possible indices of the given shape's axesToIterate,
// in row-major order (the last of axesToIterate changes fastest).
//
// It yields the flat index of the current position and the indices for all axes of the shape.
// Axes not listed in axesToIterate keep the values given in indices, and they contribute
// to the flat index.
//
// Args:
//   - axesToIterate: axes of the shape to iterate over, each 0 <= axis < rank.
//   - strides: as returned by Shape.Strides(). If nil, they are computed.
//   - indices: slice that will be yielded, with len(indices) == rank. If nil, one is allocated
//     with all zeros.
//
// It panics if strides, indices or axes are inconsistent with the shape: that is a bug in the caller.
func (s Shape) IterOnAxes(axesToIterate, strides, indices []int) iter.Seq2[int, []int] {
	rank := s.Rank()
	if strides == nil {
		strides = s.Strides()
	} else if len(strides) != rank {
		panic(errors.Errorf("Shape.IterOnAxes given len(strides) == %d, want it to be equal to the rank %d", len(strides), rank))
	}
	if indices == nil {
		indices = make([]int, rank)
	} else if len(indices) != rank {
		panic(errors.Errorf("Shape.IterOnAxes given len(indices) == %d, want it to be equal to the rank %d", len(indices), rank))
	}
	for _, axis := range axesToIterate {
		if axis < 0 || axis >= rank {
			panic(errors.Errorf("Shape.IterOnAxes: invalid axis %d, must be 0 <= axis < rank (%d)", axis, rank))
		}
	}

	return func(yield func(int, []int) bool) {
		if !s.Ok() {
			return
		}
		for _, axis := range axesToIterate {
			if s.Dimensions[axis] <= 0 {
				return
			}
			indices[axis] = 0
		}
		flatIdx := 0
		for axis := range rank {
			flatIdx += indices[axis] * strides[axis]
		}

	odometer:
		for {
			if !yield(flatIdx, indices) {
				return
			}
			for ii := len(axesToIterate) - 1; ii >= 0; ii-- {
				axis := axesToIterate[ii]
				indices[axis]++
				flatIdx += strides[axis]
				if indices[axis] < s.Dimensions[axis] {
					continue odometer
				}
				// Carry over to the next axis.
				flatIdx -= indices[axis] * strides[axis]
				indices[axis] = 0
			}
			return
		}
	}
}
