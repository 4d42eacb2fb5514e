// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"slices"

	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Transpose returns a new tensor with the axes permuted: output axis i is the input axis permutation[i].
//
// It returns an error if permutation is not a permutation of the axes of t.
func (t *Tensor) Transpose(permutation ...int) (*Tensor, error) {
	if err := t.CheckValid(); err != nil {
		return nil, err
	}
	rank := t.Rank()
	if len(permutation) != rank {
		return nil, errors.Errorf("Transpose(%v) of tensor shaped %s: wanted %d axes in the permutation", permutation, t.shape, rank)
	}
	seen := make([]bool, rank)
	outDims := make([]int, rank)
	for ii, axis := range permutation {
		if axis < 0 || axis >= rank || seen[axis] {
			return nil, errors.Errorf("Transpose(%v) of tensor shaped %s: invalid permutation", permutation, t.shape)
		}
		seen[axis] = true
		outDims[ii] = t.shape.Dimensions[axis]
	}
	output := FromShape(shapes.Make(dtypes.Float32, outDims...))
	if rank == 0 {
		copy(output.flat, t.flat)
		return output, nil
	}

	// Input strides, reordered to follow the output axes.
	inStrides := t.shape.Strides()
	permStrides := make([]int, rank)
	for ii, axis := range permutation {
		permStrides[ii] = inStrides[axis]
	}
	for outIdx, indices := range output.shape.Iter() {
		inIdx := 0
		for axis, idx := range indices {
			inIdx += idx * permStrides[axis]
		}
		output.flat[outIdx] = t.flat[inIdx]
	}
	return output, nil
}

// checkBlock validates a block given by its starts and sizes (one per axis) against the shape.
func checkBlock(shape shapes.Shape, starts, sizes []int) error {
	rank := shape.Rank()
	if len(starts) != rank || len(sizes) != rank {
		return errors.Errorf("block with starts=%v and sizes=%v doesn't match the rank of shape %s", starts, sizes, shape)
	}
	for axis := range rank {
		if sizes[axis] <= 0 || starts[axis] < 0 || starts[axis]+sizes[axis] > shape.Dimensions[axis] {
			return errors.Errorf("block with starts=%v and sizes=%v is out-of-bounds for shape %s (axis #%d)",
				starts, sizes, shape, axis)
		}
	}
	return nil
}

// copyBlock copies a block of size blockDims from src (starting at srcStarts) into dst (starting at dstStarts).
// Both tensors must have the same rank and the block must fit in both.
func copyBlock(dst *Tensor, dstStarts []int, src *Tensor, srcStarts []int, blockDims []int) {
	rank := len(blockDims)
	if rank == 0 {
		dst.flat[0] = src.flat[0]
		return
	}
	srcStrides := src.shape.Strides()
	dstStrides := dst.shape.Strides()
	srcBase, dstBase := 0, 0
	for axis := range rank {
		srcBase += srcStarts[axis] * srcStrides[axis]
		dstBase += dstStarts[axis] * dstStrides[axis]
	}

	// Iterate over all but the last axis, and copy contiguous rows of the last axis.
	rowLen := blockDims[rank-1]
	outerShape := shapes.Shape{DType: dtypes.Float32, Dimensions: slices.Clone(blockDims)}
	outerShape.Dimensions[rank-1] = 1
	for _, indices := range outerShape.Iter() {
		srcIdx, dstIdx := srcBase, dstBase
		for axis := range rank - 1 {
			srcIdx += indices[axis] * srcStrides[axis]
			dstIdx += indices[axis] * dstStrides[axis]
		}
		copy(dst.flat[dstIdx:dstIdx+rowLen], src.flat[srcIdx:srcIdx+rowLen])
	}
}

// Slice returns a copy of the block of t that starts at starts and has dimensions sizes,
// one value per axis.
func (t *Tensor) Slice(starts, sizes []int) (*Tensor, error) {
	if err := t.CheckValid(); err != nil {
		return nil, err
	}
	if err := checkBlock(t.shape, starts, sizes); err != nil {
		return nil, errors.WithMessage(err, "Tensor.Slice")
	}
	output := FromShape(shapes.Make(dtypes.Float32, sizes...))
	copyBlock(output, make([]int, len(sizes)), t, starts, sizes)
	return output, nil
}

// SetSlice copies all of src into t, with src's first element landing at starts.
// src must have the same rank as t, and it must fit in t.
//
// This is the only operation that modifies its receiver.
func (t *Tensor) SetSlice(starts []int, src *Tensor) error {
	if err := t.CheckValid(); err != nil {
		return err
	}
	if err := src.CheckValid(); err != nil {
		return errors.WithMessage(err, "Tensor.SetSlice source")
	}
	if err := checkBlock(t.shape, starts, src.shape.Dimensions); err != nil {
		return errors.WithMessage(err, "Tensor.SetSlice")
	}
	copyBlock(t, starts, src, make([]int, src.Rank()), src.shape.Dimensions)
	return nil
}

// Gather returns a new tensor with the given indices of the leading axis (axis 0), in the order given.
// Indices may repeat.
func (t *Tensor) Gather(indices []int) (*Tensor, error) {
	if err := t.CheckValid(); err != nil {
		return nil, err
	}
	if t.Rank() == 0 {
		return nil, errors.Errorf("Tensor.Gather: cannot gather from a scalar")
	}
	if len(indices) == 0 {
		return nil, errors.Errorf("Tensor.Gather: no indices given for tensor shaped %s", t.shape)
	}
	numExamples := t.shape.Dimensions[0]
	exampleSize := t.Size() / numExamples
	dims := slices.Clone(t.shape.Dimensions)
	dims[0] = len(indices)
	output := FromShape(shapes.Make(dtypes.Float32, dims...))
	for ii, idx := range indices {
		if idx < 0 || idx >= numExamples {
			return nil, errors.Errorf("Tensor.Gather: index %d out-of-bounds for tensor shaped %s", idx, t.shape)
		}
		copy(output.flat[ii*exampleSize:(ii+1)*exampleSize], t.flat[idx*exampleSize:(idx+1)*exampleSize])
	}
	return output, nil
}

// Apply returns a new tensor with fn applied to every element of t.
func (t *Tensor) Apply(fn func(float32) float32) *Tensor {
	t.AssertValid()
	output := &Tensor{shape: t.shape.Clone(), flat: make([]float32, len(t.flat))}
	for ii, v := range t.flat {
		output.flat[ii] = fn(v)
	}
	return output
}
