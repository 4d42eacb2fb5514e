// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implement a `Tensor`, a representation of a multidimensional array held
// in host memory.
//
// Every Tensor holds Float32 values in a flat, row-major slice. Raw values read from a
// dataset store in other dtypes are decoded when the tensor is created (see dtypes.DecodeFloat32).
//
// There are various ways to construct a Tensor:
//
//   - FromShape(shape shapes.Shape): creates a tensor with the given shape, and zero values.
//
//   - FromScalarAndDimensions(value float32, dimensions ...int): creates a Tensor with the
//     given dimensions, filled with the scalar value given.
//
//   - FromFlatDataAndDimensions(data []float32, dimensions ...int): creates a Tensor with the
//     given dimensions and set the flattened values with the given data. Example:
//
//     t := FromFlatDataAndDimensions([]float32{1, 2, 3, 4}, 2, 2}) // Tensor with [[1,2], [3,4]]
//
// Operations (Transpose, Slice, Gather, Apply) never modify their receiver: they return new tensors.
// SetSlice is the only mutating operation, and it is meant to fill freshly created tensors.
//
// A Tensor is not safe for concurrent mutation; concurrent reads are fine.
package tensors

import (
	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Tensor represents a multidimensional array, defined by its shape and its content stored as a flat
// (1D) slice of float32 values, in row-major order.
type Tensor struct {
	// shape of the tensor, immutable.
	shape shapes.Shape

	// flat holds the values, len(flat) == shape.Size().
	flat []float32
}

// Shape of the tensor, includes DType.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType returns the DType of the tensor's shape, always dtypes.Float32 for valid tensors.
func (t *Tensor) DType() dtypes.DType {
	if t == nil {
		return dtypes.InvalidDType
	}
	return t.shape.DType
}

// Rank returns the rank of the tensor's shape.
// It is a shortcut to `Tensor.Shape().Rank()`.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size returns the number of elements in the tensor.
// It is a shortcut to `Tensor.Shape().Size()`.
func (t *Tensor) Size() int { return t.shape.Size() }

// Memory returns the number of bytes used to store the tensor. An alias to Tensor.Shape().Memory().
func (t *Tensor) Memory() uintptr { return t.shape.Memory() }

// Ok returns whether the Tensor is in a valid state.
func (t *Tensor) Ok() bool {
	return t != nil && t.shape.Ok() && len(t.flat) == t.shape.Size()
}

// CheckValid returns an error if it's nil or if its shape is invalid.
func (t *Tensor) CheckValid() error {
	if t == nil {
		return errors.New("Tensor is nil")
	}
	if !t.shape.Ok() {
		return errors.New("Tensor shape is invalid")
	}
	if len(t.flat) != t.shape.Size() {
		return errors.Errorf("Tensor with shape %s holds %d values, wanted %d", t.shape, len(t.flat), t.shape.Size())
	}
	return nil
}

// AssertValid panics if it's nil or if its shape is invalid.
func (t *Tensor) AssertValid() {
	err := t.CheckValid()
	if err != nil {
		panic(err)
	}
}

// NumExamples returns the dimension of the leading (batch) axis.
// It returns 0 for scalars.
func (t *Tensor) NumExamples() int {
	if t.Rank() == 0 {
		return 0
	}
	return t.shape.Dimensions[0]
}
