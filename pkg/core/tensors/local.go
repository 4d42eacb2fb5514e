// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/pkg/errors"
)

// FromShape returns a Tensor with the given shape, with the data initialized with zeros.
//
// It panics if the shape dtype is not Float32.
func FromShape(shape shapes.Shape) *Tensor {
	if shape.DType != dtypes.Float32 {
		exceptions.Panicf("tensors.FromShape(%s): only %s tensors are supported", shape, dtypes.Float32)
	}
	return &Tensor{
		shape: shape.Clone(),
		flat:  make([]float32, shape.Size()),
	}
}

// FromScalarAndDimensions creates a tensor with the given dimensions, filled with the
// given scalar value replicated everywhere.
func FromScalarAndDimensions(value float32, dimensions ...int) *Tensor {
	t := FromShape(shapes.Make(dtypes.Float32, dimensions...))
	for ii := range t.flat {
		t.flat[ii] = value
	}
	return t
}

// FromFlatDataAndDimensions creates a tensor with the given dimensions, filled with the flattened values given in `data`.
// The data is copied to the Tensor.
//
// It panics if the size of data is wrong for the shape.
func FromFlatDataAndDimensions(data []float32, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypes.Float32, dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf(
			"FromFlatDataAndDimensions(%s): data size is %d, but dimensions size is %d",
			shape, len(data), shape.Size())
	}
	return &Tensor{shape: shape, flat: slices.Clone(data)}
}

// FromRaw creates a tensor with the given dimensions from a raw buffer of values stored in the
// given dtype (native byte order), decoding them to float32.
func FromRaw(raw []byte, dtype dtypes.DType, dimensions ...int) (*Tensor, error) {
	flat, err := dtypes.DecodeFloat32(raw, dtype)
	if err != nil {
		return nil, err
	}
	shape := shapes.Make(dtypes.Float32, dimensions...)
	if len(flat) != shape.Size() {
		return nil, errors.Errorf("tensors.FromRaw(%s): decoded %d values of %s, wanted %d",
			shape, len(flat), dtype, shape.Size())
	}
	return &Tensor{shape: shape, flat: flat}, nil
}

// ConstFlatData calls accessFn with the flat data of the tensor, in row-major order.
//
// The flat slice is owned by the tensor: it must not be modified or kept after accessFn returns.
func (t *Tensor) ConstFlatData(accessFn func(flat []float32)) {
	t.AssertValid()
	accessFn(t.flat)
}

// MutableFlatData calls accessFn with the flat data of the tensor, which may be modified in place.
//
// The flat slice must not be kept after accessFn returns.
func (t *Tensor) MutableFlatData(accessFn func(flat []float32)) {
	t.AssertValid()
	accessFn(t.flat)
}

// CopyFlatData returns a copy of the flat data of the tensor.
func (t *Tensor) CopyFlatData() []float32 {
	t.AssertValid()
	return slices.Clone(t.flat)
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	t.AssertValid()
	return &Tensor{shape: t.shape.Clone(), flat: slices.Clone(t.flat)}
}

// Value returns the element at the given indices, one per axis.
//
// It panics if the number of indices doesn't match the rank, or if any is out-of-bounds.
func (t *Tensor) Value(indices ...int) float32 {
	t.AssertValid()
	if len(indices) != t.Rank() {
		exceptions.Panicf("Tensor(%s).Value(%v): wanted %d indices", t.shape, indices, t.Rank())
	}
	flatIdx := 0
	for axis, stride := range t.shape.Strides() {
		idx := indices[axis]
		if idx < 0 || idx >= t.shape.Dimensions[axis] {
			exceptions.Panicf("Tensor(%s).Value(%v): index out-of-bounds for axis #%d", t.shape, indices, axis)
		}
		flatIdx += idx * stride
	}
	return t.flat[flatIdx]
}

// Equal checks weather t == otherTensor, bit-for-bit.
// If they are the same pointer, they are considered equal.
// If the shapes are different, it returns false.
// If either side is invalid (nil), it panics.
func (t *Tensor) Equal(otherTensor *Tensor) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	return slices.Equal(t.flat, otherTensor.flat)
}

// InDelta checks weather Abs(t - otherTensor) <= delta for every element.
// If the shapes are different, it returns false.
// If either is invalid (nil), it panics.
func (t *Tensor) InDelta(otherTensor *Tensor, delta float64) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	for ii, v0 := range t.flat {
		diff := float64(v0) - float64(otherTensor.flat[ii])
		if diff > delta || -diff > delta {
			return false
		}
	}
	return true
}
