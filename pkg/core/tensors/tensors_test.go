// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"encoding/binary"
	"testing"

	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

// iotaTensor returns a tensor with values 0, 1, 2, ... in row-major order.
func iotaTensor(dims ...int) *Tensor {
	t := FromShape(shapes.Make(dtypes.Float32, dims...))
	t.MutableFlatData(func(flat []float32) {
		for ii := range flat {
			flat[ii] = float32(ii)
		}
	})
	return t
}

func TestConstructors(t *testing.T) {
	zeros := FromShape(shapes.Make(dtypes.Float32, 2, 3))
	assert.Equal(t, make([]float32, 6), zeros.CopyFlatData())
	assert.Equal(t, dtypes.Float32, zeros.DType())
	assert.Equal(t, 2, zeros.NumExamples())
	assert.Equal(t, uintptr(24), zeros.Memory())

	sevens := FromScalarAndDimensions(7, 3)
	assert.Equal(t, []float32{7, 7, 7}, sevens.CopyFlatData())

	data := []float32{1, 2, 3, 4}
	x := FromFlatDataAndDimensions(data, 2, 2)
	data[0] = 100 // Data must have been copied.
	assert.Equal(t, float32(1), x.Value(0, 0))
	assert.Equal(t, float32(3), x.Value(1, 0))

	assert.Panics(t, func() { _ = FromFlatDataAndDimensions([]float32{1, 2, 3}, 2, 2) })
	assert.Panics(t, func() { _ = FromShape(shapes.Make(dtypes.Int32, 2)) })
	assert.Panics(t, func() { _ = x.Value(2, 0) })

	var nilTensor *Tensor
	assert.Error(t, nilTensor.CheckValid())
	assert.Equal(t, dtypes.InvalidDType, nilTensor.DType())
}

func TestFromRaw(t *testing.T) {
	raw := make([]byte, 0, 8)
	for _, v := range []float32{0.5, -1, 2, 1024} {
		raw = binary.NativeEndian.AppendUint16(raw, float16.Fromfloat32(v).Bits())
	}
	x, err := FromRaw(raw, dtypes.Float16, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 2, 1024}, x.CopyFlatData())

	_, err = FromRaw(raw, dtypes.Float16, 3)
	require.Error(t, err)
}

func TestEqualAndInDelta(t *testing.T) {
	a := FromFlatDataAndDimensions([]float32{1, 2, 3}, 3)
	b := a.Clone()
	assert.True(t, a.Equal(b))
	b.MutableFlatData(func(flat []float32) { flat[2] += 0.01 })
	assert.False(t, a.Equal(b))
	assert.True(t, a.InDelta(b, 0.02))
	assert.False(t, a.InDelta(b, 0.001))
	assert.False(t, a.Equal(FromFlatDataAndDimensions([]float32{1, 2, 3}, 3, 1)))
}

func TestTranspose(t *testing.T) {
	x := iotaTensor(2, 3)
	y, err := x.Transpose(1, 0)
	require.NoError(t, err)
	require.NoError(t, y.Shape().Check(dtypes.Float32, 3, 2))
	assert.Equal(t, []float32{0, 3, 1, 4, 2, 5}, y.CopyFlatData())

	// channels-first to channels-last and back.
	img := iotaTensor(2, 3, 4, 5)
	last, err := img.Transpose(0, 2, 3, 1)
	require.NoError(t, err)
	require.NoError(t, last.Shape().Check(dtypes.Float32, 2, 4, 5, 3))
	assert.Equal(t, img.Value(1, 2, 3, 4), last.Value(1, 3, 4, 2))
	back, err := last.Transpose(0, 3, 1, 2)
	require.NoError(t, err)
	assert.True(t, img.Equal(back))

	_, err = x.Transpose(0, 0)
	require.Error(t, err)
	_, err = x.Transpose(0)
	require.Error(t, err)
}

func TestSliceAndSetSlice(t *testing.T) {
	x := iotaTensor(4, 4)
	block, err := x.Slice([]int{1, 2}, []int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 7, 10, 11}, block.CopyFlatData())

	_, err = x.Slice([]int{3, 0}, []int{2, 2})
	require.Error(t, err)
	_, err = x.Slice([]int{0}, []int{2})
	require.Error(t, err)

	y := FromShape(x.Shape())
	require.NoError(t, y.SetSlice([]int{0, 0}, block))
	require.NoError(t, y.SetSlice([]int{2, 2}, block))
	assert.Equal(t, []float32{
		6, 7, 0, 0,
		10, 11, 0, 0,
		0, 0, 6, 7,
		0, 0, 10, 11,
	}, y.CopyFlatData())
	require.Error(t, y.SetSlice([]int{3, 3}, block))
}

func TestGather(t *testing.T) {
	x := iotaTensor(3, 2)
	g, err := x.Gather([]int{2, 0, 2})
	require.NoError(t, err)
	require.NoError(t, g.Shape().Check(dtypes.Float32, 3, 2))
	assert.Equal(t, []float32{4, 5, 0, 1, 4, 5}, g.CopyFlatData())
	_, err = x.Gather([]int{3})
	require.Error(t, err)
	_, err = x.Gather(nil)
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	x := iotaTensor(2, 2)
	y := x.Apply(func(v float32) float32 { return v * 2 })
	assert.Equal(t, []float32{0, 2, 4, 6}, y.CopyFlatData())
	assert.Equal(t, []float32{0, 1, 2, 3}, x.CopyFlatData())
}

func TestSummary(t *testing.T) {
	x := FromFlatDataAndDimensions([]float32{1, 2, 3}, 3)
	assert.Equal(t, "(Float32)[3]{1, 2, 3} min=1 max=3 mean=2", x.String())
	long := iotaTensor(10)
	assert.Equal(t, "(Float32)[10]{0, 1, 2, ..., 7, 8, 9} min=0 max=9 mean=4.5", long.String())
	assert.Equal(t, "<nil tensor>", (*Tensor)(nil).String())
}
