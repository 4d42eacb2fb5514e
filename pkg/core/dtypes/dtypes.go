// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes includes the DType enum for the storage types of the dataset arrays,
// and the decoding of raw (native-endian) buffers to the float32 values every tensor
// is kept in.
package dtypes

import (
	"encoding/binary"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

func init() {
	// Add a mapping to the lower-case version of dtypes.
	keys := slices.Collect(maps.Keys(mapOfNamesToDType))
	for _, key := range keys {
		lowerKey := strings.ToLower(key)
		if _, found := mapOfNamesToDType[lowerKey]; found {
			continue
		}
		mapOfNamesToDType[lowerKey] = mapOfNamesToDType[key]
	}
}

// FromName returns the DType with the given name (case-insensitive forms are accepted),
// or InvalidDType if not known.
func FromName(name string) DType {
	dtype, found := mapOfNamesToDType[name]
	if !found {
		return InvalidDType
	}
	return dtype
}

// Size returns the number of bytes for the given DType. It returns 0 for InvalidDType.
func (dtype DType) Size() int {
	switch dtype {
	case Uint8:
		return 1
	case Float16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	}
	return 0
}

// Memory returns the number of bytes for the given DType.
// It's an alias to Size, converted to uintptr.
func (dtype DType) Memory() uintptr {
	return uintptr(dtype.Size())
}

// IsFloat returns whether dtype is a float type.
func (dtype DType) IsFloat() bool {
	return dtype == Float16 || dtype == Float32 || dtype == Float64
}

// IsSupported returns whether dtype can be decoded.
func (dtype DType) IsSupported() bool {
	return dtype.Size() > 0
}

// DecodeFloat32 converts a raw buffer of values of the given dtype, stored in the machine's
// native byte order, to float32 values.
//
// It returns an error if the dtype is not supported or if the buffer length is not a multiple
// of the dtype size.
func DecodeFloat32(raw []byte, dtype DType) ([]float32, error) {
	size := dtype.Size()
	if size == 0 {
		return nil, errors.Errorf("dtypes.DecodeFloat32: unsupported dtype %s", dtype)
	}
	if len(raw)%size != 0 {
		return nil, errors.Errorf("dtypes.DecodeFloat32: buffer of %d bytes is not a multiple of %s size (%d bytes)",
			len(raw), dtype, size)
	}
	order := binary.NativeEndian
	n := len(raw) / size
	values := make([]float32, n)
	switch dtype {
	case Uint8:
		for ii, v := range raw {
			values[ii] = float32(v)
		}
	case Int32:
		for ii := range n {
			values[ii] = float32(int32(order.Uint32(raw[ii*4:])))
		}
	case Int64:
		for ii := range n {
			values[ii] = float32(int64(order.Uint64(raw[ii*8:])))
		}
	case Float16:
		for ii := range n {
			values[ii] = float16.Frombits(order.Uint16(raw[ii*2:])).Float32()
		}
	case Float32:
		for ii := range n {
			values[ii] = math.Float32frombits(order.Uint32(raw[ii*4:]))
		}
	case Float64:
		for ii := range n {
			values[ii] = float32(math.Float64frombits(order.Uint64(raw[ii*8:])))
		}
	}
	return values, nil
}
