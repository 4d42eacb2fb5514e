// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import "strconv"

// DType is an enum represents the data type of the arrays read from a dataset store.
//
// In memory every tensor is kept as Float32; the other dtypes only describe how the raw
// values are stored on disk before decoding.
type DType int32

const (
	// InvalidDType is the zero value, used for unknown or unsupported storage types.
	InvalidDType DType = iota

	// Uint8 is the usual storage for raw 8-bit images, values in [0, 255].
	Uint8

	// Int32 signed integral values of 32 bits.
	Int32

	// Int64 signed integral values of 64 bits.
	Int64

	// Float16 is IEEE half precision, decoded with github.com/x448/float16.
	Float16

	// Float32 is the in-memory dtype of every tensor.
	Float32

	// Float64 double precision values.
	Float64
)

var mapOfNamesToDType = map[string]DType{
	"InvalidDType": InvalidDType,
	"Uint8":        Uint8,
	"Int32":        Int32,
	"Int64":        Int64,
	"Float16":      Float16,
	"Float32":      Float32,
	"Float64":      Float64,
}

var dtypeNames = [...]string{
	InvalidDType: "InvalidDType",
	Uint8:        "Uint8",
	Int32:        "Int32",
	Int64:        "Int64",
	Float16:      "Float16",
	Float32:      "Float32",
	Float64:      "Float64",
}

// String implements fmt.Stringer.
func (dtype DType) String() string {
	if dtype < 0 || int(dtype) >= len(dtypeNames) {
		return "DType(" + strconv.Itoa(int(dtype)) + ")"
	}
	return dtypeNames[dtype]
}
