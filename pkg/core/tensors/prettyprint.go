// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"bytes"
	"fmt"
	"math"
)

// maxPrintedRow is the number of values in a row beyond which an ellipsis is used.
const maxPrintedRow = 6

// Stats holds the summary statistics of the values of a tensor.
type Stats struct {
	Min, Max, Mean float64
}

// Stats returns the minimum, maximum and mean of the tensor values.
func (t *Tensor) Stats() Stats {
	t.AssertValid()
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range t.flat {
		f := float64(v)
		s.Min = min(s.Min, f)
		s.Max = max(s.Max, f)
		sum += f
	}
	s.Mean = sum / float64(len(t.flat))
	return s
}

// String implements fmt.Stringer. It prints the shape and the leading values of the tensor.
func (t *Tensor) String() string {
	if t == nil {
		return "<nil tensor>"
	}
	if !t.Ok() {
		return "<invalid tensor>"
	}
	return t.Summary(4)
}

// Summary returns a one line summary of the Tensor's content: its shape, the first and
// last values of the flat data and its min/max/mean.
// Inspired by numpy output.
func (t *Tensor) Summary(precision int) string {
	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }
	w("%s", t.shape)
	if t.Rank() == 0 {
		w("(%.*g)", precision, t.flat[0])
		return buf.String()
	}
	w("{")
	n := len(t.flat)
	for ii, v := range t.flat {
		if n > maxPrintedRow && ii >= maxPrintedRow/2 && ii < n-maxPrintedRow/2 {
			if ii == maxPrintedRow/2 {
				w(", ...")
			}
			continue
		}
		if ii > 0 {
			w(", ")
		}
		w("%.*g", precision, v)
	}
	w("}")
	if n > 1 {
		s := t.Stats()
		w(" min=%.*g max=%.*g mean=%.*g", precision, s.Min, precision, s.Max, precision, s.Mean)
	}
	return buf.String()
}
