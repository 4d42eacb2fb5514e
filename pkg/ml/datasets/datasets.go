// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package datasets holds the in-memory side of the data pipeline: normalization of raw samples
// per Modality, the PairedSampler that draws random minibatches of (target, condition) pairs,
// and utility wrappers over the Dataset interface, like `Take`.
package datasets

import (
	"fmt"
	"io"

	"github.com/patchgan/patchgan/pkg/core/tensors"
)

// Dataset for a training loop. It yields one batch (or whatever is the unit for a training step)
// per call to Yield.
//
// Datasets are not safe for concurrent calls to Yield: their iteration state must be owned by one consumer.
type Dataset interface {
	// Name identifies the dataset. Used for debugging and pretty-printing.
	Name() string

	// Reset restarts the dataset from the beginning. Can be called after io.EOF is reached.
	Reset()

	// Yield one batch or an error. It returns an opaque `spec` (it can be nil), a slice of `inputs`
	// and a slice of `labels` tensors (even when there is only one tensor for each of them).
	//
	// The `inputs` and `labels` ownership is transferred to the caller.
	//
	// Finite datasets return io.EOF when exhausted. Infinite datasets never do: the consumer
	// stops pulling, possibly through Take.
	Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error)
}

// takeDataset implements a `Dataset` that only yields `take` batches.
type takeDataset struct {
	ds          Dataset
	count, take int
}

// Take returns a wrapper to `ds`, a `Dataset` that only yields `n` batches.
func Take(ds Dataset, n int) Dataset {
	return &takeDataset{
		ds:   ds,
		take: n,
	}
}

// Name implements Dataset. It returns the dataset name.
func (ds *takeDataset) Name() string {
	return fmt.Sprintf("%s [Take %d]", ds.ds.Name(), ds.take)
}

// Reset implements Dataset.
func (ds *takeDataset) Reset() {
	ds.ds.Reset()
	ds.count = 0
}

// Yield implements Dataset.
func (ds *takeDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if ds.count >= ds.take {
		err = io.EOF
		return
	}
	ds.count++
	spec, inputs, labels, err = ds.ds.Yield()
	return
}
