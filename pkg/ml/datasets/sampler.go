// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"fmt"
	"iter"
	"math/rand"
	"time"

	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	// ErrInvalidBatchSize is returned when the batch size is not in [1, number of examples].
	ErrInvalidBatchSize = errors.New("invalid batch size")

	// ErrMismatchedPairs is returned when the two sides of a paired dataset don't have the same number of examples.
	ErrMismatchedPairs = errors.New("mismatched paired datasets")
)

// PairedSampler draws random minibatches from a pair of tensors sharing their leading (examples) axis:
// typically the full-resolution targets and their conditioning inputs (sketches).
//
// Each draw is a uniformly random subset of batchSize distinct examples, and the same indices are
// gathered from both tensors. Draws are independent from each other: an example may appear in
// consecutive batches.
//
// It is infinite: Next never returns io.EOF, and the consumer decides when to stop (see Take).
//
// It is not safe for concurrent use.
type PairedSampler struct {
	name      string
	x1, x2    *tensors.Tensor
	batchSize int

	// permutation of the example indices, partially reshuffled at each draw.
	permutation []int
	rng         *rand.Rand
	draws       int
}

// NewPairedSampler creates a PairedSampler over x1 and x2, which must have the same number of examples
// (the dimension of their leading axis).
//
// It returns an error wrapping ErrInvalidBatchSize if batchSize < 1 or batchSize > number of examples, and
// ErrMismatchedPairs if the number of examples differ.
func NewPairedSampler(x1, x2 *tensors.Tensor, batchSize int) (*PairedSampler, error) {
	for _, x := range []*tensors.Tensor{x1, x2} {
		if err := x.CheckValid(); err != nil {
			return nil, errors.WithMessage(err, "NewPairedSampler")
		}
		if x.Rank() == 0 {
			return nil, errors.Errorf("NewPairedSampler: scalar tensors have no examples axis")
		}
	}
	numExamples := x1.NumExamples()
	if x2.NumExamples() != numExamples {
		return nil, errors.Wrapf(ErrMismatchedPairs, "x1 shaped %s, x2 shaped %s", x1.Shape(), x2.Shape())
	}
	if batchSize < 1 || batchSize > numExamples {
		return nil, errors.Wrapf(ErrInvalidBatchSize, "batch size %d for %d examples", batchSize, numExamples)
	}
	ps := &PairedSampler{
		name:        fmt.Sprintf("PairedSampler[%d of %d]", batchSize, numExamples),
		x1:          x1,
		x2:          x2,
		batchSize:   batchSize,
		permutation: make([]int, numExamples),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for ii := range ps.permutation {
		ps.permutation[ii] = ii
	}
	return ps, nil
}

// WithRand sets the random number generator (RNG) used for sampling. This allows for repeatable
// deterministic sampling. The default is to use an RNG initialized with the current
// nanosecond time.
//
// It returns the modified PairedSampler, so calls can be cascaded if one wants.
func (ps *PairedSampler) WithRand(rng *rand.Rand) *PairedSampler {
	ps.rng = rng
	return ps
}

// SetName sets the name of the sampler, and returns the updated sampler.
func (ps *PairedSampler) SetName(name string) *PairedSampler {
	ps.name = name
	return ps
}

// Name implements Dataset.
func (ps *PairedSampler) Name() string { return ps.name }

// BatchSize returns the number of examples per draw.
func (ps *PairedSampler) BatchSize() int { return ps.batchSize }

// NumExamples in the pool sampled from.
func (ps *PairedSampler) NumExamples() int { return len(ps.permutation) }

// Draws returns the number of batches drawn since creation or the last Reset.
func (ps *PairedSampler) Draws() int { return ps.draws }

// Reset implements Dataset. The sampler is infinite, so it only resets the count of draws.
func (ps *PairedSampler) Reset() {
	ps.draws = 0
}

// NextIndices draws the indices of the next batch: batchSize distinct indices, uniformly at random.
// The returned slice is owned by the caller.
func (ps *PairedSampler) NextIndices() []int {
	// Partial Fisher-Yates: the first batchSize positions of the permutation become a uniform random subset.
	n := len(ps.permutation)
	for ii := range ps.batchSize {
		jj := ii + ps.rng.Intn(n-ii)
		ps.permutation[ii], ps.permutation[jj] = ps.permutation[jj], ps.permutation[ii]
	}
	ps.draws++
	indices := make([]int, ps.batchSize)
	copy(indices, ps.permutation[:ps.batchSize])
	return indices
}

// Next draws the next batch, returning the gathered examples of x1 and x2, in that order.
func (ps *PairedSampler) Next() (x1Batch, x2Batch *tensors.Tensor, err error) {
	indices := ps.NextIndices()
	if klog.V(3).Enabled() {
		klog.Infof("%s: draw #%d indices=%v", ps.name, ps.draws, indices)
	}
	x1Batch, err = ps.x1.Gather(indices)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "%s gathering x1", ps.name)
	}
	x2Batch, err = ps.x2.Gather(indices)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "%s gathering x2", ps.name)
	}
	return
}

// Yield implements Dataset. It returns the conditioning batch (x2) as the only input, and
// the target batch (x1) as the only label. It never returns io.EOF.
func (ps *PairedSampler) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	x1Batch, x2Batch, err := ps.Next()
	if err != nil {
		return
	}
	inputs = []*tensors.Tensor{x2Batch}
	labels = []*tensors.Tensor{x1Batch}
	return
}

// All returns an infinite iterator over the draws of (x1Batch, x2Batch).
// Stop it by breaking out of the loop.
//
// It panics if gathering fails, which can only happen if the tensors were modified under the sampler.
func (ps *PairedSampler) All() iter.Seq2[*tensors.Tensor, *tensors.Tensor] {
	return func(yield func(*tensors.Tensor, *tensors.Tensor) bool) {
		for {
			x1Batch, x2Batch, err := ps.Next()
			if err != nil {
				panic(err)
			}
			if !yield(x1Batch, x2Batch) {
				return
			}
		}
	}
}
