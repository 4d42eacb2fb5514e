// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package discriminator builds the labeled batches for the training steps of a patch-based discriminator.
//
// Batches alternate between synthetic and real examples, driven by the parity of the batch counter given
// by the training loop:
//
//   - Even counter: the generator is called on the conditioning inputs (sketches), and the generated
//     images are labeled as fake: column 0 of the labels is 1, column 1 is 0.
//   - Odd counter: the real full-resolution images are labeled as real: column 1 is 1 (or a value
//     uniformly sampled in [0.9, 1) per example with label smoothing), column 0 is 0.
//
// With label flipping probability p, one draw per batch decides whether the two label columns are
// swapped for the whole batch.
//
// The discriminated images are then cut in patches (see package patches), and the labels are shaped
// `[batch_size, 2]`, one row per example independent of the number of patches.
package discriminator

import (
	"math"
	"math/rand"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/patchgan/patchgan/pkg/core/tensors/images"
	"github.com/patchgan/patchgan/pkg/ml/patches"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Label columns.
const (
	FakeColumn = 0
	RealColumn = 1
)

// SmoothingMin is the lower bound of smoothed real labels: they are sampled uniformly from [SmoothingMin, 1).
const SmoothingMin = 0.9

var (
	// ErrInvalidProbability is returned when the label flipping probability is not in [0, 1].
	ErrInvalidProbability = errors.New("invalid probability")

	// ErrGeneratorOutput is returned when the generator output doesn't have the shape of the real images.
	ErrGeneratorOutput = errors.New("invalid generator output")
)

// Generator produces synthetic images from a batch of conditioning inputs (sketches).
//
// The output must have the same shape as the real images the inputs are paired with.
// Generate is called synchronously, and may fail by returning an error or by panicking.
type Generator interface {
	Generate(sketch *tensors.Tensor) (*tensors.Tensor, error)
}

// GeneratorFn implements Generator with a function.
type GeneratorFn func(sketch *tensors.Tensor) (*tensors.Tensor, error)

// Generate implements Generator.
func (fn GeneratorFn) Generate(sketch *tensors.Tensor) (*tensors.Tensor, error) {
	return fn(sketch)
}

// Batch for one discriminator training step.
type Batch struct {
	// Patches of the discriminated images, see patches.Extract.
	Patches []*tensors.Tensor

	// Labels shaped `[batch_size, 2]`: column FakeColumn and column RealColumn.
	Labels *tensors.Tensor

	// Synthetic is true if the images were produced by the generator (even batch counter).
	Synthetic bool

	// Flipped is true if the label columns were swapped.
	Flipped bool
}

// Builder of discriminator batches. Create it with New, configure it with the fluent
// methods, and call Build for each training step.
//
// A Builder is not safe for concurrent use, since it owns its random number generator.
type Builder struct {
	generator Generator
	patchSize patches.Size
	layout    images.ChannelsAxisConfig
	smoothing bool
	flipping  float64
	rng       *rand.Rand
	configErr error
}

// New creates a Builder that uses generator for the synthetic batches.
//
// Defaults: patches of 64x64, ChannelsFirst layout, no label smoothing and no label flipping.
func New(generator Generator) *Builder {
	return &Builder{
		generator: generator,
		patchSize: patches.Size{64, 64},
		layout:    images.ChannelsFirst,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PatchSize sets the height and width of the patches the images are cut into.
//
// It returns the Builder, so configuration calls can be cascaded.
func (b *Builder) PatchSize(height, width int) *Builder {
	b.patchSize = patches.Size{height, width}
	return b
}

// Layout sets the layout of the images given to Build, and of the generated images and patches.
//
// It returns the Builder, so configuration calls can be cascaded.
func (b *Builder) Layout(layout images.ChannelsAxisConfig) *Builder {
	b.layout = layout
	return b
}

// LabelSmoothing sets whether the real labels are smoothed.
//
// It returns the Builder, so configuration calls can be cascaded.
func (b *Builder) LabelSmoothing(smoothing bool) *Builder {
	b.smoothing = smoothing
	return b
}

// LabelFlipping sets the probability that the labels of a batch are swapped. It must be in [0, 1],
// otherwise Build returns an error wrapping ErrInvalidProbability.
//
// It returns the Builder, so configuration calls can be cascaded.
func (b *Builder) LabelFlipping(probability float64) *Builder {
	b.flipping = probability
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		b.configErr = errors.Wrapf(ErrInvalidProbability, "label flipping %g", probability)
	} else {
		b.configErr = nil
	}
	return b
}

// WithRand sets the random number generator used for smoothing and flipping. The default is to use an
// RNG initialized with the current nanosecond time.
//
// It returns the Builder, so configuration calls can be cascaded.
func (b *Builder) WithRand(rng *rand.Rand) *Builder {
	b.rng = rng
	return b
}

// Check returns an error if the configuration is invalid. It is also checked by Build.
func (b *Builder) Check() error {
	if b.configErr != nil {
		return b.configErr
	}
	if b.generator == nil {
		return errors.New("discriminator.Builder: no generator given")
	}
	if err := b.layout.Check(); err != nil {
		return err
	}
	if b.patchSize[0] <= 0 || b.patchSize[1] <= 0 {
		return errors.Wrapf(patches.ErrInvalidPatchSize, "patch size %s", b.patchSize)
	}
	return nil
}

// Build the batch for the training step batchCounter, from the real images (full) and their
// conditioning inputs (sketch), both with the same number of examples.
//
// Errors from the generator (returned or panicked) and from the patch extraction are returned
// as is, with context. Nothing is retried.
func (b *Builder) Build(full, sketch *tensors.Tensor, batchCounter int) (*Batch, error) {
	if err := b.Check(); err != nil {
		return nil, err
	}
	if err := full.CheckValid(); err != nil {
		return nil, errors.WithMessage(err, "discriminator.Build full images")
	}
	if err := sketch.CheckValid(); err != nil {
		return nil, errors.WithMessage(err, "discriminator.Build sketches")
	}
	if full.Rank() != 4 {
		return nil, errors.Errorf("discriminator.Build: full images shaped %s, wanted rank 4", full.Shape())
	}
	if sketch.Rank() != 4 {
		return nil, errors.Errorf("discriminator.Build: sketches shaped %s, wanted rank 4", sketch.Shape())
	}
	if full.NumExamples() != sketch.NumExamples() {
		return nil, errors.Errorf("discriminator.Build: %d full images but %d sketches",
			full.NumExamples(), sketch.NumExamples())
	}

	batch := &Batch{Synthetic: batchCounter%2 == 0}
	numExamples := full.NumExamples()
	discriminated := full
	if batch.Synthetic {
		generated, err := b.generate(sketch)
		if err != nil {
			return nil, errors.WithMessagef(err, "discriminator.Build batch #%d", batchCounter)
		}
		if !generated.Shape().Equal(full.Shape()) {
			return nil, errors.Wrapf(ErrGeneratorOutput, "generated images shaped %s, real images shaped %s",
				generated.Shape(), full.Shape())
		}
		discriminated = generated
	}
	batch.Labels = b.labels(numExamples, batch.Synthetic)

	if b.flipping > 0 && b.rng.Float64() < b.flipping {
		batch.Flipped = true
		swapColumns(batch.Labels)
	}

	var err error
	batch.Patches, err = patches.Extract(discriminated, b.layout, b.patchSize)
	if err != nil {
		return nil, errors.WithMessagef(err, "discriminator.Build batch #%d", batchCounter)
	}
	if klog.V(2).Enabled() {
		klog.Infof("discriminator batch #%d: synthetic=%v flipped=%v, %d patches shaped %s",
			batchCounter, batch.Synthetic, batch.Flipped, len(batch.Patches), batch.Patches[0].Shape())
	}
	return batch, nil
}

// generate calls the generator, converting panics to errors.
func (b *Builder) generate(sketch *tensors.Tensor) (generated *tensors.Tensor, err error) {
	exception := exceptions.Try(func() {
		generated, err = b.generator.Generate(sketch)
	})
	if exception != nil {
		if e, ok := exception.(error); ok {
			return nil, errors.WithMessage(e, "generator panicked")
		}
		return nil, errors.Errorf("generator panicked: %v", exception)
	}
	if err != nil {
		return nil, errors.WithMessage(err, "generator failed")
	}
	if err = generated.CheckValid(); err != nil {
		return nil, errors.Wrapf(ErrGeneratorOutput, "%v", err)
	}
	return generated, nil
}

// labels returns the labels for numExamples of the given source, before flipping.
func (b *Builder) labels(numExamples int, synthetic bool) *tensors.Tensor {
	labels := tensors.FromShape(shapes.Make(dtypes.Float32, numExamples, 2))
	labels.MutableFlatData(func(flat []float32) {
		for ii := range numExamples {
			if synthetic {
				flat[2*ii+FakeColumn] = 1
				continue
			}
			value := float32(1)
			if b.smoothing {
				value = smoothedLabel(b.rng)
			}
			flat[2*ii+RealColumn] = value
		}
	})
	return labels
}

// smoothedLabel samples a value uniformly in [SmoothingMin, 1).
func smoothedLabel(rng *rand.Rand) float32 {
	v := float32(SmoothingMin + (1-SmoothingMin)*rng.Float64())
	if v >= 1 {
		// Rounding to float32 may reach 1.
		v = math.Nextafter32(1, 0)
	}
	return v
}

// swapColumns of a `[n, 2]` labels tensor, in place.
func swapColumns(labels *tensors.Tensor) {
	labels.MutableFlatData(func(flat []float32) {
		for ii := 0; ii < len(flat); ii += 2 {
			flat[ii], flat[ii+1] = flat[ii+1], flat[ii]
		}
	})
}
