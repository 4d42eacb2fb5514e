// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// patchgan_prep is a dry run of the discriminator data pipeline: it loads a dataset store,
// reports the patch geometry, and builds -steps discriminator batches, reporting the label statistics.
//
// The generator is replaced by the identity (generated images are the sketches), so it can be
// used to validate a store and a configuration before a long training run.
//
// Usage:
//
//	patchgan_prep -data=~/data/facades_data.h5 -layout=channels_last -patch=64,64 -batch=4 -steps=100
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/patchgan/patchgan/pkg/core/tensors/images"
	"github.com/patchgan/patchgan/pkg/ml/datasets"
	"github.com/patchgan/patchgan/pkg/ml/datasets/hdf5"
	"github.com/patchgan/patchgan/pkg/ml/discriminator"
	"github.com/patchgan/patchgan/pkg/ml/patches"
	"github.com/patchgan/patchgan/pkg/support/fsutil"
	"github.com/patchgan/patchgan/pkg/support/xslices"
	"github.com/patchgan/patchgan/ui/commandline"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagData     = flag.String("data", "", "Path to the HDF5 dataset store, e.g. \"~/data/facades_data.h5\".")
	flagModality = flag.String("modality", "image", "Modality of the store: \"image\" or \"audio\".")
	flagLayout   = flag.String("layout", "channels_first",
		"Layout of the image tensors: \"channels_first\" ([N, C, H, W]) or \"channels_last\" ([N, H, W, C]).")
	flagPatch     = xslices.IntsFlagVar(nil, "patch", []int{64, 64}, "Patch size as \"height,width\".")
	flagBatch     = flag.Int("batch", 4, "Number of examples per batch.")
	flagSteps     = flag.Int("steps", 100, "Number of discriminator batches to build.")
	flagSmoothing = flag.Bool("smoothing", false, "Smooth the real labels to values in [0.9, 1).")
	flagFlip      = flag.Float64("flip", 0, "Probability of flipping the labels of a batch, in [0, 1].")
	flagSeed      = flag.Int64("seed", 0, "Random seed. If 0, it is seeded with the current time.")
	flagSplit     = flag.String("split", "train", "Which pairs to sample from: \"train\" or \"val\".")
	flagProgress  = flag.Bool("progress", true, "Display a progress bar.")
)

// config holds the parsed flags.
type config struct {
	dataPath  string
	modality  datasets.Modality
	layout    images.ChannelsAxisConfig
	patchSize patches.Size
	batchSize int
	numSteps  int
	smoothing bool
	flip      float64
	seed      int64
	split     string
	progress  bool
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	cfg, err := parseFlags()
	if err == nil {
		err = run(cfg, os.Stdout)
	}
	if err != nil {
		klog.Errorf("patchgan_prep failed: %+v", err)
		os.Exit(1)
	}
}

func parseFlags() (cfg config, err error) {
	if *flagData == "" {
		return cfg, errors.New("missing -data with the path to the dataset store, see 'patchgan_prep -help'")
	}
	cfg.dataPath, err = fsutil.ExistingFile(*flagData)
	if err != nil {
		return
	}
	if cfg.modality, err = datasets.ParseModality(*flagModality); err != nil {
		return
	}
	if cfg.layout, err = images.ParseChannelsAxisConfig(*flagLayout); err != nil {
		return
	}
	if len(*flagPatch) != 2 {
		return cfg, errors.Wrapf(patches.ErrInvalidPatchSize, "-patch=%v: wanted \"height,width\"", *flagPatch)
	}
	cfg.patchSize = patches.Size{(*flagPatch)[0], (*flagPatch)[1]}
	if *flagSteps <= 0 {
		return cfg, errors.Errorf("-steps=%d must be positive", *flagSteps)
	}
	if *flagSplit != "train" && *flagSplit != "val" {
		return cfg, errors.Errorf("-split=%q must be \"train\" or \"val\"", *flagSplit)
	}
	cfg.batchSize, cfg.numSteps = *flagBatch, *flagSteps
	cfg.smoothing, cfg.flip = *flagSmoothing, *flagFlip
	cfg.seed, cfg.split, cfg.progress = *flagSeed, *flagSplit, *flagProgress
	if cfg.seed == 0 {
		cfg.seed = time.Now().UnixNano()
	}
	return
}

// identityGenerator stands in for a trained generator: it returns a copy of the sketches.
var identityGenerator = discriminator.GeneratorFn(func(sketch *tensors.Tensor) (*tensors.Tensor, error) {
	return sketch.Clone(), nil
})

// stats accumulated over the built batches. The mean real-column label only counts the non-zero
// values of the column.
type stats struct {
	numSynthetic, numFlipped int
	realLabelSum             float64
	numRealLabels            int
	numPatches               int
}

func (s *stats) update(batch *discriminator.Batch) {
	if batch.Synthetic {
		s.numSynthetic++
	}
	if batch.Flipped {
		s.numFlipped++
	}
	s.numPatches += len(batch.Patches)
	batch.Labels.ConstFlatData(func(flat []float32) {
		for ii := 0; ii < len(flat); ii += 2 {
			if v := flat[ii+discriminator.RealColumn]; v > 0 {
				s.realLabelSum += float64(v)
				s.numRealLabels++
			}
		}
	})
}

func (s *stats) meanRealLabel() string {
	if s.numRealLabels == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4f", s.realLabelSum/float64(s.numRealLabels))
}

// buildBatches builds one discriminator batch for each batch of pairs yielded by ds, until io.EOF.
// Sketches are the inputs and the full images the labels of ds.
func buildBatches(ds datasets.Dataset, builder *discriminator.Builder, pBar *commandline.ProgressBar) (s stats, err error) {
	for step := 0; ; step++ {
		_, inputs, labels, yieldErr := ds.Yield()
		if errors.Is(yieldErr, io.EOF) {
			return
		}
		if yieldErr != nil {
			return s, errors.WithMessagef(yieldErr, "%s step %d", ds.Name(), step)
		}
		batch, buildErr := builder.Build(labels[0], inputs[0], step)
		if buildErr != nil {
			return s, errors.WithMessagef(buildErr, "step %d", step)
		}
		s.update(batch)
		if pBar != nil {
			pBar.Step(
				commandline.Metric{Name: "Synthetic batches", Value: humanize.Comma(int64(s.numSynthetic))},
				commandline.Metric{Name: "Flipped batches", Value: humanize.Comma(int64(s.numFlipped))},
				commandline.Metric{Name: "Mean real-column label", Value: s.meanRealLabel()},
			)
		}
	}
}

func run(cfg config, out io.Writer) error {
	pairs, err := hdf5.LoadPairs(cfg.dataPath, cfg.modality, cfg.layout)
	if err != nil {
		return err
	}
	full, sketch := pairs.FullTrain, pairs.SketchTrain
	if cfg.split == "val" {
		full, sketch = pairs.FullVal, pairs.SketchVal
	}
	geometry, err := patches.Compute(full.Shape().Dimensions[1:], cfg.patchSize, cfg.layout)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	sampler, err := datasets.NewPairedSampler(full, sketch, cfg.batchSize)
	if err != nil {
		return err
	}
	sampler.WithRand(rng).SetName(cfg.split)
	builder := discriminator.New(identityGenerator).
		PatchSize(cfg.patchSize[0], cfg.patchSize[1]).
		Layout(cfg.layout).
		LabelSmoothing(cfg.smoothing).
		LabelFlipping(cfg.flip).
		WithRand(rng)
	if err = builder.Check(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, commandline.TitleStyle.Render("Dataset"))
	table := commandline.NewPlainTable(false)
	table.Row("store", cfg.dataPath)
	table.Row("modality", cfg.modality.String())
	table.Row("split", cfg.split)
	table.Row("full", full.Shape().String())
	table.Row("sketch", sketch.Shape().String())
	table.Row("memory", humanize.Bytes(uint64(full.Memory()+sketch.Memory())))
	table.Row("geometry", geometry.String())
	_, _ = fmt.Fprintln(out, table.Render())

	var pBar *commandline.ProgressBar
	if cfg.progress {
		pBar = commandline.NewProgressBar(out, cfg.numSteps)
	}
	start := time.Now()
	s, err := buildBatches(datasets.Take(sampler, cfg.numSteps), builder, pBar)
	if pBar != nil {
		pBar.Done()
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	_, _ = fmt.Fprintln(out, commandline.TitleStyle.Render("Discriminator batches"))
	table = commandline.NewPlainTable(true).Headers("", "value")
	table.Row("batches", humanize.Comma(int64(cfg.numSteps)))
	table.Row("synthetic / real", fmt.Sprintf("%d / %d", s.numSynthetic, cfg.numSteps-s.numSynthetic))
	table.Row("flipped", fmt.Sprintf("%d (p=%g)", s.numFlipped, cfg.flip))
	table.Row("patches", humanize.Comma(int64(s.numPatches)))
	table.Row("mean real-column label", s.meanRealLabel())
	table.Row("seed", fmt.Sprint(cfg.seed))
	table.Row("elapsed", commandline.FormatDuration(elapsed))
	_, _ = fmt.Fprintln(out, table.Render())
	return nil
}
