// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package hdf5

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/patchgan/patchgan/internal/workerspool"
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/patchgan/patchgan/pkg/core/tensors/images"
	"github.com/patchgan/patchgan/pkg/ml/datasets"
	"github.com/patchgan/patchgan/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Pairs of training and validation tensors loaded from a dataset store: the full-resolution targets
// and their conditioning inputs (sketches).
//
// All tensors are normalized for the modality of the store, and in the layout requested to LoadPairs.
type Pairs struct {
	FullTrain, SketchTrain, FullVal, SketchVal *tensors.Tensor
}

// Names of the four datasets in a store, in the order of the Pairs fields.
type Names [4]string

// DatasetNames returns the names of the datasets holding the pairs for the modality.
func DatasetNames(modality datasets.Modality) (Names, error) {
	switch modality {
	case datasets.ModalityImage:
		return Names{"train_data_full", "train_data_sketch", "val_data_full", "val_data_sketch"}, nil
	case datasets.ModalityAudio:
		// Clean spectrograms are the targets, and noisy magnitudes are the conditioning inputs.
		return Names{"clean_train", "mag_train", "clean_val", "mag_val"}, nil
	default:
		return Names{}, errors.Wrapf(datasets.ErrInvalidModality, "%s", modality)
	}
}

// StorePath returns the path of the store of the named dataset in dir: "<dir>/<name>_data.h5".
func StorePath(dir, name string) string {
	return filepath.Join(dir, name+"_data.h5")
}

// LoadParallelism is the number of datasets extracted concurrently by LoadPairs.
// Set to 0 to extract them sequentially.
var LoadParallelism = 4

// LoadPairs reads the four datasets of the modality from the HDF5 store in filePath.
//
// The datasets are stored as `[N, C, H, W]` (channels-first). Each is decoded to float32,
// normalized for the modality, and transposed to `[N, H, W, C]` if the layout is images.ChannelsLast.
//
// It fails if any dataset is missing, has an unsupported dtype or is not rank 4, or if the targets and
// conditioning inputs don't have the same number of examples (datasets.ErrMismatchedPairs).
func LoadPairs(filePath string, modality datasets.Modality, layout images.ChannelsAxisConfig) (*Pairs, error) {
	names, err := DatasetNames(modality)
	if err != nil {
		return nil, err
	}
	if err = layout.Check(); err != nil {
		return nil, err
	}
	contents, err := ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	present := sets.Make[string]()
	for key := range contents {
		present.Insert(strings.TrimPrefix(key, "/"))
	}
	if missing := sets.Make(names[:]...).Sub(present); len(missing) > 0 {
		return nil, errors.Errorf("%s store %q is missing datasets %q", modality, filePath, sets.Sorted(missing))
	}
	var loaded [4]*tensors.Tensor
	tasks := make([]func() error, len(names))
	for ii, name := range names {
		tasks[ii] = func() (err error) {
			loaded[ii], err = loadTensor(contents, name, modality, layout)
			return
		}
	}
	if err = workerspool.New().SetMaxParallelism(LoadParallelism).Run(tasks...); err != nil {
		return nil, errors.WithMessagef(err, "loading %q", filePath)
	}
	pairs := &Pairs{FullTrain: loaded[0], SketchTrain: loaded[1], FullVal: loaded[2], SketchVal: loaded[3]}
	for _, pair := range [][2]int{{0, 1}, {2, 3}} {
		full, sketch := loaded[pair[0]], loaded[pair[1]]
		if full.NumExamples() != sketch.NumExamples() {
			return nil, errors.Wrapf(datasets.ErrMismatchedPairs, "%q: %q shaped %s, %q shaped %s",
				filePath, names[pair[0]], full.Shape(), names[pair[1]], sketch.Shape())
		}
	}
	return pairs, nil
}

// loadTensor reads one dataset, decodes, normalizes and lays it out.
func loadTensor(contents Contents, name string, modality datasets.Modality, layout images.ChannelsAxisConfig) (*tensors.Tensor, error) {
	ds, found := contents["/"+name]
	if !found {
		return nil, errors.Errorf("dataset %q not found", name)
	}
	if !ds.Shape.Ok() {
		return nil, errors.Errorf("dataset %q has an unsupported data type or space:\n%s", name, ds.RawHeader)
	}
	if ds.Shape.Rank() != 4 {
		return nil, errors.Errorf("dataset %q shaped %s, wanted rank 4 ([N, C, H, W])", name, ds.Shape)
	}
	raw, err := ds.Load()
	if err != nil {
		return nil, err
	}
	t, err := tensors.FromRaw(raw, ds.Shape.DType, ds.Shape.Dimensions...)
	if err != nil {
		return nil, errors.WithMessagef(err, "decoding dataset %q", name)
	}
	t, err = datasets.Normalize(t, modality)
	if err != nil {
		return nil, err
	}
	if layout == images.ChannelsLast {
		t, err = images.ToChannelsLast(t, images.ChannelsFirst)
		if err != nil {
			return nil, err
		}
	}
	klog.V(1).Infof("hdf5: loaded %q %s (stored as %s, %s in memory)",
		name, t.Shape(), ds.Shape, humanize.Bytes(uint64(t.Memory())))
	return t, nil
}
