// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/pkg/errors"
)

// Modality of the samples in a dataset. It defines the raw value domain of the samples
// and how they are normalized for training.
type Modality uint8

//go:generate go tool enumer -type=Modality -trimprefix=Modality -transform=snake -text -output=gen_modality_enumer.go normalization.go

const (
	// ModalityImage samples are pixel intensities in [0, 255], normalized to [-1, 1].
	ModalityImage Modality = iota

	// ModalityAudio samples are spectrogram magnitudes in [0, 721], normalized to [0, 1].
	ModalityAudio
)

// ErrInvalidModality is returned for a modality name or value that is not one of ModalityValues().
var ErrInvalidModality = errors.New("invalid modality")

// ParseModality parses "image" or "audio" (case-insensitive).
func ParseModality(name string) (Modality, error) {
	m, err := ModalityString(name)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidModality, "%q is not one of %q", name, ModalityStrings())
	}
	return m, nil
}

// NormalizationRange maps a raw value x to x/Scale + Offset.
type NormalizationRange struct {
	Scale, Offset float64
}

// Range returns the NormalizationRange of the modality, or an error wrapping ErrInvalidModality.
func (m Modality) Range() (NormalizationRange, error) {
	switch m {
	case ModalityImage:
		return NormalizationRange{Scale: 127.5, Offset: -1}, nil
	case ModalityAudio:
		return NormalizationRange{Scale: 721, Offset: 0}, nil
	default:
		return NormalizationRange{}, errors.Wrapf(ErrInvalidModality, "%s", m)
	}
}

// Normalize returns a new tensor with the raw values of x mapped to the training range of the modality.
func Normalize(x *tensors.Tensor, m Modality) (*tensors.Tensor, error) {
	r, err := m.Range()
	if err != nil {
		return nil, err
	}
	if err = x.CheckValid(); err != nil {
		return nil, errors.WithMessage(err, "datasets.Normalize")
	}
	return x.Apply(func(v float32) float32 {
		return float32(float64(v)/r.Scale + r.Offset)
	}), nil
}

// Denormalize is the inverse of Normalize: it maps values in the training range back to raw values.
func Denormalize(x *tensors.Tensor, m Modality) (*tensors.Tensor, error) {
	r, err := m.Range()
	if err != nil {
		return nil, err
	}
	if err = x.CheckValid(); err != nil {
		return nil, errors.WithMessage(err, "datasets.Denormalize")
	}
	return x.Apply(func(v float32) float32 {
		return float32((float64(v) - r.Offset) * r.Scale)
	}), nil
}
