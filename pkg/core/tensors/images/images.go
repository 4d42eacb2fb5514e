// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package images handles the memory layout of image tensors: where the channels axis goes.
//
// Image tensors are always batched: the leading axis is the batch axis, so a batch of RGB images
// is shaped `[batch_size, 3, height, width]` in the ChannelsFirst layout, or `[batch_size, height, width, 3]`
// in the ChannelsLast layout.
package images

import (
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/patchgan/patchgan/pkg/core/tensors"
	"github.com/patchgan/patchgan/pkg/support/xslices"
	"github.com/pkg/errors"
)

// ChannelsAxisConfig indicates if a tensor with an image has the channel axis
// coming last (last axis) or first (first axis after batch axis).
type ChannelsAxisConfig uint8

//go:generate go tool enumer -type=ChannelsAxisConfig -transform=snake -text -output=gen_channelsaxisconfig_enumer.go images.go

const (
	ChannelsFirst ChannelsAxisConfig = iota
	ChannelsLast
)

// ErrInvalidLayout is returned when a layout name or value is not one of ChannelsAxisConfigValues().
var ErrInvalidLayout = errors.New("invalid channels layout")

// ParseChannelsAxisConfig parses a layout name, "channels_first" or "channels_last" (case-insensitive).
//
// It returns an error wrapping ErrInvalidLayout for anything else.
func ParseChannelsAxisConfig(name string) (ChannelsAxisConfig, error) {
	config, err := ChannelsAxisConfigString(name)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidLayout, "%q is not one of %q", name, ChannelsAxisConfigStrings())
	}
	return config, nil
}

// Check returns an error wrapping ErrInvalidLayout if config is not a valid value.
func (config ChannelsAxisConfig) Check() error {
	if !config.IsAChannelsAxisConfig() {
		return errors.Wrapf(ErrInvalidLayout, "%s", config)
	}
	return nil
}

// GetChannelsAxis from a given image tensor and configuration. It assumes the
// leading axis is for the batch dimension. So it either returns 1 or
// `image.Rank()-1`.
func GetChannelsAxis(image shapes.HasShape, config ChannelsAxisConfig) (int, error) {
	switch config {
	case ChannelsFirst:
		return 1, nil
	case ChannelsLast:
		return image.Shape().Rank() - 1, nil
	default:
		return -1, config.Check()
	}
}

// GetSpatialAxes from a given image tensor and configuration. It assumes the
// leading axis is for the batch dimension.
//
// Example: if image has shape `[batch_dim, height, width, channels]`, it will
// return `[]int{1, 2}`.
func GetSpatialAxes(image shapes.HasShape, config ChannelsAxisConfig) (spatialAxes []int, err error) {
	numSpatialDims := image.Shape().Rank() - 2
	if err = config.Check(); err != nil {
		return
	}
	if numSpatialDims <= 0 {
		return nil, errors.Errorf("image shape %s has no spatial axes: wanted rank >= 3", image.Shape())
	}
	switch config {
	case ChannelsFirst:
		spatialAxes = xslices.Iota(2, numSpatialDims)
	case ChannelsLast:
		spatialAxes = xslices.Iota(1, numSpatialDims)
	}
	return
}

// Dims describes an image batch independently of its layout.
type Dims struct {
	BatchSize, Channels, Height, Width int
}

// GetDims returns the batch size, channels, height and width of a rank-4 image batch in the given layout.
func GetDims(image shapes.HasShape, config ChannelsAxisConfig) (d Dims, err error) {
	shape := image.Shape()
	if err = config.Check(); err != nil {
		return
	}
	if shape.Rank() != 4 {
		return d, errors.Errorf("image batch shape %s: wanted rank 4 ([batch, ...3 axes])", shape)
	}
	channelsAxis, err := GetChannelsAxis(image, config)
	if err != nil {
		return
	}
	spatialAxes, err := GetSpatialAxes(image, config)
	if err != nil {
		return
	}
	dims := shape.Dimensions
	return Dims{
		BatchSize: dims[0],
		Channels:  dims[channelsAxis],
		Height:    dims[spatialAxes[0]],
		Width:     dims[spatialAxes[1]],
	}, nil
}

// Shape returns the dimensions of an image batch with d's sizes in the given layout.
func (d Dims) Shape(config ChannelsAxisConfig) []int {
	if config == ChannelsLast {
		return []int{d.BatchSize, d.Height, d.Width, d.Channels}
	}
	return []int{d.BatchSize, d.Channels, d.Height, d.Width}
}

// ToChannelsLast converts a rank-4 image batch from the given layout to ChannelsLast.
// If it is already ChannelsLast, it is returned as is.
func ToChannelsLast(image *tensors.Tensor, from ChannelsAxisConfig) (*tensors.Tensor, error) {
	if err := from.Check(); err != nil {
		return nil, err
	}
	if from == ChannelsLast {
		return image, nil
	}
	if image.Rank() != 4 {
		return nil, errors.Errorf("ToChannelsLast: image batch shaped %s, wanted rank 4", image.Shape())
	}
	return image.Transpose(0, 2, 3, 1)
}

// FromChannelsLast converts a rank-4 ChannelsLast image batch to the given layout.
// If to is ChannelsLast, it is returned as is.
func FromChannelsLast(image *tensors.Tensor, to ChannelsAxisConfig) (*tensors.Tensor, error) {
	if err := to.Check(); err != nil {
		return nil, err
	}
	if to == ChannelsLast {
		return image, nil
	}
	if image.Rank() != 4 {
		return nil, errors.Errorf("FromChannelsLast: image batch shaped %s, wanted rank 4", image.Shape())
	}
	return image.Transpose(0, 3, 1, 2)
}
