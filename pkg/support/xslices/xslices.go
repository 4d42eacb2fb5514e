// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package xslices provide missing functionality to the slices package.
package xslices

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Iota returns a slice of incremental int values, starting with start and of length len.
// Eg: Iota(3.0, 2) -> []float64{3.0, 4.0}
func Iota[T constraints.Integer | constraints.Float](start T, len int) (slice []T) {
	slice = make([]T, len)
	for ii := range slice {
		slice[ii] = start + T(ii)
	}
	return
}

// Map executes the given function sequentially for every element on in, and returns a mapped slice.
func Map[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}

// Product of all elements. It returns 1 for an empty slice.
func Product[T constraints.Integer | constraints.Float](slice []T) T {
	p := T(1)
	for _, e := range slice {
		p *= e
	}
	return p
}

// FlagVar defines a flag for []T in the given flag set with the given name, description and default value.
// It takes as input a parser for an individual T value, and values are given comma-separated.
//
// If fs is nil, flag.CommandLine is used.
func FlagVar[T any](fs *flag.FlagSet, name string, defaultValue []T, usage string,
	parserFn func(valueStr string) (T, error)) *[]T {
	if fs == nil {
		fs = flag.CommandLine
	}
	f := &sliceFlag[T]{
		parsed:   defaultValue,
		parserFn: parserFn,
	}
	fs.Var(f, name, usage)
	return &f.parsed
}

// IntsFlagVar is FlagVar for a list of ints.
func IntsFlagVar(fs *flag.FlagSet, name string, defaultValue []int, usage string) *[]int {
	return FlagVar(fs, name, defaultValue, usage, func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	})
}

// sliceFlag implements flag.Value for a generic slice.
type sliceFlag[T any] struct {
	parsed   []T
	parserFn func(valueStr string) (T, error)
}

func (f *sliceFlag[T]) String() string {
	if f == nil || len(f.parsed) == 0 {
		return ""
	}
	return strings.Join(Map(f.parsed, func(e T) string { return fmt.Sprint(e) }), ",")
}

func (f *sliceFlag[T]) Set(listStr string) error {
	if listStr == "" {
		f.parsed = make([]T, 0)
		return nil
	}
	parts := strings.Split(listStr, ",")
	parsed := make([]T, len(parts))
	for ii, part := range parts {
		var err error
		parsed[ii], err = f.parserFn(part)
		if err != nil {
			return err
		}
	}
	f.parsed = parsed
	return nil
}
