// Copyright 2026 The PatchGAN Authors. SPDX-License-Identifier: Apache-2.0

// Package hdf5 provides a trivial API to access HDF5 file contents: the dataset store of
// the training pairs.
//
// It requires the `hdf5-tools` (a deb package) installed in the system, more specifically the
// `h5dump` binary.
//
// It is basic but provides the necessary functionality to list the contents and extract
// the binary contents.
package hdf5

import (
	"bytes"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/patchgan/patchgan/pkg/core/dtypes"
	"github.com/patchgan/patchgan/pkg/core/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// H5DumpBinary is the name of the binary used to read HDF5 files.
const H5DumpBinary = "h5dump"

// Contents is a map of all the datasets present in the HDF5 file. The key is the path
// built from the concatenation of the "group" (how HDF5 calls directories or folders) with
// the dataset name, separated by a "/" character, e.g.: "/train_data_full".
type Contents map[string]*Dataset

// Dataset has (some of) the metadata about an HDF5 dataset (but not the data itself). The
// dataset "DATATYPE" and "DATASPACE" fields are converted to the equivalent `shapes.Shape`.
//
// If the DATATYPE is not supported, Shape.DType is dtypes.InvalidDType. If the DATASPACE
// is not supported, Shape.Dimensions is nil and Shape.DType is also invalid.
type Dataset struct {
	FilePath, GroupPath, RawHeader string
	Shape                          shapes.Shape
}

// runH5Dump executes h5dump with the given arguments and returns its standard output.
// Tests replace it with canned outputs.
var runH5Dump = execH5Dump

// ParseFile in filePath as an HDF5 file and returns map of contents.
//
// It requires the `hdf5-tools` (a deb package) installed in the system, more specifically the
// `h5dump` binary.
func ParseFile(filePath string) (contents Contents, err error) {
	// Check whether the file exists.
	if _, err = os.Stat(filePath); err != nil {
		err = errors.Wrapf(err, "cannot access HDF5 file in path %q", filePath)
		return
	}

	// List the contents of the filePath.
	listing, err := runH5Dump("--contents", filePath)
	if err != nil {
		return
	}
	contents = ParseContents(filePath, string(listing))
	if len(contents) == 0 {
		return contents, nil
	}

	// Read header for datasets.
	headerArgs := make([]string, 0, len(contents)+2)
	headerArgs = append(headerArgs, "--header")
	for key := range contents {
		headerArgs = append(headerArgs, "--dataset="+key)
	}
	headerArgs = append(headerArgs, filePath)
	headers, err := runH5Dump(headerArgs...)
	if err != nil {
		return
	}
	err = contents.ParseHeaders(string(headers))
	if err != nil {
		err = errors.WithMessagef(err, "reading headers of %q", filePath)
	}
	return
}

var (
	regexpH5Datasets               = regexp.MustCompile(`\s+dataset\s+(/.*)\n`)
	regexpH5DatasetHeaderName      = regexp.MustCompile(`\s+"(.*?)" \{\n`)
	regexpH5DatasetHeaderDataType  = regexp.MustCompile(`\s+DATATYPE\s+(\w.*?)\n`)
	regexpH5DatasetHeaderDataSpace = regexp.MustCompile(`\s+DATASPACE\s+(\w+)(\s+\{\s+\((.*?)\).*?)?\n`)
)

// ParseContents parses the output of `h5dump --contents` for the file in filePath.
// The returned datasets have only their FilePath and GroupPath set.
func ParseContents(filePath, listing string) Contents {
	matches := regexpH5Datasets.FindAllStringSubmatch(listing, -1)
	contents := make(Contents, len(matches))
	for _, match := range matches {
		groupPath := strings.TrimSpace(match[1])
		contents[groupPath] = &Dataset{
			FilePath:  filePath,
			GroupPath: groupPath,
		}
	}
	return contents
}

// ParseHeaders parses the output of `h5dump --header` for all datasets in contents, and sets their
// RawHeader and Shape.
//
// Unsupported data types or data spaces are not errors: the dataset Shape is left invalid.
func (contents Contents) ParseHeaders(headers string) error {
	rawDatasetHeaders := strings.Split(headers, "DATASET")
	if len(rawDatasetHeaders)-1 != len(contents) {
		return errors.Errorf("failed to parse dataset headers: expected %d DATASET, got %d",
			len(contents), len(rawDatasetHeaders)-1)
	}
	for _, part := range rawDatasetHeaders[1:] {
		matches := regexpH5DatasetHeaderName.FindStringSubmatch(part)
		if len(matches) != 2 {
			return errors.Errorf("failed to parse dataset header %q", part)
		}
		ds, found := contents[matches[1]]
		if !found {
			return errors.Errorf("header for unknown dataset %q", matches[1])
		}
		ds.RawHeader = "DATASET" + part
		ds.Shape = parseShape(ds.GroupPath, part)
	}
	return nil
}

// parseShape from the DATATYPE and DATASPACE of a dataset header.
func parseShape(groupPath, header string) shapes.Shape {
	matches := regexpH5DatasetHeaderDataType.FindStringSubmatch(header)
	if len(matches) != 2 {
		klog.V(1).Infof("hdf5: DATATYPE not parsed for %q", groupPath)
		return shapes.Invalid()
	}
	dtype := DTypeForH5T(matches[1])
	if dtype == dtypes.InvalidDType {
		klog.V(1).Infof("hdf5: DATATYPE %q of %q not supported", matches[1], groupPath)
		return shapes.Invalid()
	}

	matches = regexpH5DatasetHeaderDataSpace.FindStringSubmatch(header)
	if len(matches) != 4 {
		klog.V(1).Infof("hdf5: DATASPACE not parsed for %q", groupPath)
		return shapes.Invalid()
	}
	switch matches[1] {
	case "SCALAR":
		return shapes.Make(dtype)
	case "SIMPLE":
		dimsParts := strings.Split(matches[3], ",")
		dims := make([]int, 0, len(dimsParts))
		for _, dimStr := range dimsParts {
			dim, err := strconv.Atoi(strings.TrimSpace(dimStr))
			if err != nil || dim <= 0 {
				klog.V(1).Infof("hdf5: invalid dimension %q in DATASPACE of %q", dimStr, groupPath)
				return shapes.Invalid()
			}
			dims = append(dims, dim)
		}
		return shapes.Make(dtype, dims...)
	default:
		klog.V(1).Infof("hdf5: DATASPACE type %q of %q not supported", matches[1], groupPath)
		return shapes.Invalid()
	}
}

// DTypeForH5T returns the DType corresponding to known HDF5 types. If not know/supported, returns
// invalid dtype.
//
// Big-endian types are supported because data is always extracted in the native byte order.
func DTypeForH5T(h5type string) dtypes.DType {
	switch strings.TrimSpace(h5type) {
	case "H5T_STD_U8LE", "H5T_STD_U8BE":
		return dtypes.Uint8
	case "H5T_IEEE_F16LE", "H5T_IEEE_F16BE":
		return dtypes.Float16
	case "H5T_IEEE_F32LE", "H5T_IEEE_F32BE":
		return dtypes.Float32
	case "H5T_IEEE_F64LE", "H5T_IEEE_F64BE":
		return dtypes.Float64
	case "H5T_STD_I32LE", "H5T_STD_I32BE":
		return dtypes.Int32
	case "H5T_STD_I64LE", "H5T_STD_I64BE":
		return dtypes.Int64
	}
	return dtypes.InvalidDType
}

// execH5Dump executes `h5dump`, and handles errors.
func execH5Dump(args ...string) (output []byte, err error) {
	binPath, err := findBinPath()
	if err != nil {
		return
	}
	cmd := exec.Command(binPath, args...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdoutBuf, &stderrBuf
	err = cmd.Run()
	if err != nil {
		err = errors.Wrapf(err, "failed executing %q to access HDF5 file", cmd)
		err = errors.WithMessagef(err, "STDERR captured:\n%s\n", stderrBuf.String())
		return
	}
	output = stdoutBuf.Bytes()
	return
}

func findBinPath() (binPath string, err error) {
	binPath, err = exec.LookPath(H5DumpBinary)
	if err != nil {
		err = errors.Wrapf(err, "cannot find `h5dump` binary in PATH, needed to parse HDF5 "+
			"format files (extension \".h5\") -- please install package hdf5-tools, which usually "+
			"holds `h5dump`")
		return
	}
	klog.V(2).Infof("using h5dump from %q", binPath)
	return
}

// Load extracts the raw content of the dataset, in the native byte order of the machine.
func (ds *Dataset) Load() (rawContent []byte, err error) {
	tmpFile, err := os.CreateTemp("", "hdf5_dataset")
	if err == nil {
		err = tmpFile.Close()
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to create temporary file to extract HDF5 dataset")
		return
	}
	defer func() {
		if newErr := os.Remove(tmpFile.Name()); newErr != nil {
			klog.Warningf("Failed to remove temporary file %q used to extract HDF5 dataset: %+v", tmpFile.Name(), newErr)
		}
	}()
	_, err = runH5Dump("--dataset="+ds.GroupPath, "--binary=NATIVE", "--output="+tmpFile.Name(), ds.FilePath)
	if err != nil {
		return
	}
	rawContent, err = os.ReadFile(tmpFile.Name())
	if err != nil {
		err = errors.Wrapf(err, "failed to read from temporary file %q to extract HDF5 dataset", tmpFile.Name())
		return
	}
	if shape := ds.Shape; shape.Ok() && len(rawContent) != int(shape.Memory()) {
		err = errors.Errorf("HDF5 dataset %q shaped %s: extracted %d bytes, wanted %d",
			ds.GroupPath, shape, len(rawContent), shape.Memory())
	}
	return
}
