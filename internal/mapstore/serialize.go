package mapstore

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"fmt"

	"github.com/plasmadyn/fluxgrid/internal/narray"
)

// encodeArray compresses the array data using gob encoding and gzip
// compression. Shape travels in the surrounding table columns.
func encodeArray(a *narray.Array3D) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(a.Data); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeArray decompresses and decodes an array blob, checking the data
// length against the declared shape.
func decodeArray(blob []byte, nx, ny, nz int) (*narray.Array3D, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty array blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var data []float64
	dec := gob.NewDecoder(gz)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode array data: %w", err)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("array blob holds %d values, shape (%d, %d, %d) needs %d",
			len(data), nx, ny, nz, nx*ny*nz)
	}
	return &narray.Array3D{NX: nx, NY: ny, NZ: nz, Data: data}, nil
}
