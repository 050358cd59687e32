package util

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang/snappy"
	"golang.org/x/exp/constraints"
)

func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return fmt.Errorf("error creating output dir '%s': %w", dir, err)
	}
	return nil
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// WriteBinary gob encodes data and stores it snappy compressed.
func WriteBinary(filename string, data any) error {
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("error encoding '%s': %w", filename, err)
	}
	if err := EnsureDir(filepath.Dir(filename)); err != nil {
		return err
	}
	if err := os.WriteFile(filename, snappy.Encode(nil, buf.Bytes()), 0666); err != nil {
		return fmt.Errorf("error writing '%s': %w", filename, err)
	}
	return nil
}

func ReadBinary[A any](filename string) (A, error) {
	var data A
	compressed, err := os.ReadFile(filename)
	if err != nil {
		return data, fmt.Errorf("error reading '%s': %w", filename, err)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return data, fmt.Errorf("error decompressing '%s': %w", filename, err)
	}
	decoder := gob.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&data); err != nil {
		return data, fmt.Errorf("error decoding '%s': %w", filename, err)
	}
	return data, nil
}

func Clamp[A constraints.Integer | constraints.Float](v, lo, hi A) A {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp maps t in [0,1] onto [lo,hi].
func Lerp[A constraints.Float](lo, hi, t A) A {
	return lo + t*(hi-lo)
}

func Sum[A constraints.Integer | constraints.Float](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}

func Mean[A constraints.Float](nums []A) A {
	if len(nums) == 0 {
		return 0
	}
	return Sum(nums) / A(len(nums))
}
