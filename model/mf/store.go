// Copyright 2026 streamrec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mf

import (
	"encoding/binary"
	"io"

	"github.com/juju/errors"

	"github.com/streamrec-io/streamrec/base/encoding"
	"github.com/streamrec-io/streamrec/dataset"
)

// Store owns the bias terms and latent vectors of one entity namespace. Models
// hold two independent stores, one for users and one for items, so equal
// literal keys never collide across namespaces. Entries are created on first
// access and never removed. Each entry is its own allocation: the slices
// returned by Bias and Vector are the live storage and stay valid for the
// lifetime of the store.
type Store struct {
	dict       *dataset.FreqDict
	bias       [][]float32 // 1-element rows
	factor     [][]float32 // nFactors-element rows
	nFactors   int
	biasInit   Initializer
	factorInit Initializer
}

// NewStore creates an empty parameter store for one namespace.
func NewStore(nFactors int, biasInit, factorInit Initializer) *Store {
	return &Store{
		dict:       dataset.NewFreqDict(),
		nFactors:   nFactors,
		biasInit:   biasInit,
		factorInit: factorInit,
	}
}

// Count returns the number of distinct keys ever observed.
func (s *Store) Count() int {
	return s.dict.Count()
}

// Freq returns the number of (counted) accesses of a key.
func (s *Store) Freq(key string) int {
	id, ok := s.dict.Lookup(key)
	if !ok {
		return 0
	}
	return s.dict.Freq(id)
}

// Bias returns the bias term of key as a live 1-element slice, creating it via
// the bias initializer on first sight.
func (s *Store) Bias(key string) []float32 {
	id := s.dict.Id(key)
	for len(s.bias) <= id {
		s.bias = append(s.bias, nil)
	}
	if s.bias[id] == nil {
		s.bias[id] = s.biasInit.NewVector(1)
	}
	return s.bias[id]
}

// Vector returns the latent vector of key as a live slice, creating it via the
// factor initializer on first sight.
func (s *Store) Vector(key string) []float32 {
	id := s.dict.Id(key)
	for len(s.factor) <= id {
		s.factor = append(s.factor, nil)
	}
	if s.factor[id] == nil {
		s.factor[id] = s.factorInit.NewVector(s.nFactors)
	}
	return s.factor[id]
}

// Marshal writes the store to a byte stream.
func (s *Store) Marshal(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int32(s.dict.Count())); err != nil {
		return errors.Trace(err)
	}
	for id := 0; id < s.dict.Count(); id++ {
		key, _ := s.dict.String(id)
		if err := encoding.WriteString(w, key); err != nil {
			return errors.Trace(err)
		}
		var bias []float32
		if id < len(s.bias) {
			bias = s.bias[id]
		}
		if err := writeOptionalVector(w, bias); err != nil {
			return errors.Trace(err)
		}
		var factor []float32
		if id < len(s.factor) {
			factor = s.factor[id]
		}
		if err := writeOptionalVector(w, factor); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Unmarshal reads the store from a byte stream. The initializers of the store
// are kept for entities created after loading.
func (s *Store) Unmarshal(r io.Reader) error {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return errors.Trace(err)
	}
	s.dict = dataset.NewFreqDict()
	s.bias = make([][]float32, count)
	s.factor = make([][]float32, count)
	for i := 0; i < int(count); i++ {
		key, err := encoding.ReadString(r)
		if err != nil {
			return errors.Trace(err)
		}
		id := s.dict.NotCount(key)
		if s.bias[id], err = readOptionalVector(r); err != nil {
			return errors.Trace(err)
		}
		if s.factor[id], err = readOptionalVector(r); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func writeOptionalVector(w io.Writer, v []float32) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(v))); err != nil {
		return errors.Trace(err)
	}
	if len(v) > 0 {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func readOptionalVector(r io.Reader) ([]float32, error) {
	var size int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, errors.Trace(err)
	}
	if size == 0 {
		return nil, nil
	}
	v := make([]float32, size)
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return nil, errors.Trace(err)
	}
	return v, nil
}
