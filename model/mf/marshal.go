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
	"reflect"

	"github.com/juju/errors"

	"github.com/streamrec-io/streamrec/base/encoding"
	"github.com/streamrec-io/streamrec/model"
)

// marshalState writes the global mean and both parameter stores.
func (m *BaseOnlineModel) marshalState(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, m.mean); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.count); err != nil {
		return errors.Trace(err)
	}
	if err := m.Users.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(m.Items.Marshal(w))
}

// unmarshalState reads the global mean and both parameter stores.
func (m *BaseOnlineModel) unmarshalState(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &m.mean); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &m.count); err != nil {
		return errors.Trace(err)
	}
	if err := m.Users.Unmarshal(r); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(m.Items.Unmarshal(r))
}

// Marshal model into byte stream.
func (bl *Baseline) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, bl.Params); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(bl.marshalState(w))
}

// Unmarshal model from byte stream. The restored model resumes training with
// default optimizers derived from its hyper-parameters.
func (bl *Baseline) Unmarshal(r io.Reader) error {
	var params model.Params
	if err := encoding.ReadGob(r, &params); err != nil {
		return errors.Trace(err)
	}
	if err := bl.init(params); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(bl.unmarshalState(r))
}

// Marshal model into byte stream.
func (funk *FunkMF) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, funk.Params); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(funk.marshalState(w))
}

// Unmarshal model from byte stream. The restored model resumes training with
// default optimizers derived from its hyper-parameters.
func (funk *FunkMF) Unmarshal(r io.Reader) error {
	var params model.Params
	if err := encoding.ReadGob(r, &params); err != nil {
		return errors.Trace(err)
	}
	if err := funk.init(params); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(funk.unmarshalState(r))
}

// Marshal model into byte stream.
func (mf *BiasedMF) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, mf.Params); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(mf.marshalState(w))
}

// Unmarshal model from byte stream. The restored model resumes training with
// default optimizers derived from its hyper-parameters.
func (mf *BiasedMF) Unmarshal(r io.Reader) error {
	var params model.Params
	if err := encoding.ReadGob(r, &params); err != nil {
		return errors.Trace(err)
	}
	if err := mf.init(params); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(mf.unmarshalState(r))
}

// GetModelName returns the name of an online model.
func GetModelName(m OnlineModel) string {
	switch m.(type) {
	case *Baseline:
		return "baseline"
	case *FunkMF:
		return "funk_mf"
	case *BiasedMF:
		return "biased_mf"
	default:
		return reflect.TypeOf(m).String()
	}
}

// MarshalModel writes a named online model into byte stream.
func MarshalModel(w io.Writer, m OnlineModel) error {
	if err := encoding.WriteString(w, GetModelName(m)); err != nil {
		return errors.Trace(err)
	}
	if err := m.Marshal(w); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// UnmarshalModel reads a named online model from byte stream.
func UnmarshalModel(r io.Reader) (OnlineModel, error) {
	name, err := encoding.ReadString(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	switch name {
	case "baseline":
		var bl Baseline
		if err := bl.Unmarshal(r); err != nil {
			return nil, errors.Trace(err)
		}
		return &bl, nil
	case "funk_mf":
		var funk FunkMF
		if err := funk.Unmarshal(r); err != nil {
			return nil, errors.Trace(err)
		}
		return &funk, nil
	case "biased_mf":
		var mf BiasedMF
		if err := mf.Unmarshal(r); err != nil {
			return nil, errors.Trace(err)
		}
		return &mf, nil
	}
	return nil, errors.Errorf("unknown model %v", name)
}

// NewModel creates an online model by name.
func NewModel(name string, params model.Params, opts ...Option) (OnlineModel, error) {
	switch name {
	case "baseline":
		return NewBaseline(params, opts...)
	case "funk_mf":
		return NewFunkMF(params, opts...)
	case "biased_mf":
		return NewBiasedMF(params, opts...)
	}
	return nil, errors.Errorf("unknown model %v", name)
}
