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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamrec-io/streamrec/base/encoding"
	"github.com/streamrec-io/streamrec/model"
)

func TestMarshalModel(t *testing.T) {
	names := []string{"baseline", "funk_mf", "biased_mf"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			m, err := NewModel(name, model.Params{
				model.NFactors:    4,
				model.RandomState: int64(42),
			})
			assert.NoError(t, err)
			for _, r := range syntheticRatings(100) {
				m.Update(r.UserId, r.ItemId, r.Value)
			}
			// Marshal.
			buf := bytes.NewBuffer(nil)
			err = MarshalModel(buf, m)
			assert.NoError(t, err)
			// Unmarshal.
			restored, err := UnmarshalModel(buf)
			assert.NoError(t, err)
			assert.Equal(t, name, GetModelName(restored))
			assert.Equal(t, m.GlobalMean(), restored.GlobalMean())
			assert.Equal(t, m.NumObserved(), restored.NumObserved())
			assert.Equal(t, m.Predict("user1", "item2"), restored.Predict("user1", "item2"))
			// The restored model keeps learning.
			restored.Update("user1", "item2", 5)
			assert.Equal(t, m.NumObserved()+1, restored.NumObserved())
		})
	}
}

func TestUnmarshalModel_UnknownName(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	err := encoding.WriteString(buf, "svd++")
	assert.NoError(t, err)
	_, err = UnmarshalModel(buf)
	assert.ErrorContains(t, err, "unknown model")
}
