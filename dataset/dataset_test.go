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

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTempRatings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratings.csv")
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func TestLoadRatings(t *testing.T) {
	path := writeTempRatings(t, "1,100,5\n2,101,3.5,comedy\n\n3,100,1\n")
	ratings, err := LoadRatings(path, ",")
	assert.NoError(t, err)
	assert.Equal(t, []Rating{
		{UserId: "1", ItemId: "100", Value: 5},
		{UserId: "2", ItemId: "101", Value: 3.5, Labels: []string{"comedy"}},
		{UserId: "3", ItemId: "100", Value: 1},
	}, ratings)
}

func TestForEachRating_Errors(t *testing.T) {
	// missing file
	err := ForEachRating("no_such_file", ",", func(Rating) error { return nil })
	assert.Error(t, err)
	// short record
	path := writeTempRatings(t, "1,100\n")
	err = ForEachRating(path, ",", func(Rating) error { return nil })
	assert.Error(t, err)
	// malformed value
	path = writeTempRatings(t, "1,100,abc\n")
	err = ForEachRating(path, ",", func(Rating) error { return nil })
	assert.Error(t, err)
}
