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
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Rating is one observation at the boundary of the online models. Only UserId
// and ItemId are consumed by models, Labels carries opaque extra fields.
type Rating struct {
	UserId string
	ItemId string
	Value  float32
	Labels []string
}

// ForEachRating streams ratings from a delimited text file. Each line consists
// of a user id, an item id and a rating value, any remaining fields are kept
// as labels. Records are handed to fn one at a time in file order.
func ForEachRating(path, sep string, fn func(rating Rating) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) < 3 {
			return errors.Errorf("dataset: expect at least 3 fields, got %d", len(fields))
		}
		value, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return errors.Trace(err)
		}
		rating := Rating{
			UserId: fields[0],
			ItemId: fields[1],
			Value:  float32(value),
		}
		if len(fields) > 3 {
			rating.Labels = fields[3:]
		}
		if err = fn(rating); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(scanner.Err())
}

// LoadRatings reads all ratings from a delimited text file.
func LoadRatings(path, sep string) ([]Rating, error) {
	var ratings []Rating
	err := ForEachRating(path, sep, func(rating Rating) error {
		ratings = append(ratings, rating)
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ratings, nil
}
