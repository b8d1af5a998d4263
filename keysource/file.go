// Copyright 2020 Fugue, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package keysource

import (
	"context"
	"fmt"
	"os"
)

type fileSource struct {
	path string
}

// NewFile returns a Source backed by a file on the local filesystem
func NewFile(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Read(ctx context.Context) ([]byte, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound(fmt.Sprintf("Not found: %s", s.path))
		}
		return nil, fmt.Errorf("Failed to open %s: %s", s.path, err)
	}
	defer f.Close()
	return readLimited(f, s.path)
}

func (s *fileSource) String() string {
	return s.path
}
