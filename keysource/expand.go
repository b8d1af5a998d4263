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
	"fmt"

	"github.com/drone/envsubst"
)

// LookupFunc resolves a variable name, reporting whether it is set
type LookupFunc func(key string) (string, bool)

// Expand substitutes ${VAR} references in a key location, for example
// s3://${KEY_BUCKET}/cloudfront.pem. Unset variables are an error.
func Expand(location string, lookup LookupFunc) (result string, finalErr error) {
	result, err := envsubst.Eval(location, func(key string) string {
		value, found := lookup(key)
		if !found && finalErr == nil {
			finalErr = fmt.Errorf("Unknown variable in key location %s: %s", location, key)
		}
		return value
	})
	if err != nil {
		return "", fmt.Errorf("Invalid key location %s: %s", location, err)
	}
	if finalErr != nil {
		return "", finalErr
	}
	return result, nil
}
