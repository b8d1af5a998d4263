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
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ssm"
)

type ssmSource struct {
	name string
	api  SSMAPI
}

// NewSSM returns a Source that reads a key from a Parameter Store
// parameter. SecureString parameters are decrypted.
func NewSSM(api SSMAPI, name string) Source {
	return &ssmSource{name: name, api: api}
}

func (s *ssmSource) Read(ctx context.Context) ([]byte, error) {
	output, err := s.api.GetParameterWithContext(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound(fmt.Sprintf("Not found: %s", s.name))
		}
		return nil, fmt.Errorf("Failed to get parameter %s: %s", s.name, err)
	}
	if output.Parameter == nil || output.Parameter.Value == nil {
		return nil, NotFound(fmt.Sprintf("Parameter has no value: %s", s.name))
	}
	return readLimited(strings.NewReader(*output.Parameter.Value), s.String())
}

func (s *ssmSource) String() string {
	return "ssm:" + s.name
}
