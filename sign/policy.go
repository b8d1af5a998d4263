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
package sign

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Policy is a CloudFront access policy document
type Policy struct {
	Statements []Statement `json:"Statement"`
}

// Statement grants access to a single resource
type Statement struct {
	Resource  string    `json:"Resource"`
	Condition Condition `json:"Condition"`
}

// Condition restricts when a Statement applies. Canned policies only
// carry an expiry.
type Condition struct {
	DateLessThan EpochTime `json:"DateLessThan"`
}

// EpochTime wraps a unix timestamp in the shape CloudFront expects
type EpochTime struct {
	Value int64 `json:"AWS:EpochTime"`
}

// NewCannedPolicy returns a policy granting access to resource until
// the given unix time.
func NewCannedPolicy(resource string, expires int64) *Policy {
	return &Policy{
		Statements: []Statement{{
			Resource:  resource,
			Condition: Condition{DateLessThan: EpochTime{Value: expires}},
		}},
	}
}

// BuildCannedPolicy returns the canonical JSON text of a canned policy.
// The same inputs always produce the same bytes.
func BuildCannedPolicy(resource string, expires int64) string {
	b, err := NewCannedPolicy(resource, expires).Encode()
	if err != nil {
		// Only strings and integers are encoded here
		panic(err)
	}
	return string(b)
}

// Encode returns the compact JSON form of the policy. HTML characters are
// left unescaped so resources containing '&' sign as written.
func (p *Policy) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, errors.Wrap(err, "encode policy")
	}
	// Encoder terminates each value with a newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Resource returns the resource of the first statement
func (p *Policy) Resource() string {
	if len(p.Statements) == 0 {
		return ""
	}
	return p.Statements[0].Resource
}

// Expires returns the expiry of the first statement as unix seconds
func (p *Policy) Expires() int64 {
	if len(p.Statements) == 0 {
		return 0
	}
	return p.Statements[0].Condition.DateLessThan.Value
}

// ParsePolicy decodes a policy document. Exactly one statement is
// accepted, as CloudFront does for signed URLs and cookies.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parse policy")
	}
	if len(p.Statements) != 1 {
		return nil, errors.Errorf("policy has %d statements, expected 1",
			len(p.Statements))
	}
	if p.Expires() == 0 {
		return nil, errors.New("policy has no DateLessThan condition")
	}
	return &p, nil
}

// MaxExpireSeconds bounds the offset accepted by Expiry
const MaxExpireSeconds = 100 * 365 * 24 * 60 * 60

// Expiry returns the unix time seconds after now, truncated to seconds.
// Offsets must be positive and no more than MaxExpireSeconds.
func Expiry(now time.Time, seconds int64) (int64, error) {
	if seconds <= 0 || seconds > MaxExpireSeconds {
		return 0, errors.Errorf("expiry offset %d out of range (1 - %d seconds)",
			seconds, MaxExpireSeconds)
	}
	return now.Unix() + seconds, nil
}
