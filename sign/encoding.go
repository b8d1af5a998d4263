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
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

// Standard base64 with '+' -> '-', '/' -> '~' and '=' -> '_'
const safeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-~"

// SafeEncoding is the base64 variant CloudFront expects in URLs and cookies
var SafeEncoding = base64.NewEncoding(safeAlphabet).WithPadding('_').Strict()

// Encode returns the CloudFront-safe base64 encoding of b
func Encode(b []byte) string {
	return SafeEncoding.EncodeToString(b)
}

// Decode reverses Encode. Input using the standard base64 alphabet, line
// breaks and nonzero trailing bits are rejected, so every accepted string
// is exactly the encoding of its result.
func Decode(s string) ([]byte, error) {
	if i := strings.IndexAny(s, "+/=\r\n"); i >= 0 {
		return nil, errors.Errorf("invalid character %q at offset %d", s[i], i)
	}
	b, err := SafeEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode cloudfront base64")
	}
	return b, nil
}
