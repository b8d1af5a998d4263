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
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Query parameter names used by signed URLs
const (
	ParamExpires   = "Expires"
	ParamKeyPairID = "Key-Pair-Id"
	ParamSignature = "Signature"
	ParamPolicy    = "Policy"
)

// Query returns the four signed URL query parameters
func (s *Signed) Query() url.Values {
	return url.Values{
		ParamExpires:   {strconv.FormatInt(s.Expires, 10)},
		ParamKeyPairID: {s.KeyPairID},
		ParamSignature: {s.Signature},
		ParamPolicy:    {s.Policy},
	}
}

// SignedURL adds the signing parameters to the resource URL. The resource
// is kept exactly as written, since it must match the signed policy byte
// for byte. A query already present keeps everything but the signing
// parameters it carried.
func SignedURL(resource string, s *Signed) (string, error) {
	if _, err := url.Parse(resource); err != nil {
		return "", errors.Wrapf(err, "parse resource %s", resource)
	}
	base, rawQuery, fragment := splitURL(resource)
	query := withoutSigning(rawQuery)
	if query != "" {
		query += "&"
	}
	return base + "?" + query + s.Query().Encode() + fragment, nil
}

// splitURL splits a raw URL into the part before the query, the raw query
// and the fragment including its '#'. No escaping is applied.
func splitURL(rawURL string) (base, rawQuery, fragment string) {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL, fragment = rawURL[:i], rawURL[i:]
	}
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i], rawURL[i+1:], fragment
	}
	return rawURL, "", fragment
}

// unsignedURL returns a signed URL with its signing parameters removed
func unsignedURL(signedURL string) string {
	base, rawQuery, fragment := splitURL(signedURL)
	if query := withoutSigning(rawQuery); query != "" {
		base += "?" + query
	}
	return base + fragment
}

// SignURL signs rawURL as its own resource and returns the signed URL
func (s *Signer) SignURL(rawURL string, expires time.Time) (string, error) {
	signed, err := s.Sign(rawURL, expires)
	if err != nil {
		return "", err
	}
	return SignedURL(rawURL, signed)
}

// ResourceURL joins a CloudFront domain and object path into an https URL
func ResourceURL(domain, path string) string {
	domain = strings.TrimSuffix(domain, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "https://" + domain + path
}

func isSigningParam(key string) bool {
	switch key {
	case ParamExpires, ParamKeyPairID, ParamSignature, ParamPolicy:
		return true
	}
	return false
}

// withoutSigning drops signing parameters from a raw query, leaving the
// order and encoding of everything else untouched.
func withoutSigning(rawQuery string) string {
	var kept []string
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key := part
		if i := strings.IndexByte(part, '='); i >= 0 {
			key = part[:i]
		}
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		if isSigningParam(key) {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "&")
}
