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
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrExpired is returned when a policy's DateLessThan has passed
	ErrExpired = errors.New("policy expired")

	// ErrSignature is returned when a signature does not match its policy
	ErrSignature = errors.New("signature mismatch")
)

// Verify checks an encoded policy and signature against the public key
// and confirms the policy has not expired at now. The decoded policy is
// returned on success, and also alongside ErrExpired.
func Verify(pub *rsa.PublicKey, encodedPolicy, encodedSignature string, now time.Time) (*Policy, error) {
	policyBytes, err := Decode(encodedPolicy)
	if err != nil {
		return nil, errors.Wrap(err, "policy")
	}
	sig, err := Decode(encodedSignature)
	if err != nil {
		return nil, errors.Wrap(err, "signature")
	}
	policy, err := ParsePolicy(policyBytes)
	if err != nil {
		return nil, err
	}
	digest := sha1.Sum(policyBytes)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig); err != nil {
		return policy, ErrSignature
	}
	if now.Unix() >= policy.Expires() {
		return policy, ErrExpired
	}
	return policy, nil
}

// Verification describes a signed URL after verification
type Verification struct {
	Resource  string
	Expires   int64
	KeyPairID string
	Err       error
}

// VerifyURL checks a signed URL. When the URL carries no Policy parameter
// the canned policy is rebuilt from the Expires parameter and the URL
// itself. The policy resource must match the URL it was attached to.
func VerifyURL(pub *rsa.PublicKey, signedURL string, now time.Time) (*Verification, error) {
	if _, err := url.Parse(signedURL); err != nil {
		return nil, errors.Wrapf(err, "parse url %s", signedURL)
	}
	_, rawQuery, _ := splitURL(signedURL)
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, errors.Wrapf(err, "parse query of %s", signedURL)
	}
	signature := query.Get(ParamSignature)
	if signature == "" {
		return nil, errors.New("url has no Signature parameter")
	}
	resource := unsignedURL(signedURL)

	encodedPolicy := query.Get(ParamPolicy)
	if encodedPolicy == "" {
		expires, err := strconv.ParseInt(query.Get(ParamExpires), 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "url has no Policy and an invalid Expires")
		}
		encodedPolicy = Encode([]byte(BuildCannedPolicy(resource, expires)))
	}

	v := &Verification{KeyPairID: query.Get(ParamKeyPairID)}
	policy, err := Verify(pub, encodedPolicy, signature, now)
	if policy != nil {
		v.Resource = policy.Resource()
		v.Expires = policy.Expires()
	}
	if err == nil && !MatchResource(v.Resource, resource) {
		err = errors.Errorf("policy resource %s does not match %s", v.Resource, resource)
	}
	if err == nil && query.Get(ParamExpires) != "" &&
		query.Get(ParamExpires) != strconv.FormatInt(v.Expires, 10) {
		err = errors.New("Expires parameter does not match policy")
	}
	v.Err = err
	return v, nil
}

// MatchResource reports whether a policy resource covers the URL. In a
// policy resource '*' matches any run of characters, including none, and
// '?' matches exactly one.
func MatchResource(pattern, resource string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return pattern == resource
	}
	expr := regexp.QuoteMeta(pattern)
	expr = strings.Replace(expr, `\*`, ".*", -1)
	expr = strings.Replace(expr, `\?`, ".", -1)
	re, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return false
	}
	return re.MatchString(resource)
}
