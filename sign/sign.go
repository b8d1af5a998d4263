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

// Package sign creates CloudFront signed URLs and signed cookies from
// canned policies.
//
// A canned policy grants access to one resource until an expiry time. The
// policy JSON is signed with RSA PKCS#1 v1.5 over SHA-1, and both policy
// and signature are carried in CloudFront's URL-safe base64 alphabet
// alongside the ID of the CloudFront public key that verifies them.
package sign

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"time"

	"github.com/pkg/errors"
)

// SignPolicy signs the policy text with the private key
func SignPolicy(key *rsa.PrivateKey, policy string) ([]byte, error) {
	if key == nil {
		return nil, errors.New("no private key")
	}
	digest := sha1.Sum([]byte(policy))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "sign policy")
	}
	return sig, nil
}

// Signed holds the encoded results of signing a canned policy
type Signed struct {
	Resource  string
	Expires   int64
	KeyPairID string

	// Policy is the CloudFront-safe base64 policy document
	Policy string

	// Signature is the CloudFront-safe base64 signature of the policy
	Signature string
}

// Signer signs canned policies with a CloudFront key pair
type Signer struct {
	KeyPairID string
	key       *rsa.PrivateKey
}

// New returns a Signer for the given CloudFront public key ID and the
// matching private key.
func New(keyPairID string, key *rsa.PrivateKey) *Signer {
	return &Signer{KeyPairID: keyPairID, key: key}
}

// Sign builds and signs a canned policy for the resource
func (s *Signer) Sign(resource string, expires time.Time) (*Signed, error) {
	if resource == "" {
		return nil, errors.New("no resource to sign")
	}
	if s.KeyPairID == "" {
		return nil, errors.New("no key pair ID")
	}
	exp := expires.Unix()
	policy := BuildCannedPolicy(resource, exp)
	sig, err := SignPolicy(s.key, policy)
	if err != nil {
		return nil, err
	}
	return &Signed{
		Resource:  resource,
		Expires:   exp,
		KeyPairID: s.KeyPairID,
		Policy:    Encode([]byte(policy)),
		Signature: Encode(sig),
	}, nil
}
