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
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Cookie names used by signed cookies
const (
	CookiePolicy    = "CloudFront-Policy"
	CookieSignature = "CloudFront-Signature"
	CookieKeyPairID = "CloudFront-Key-Pair-Id"
)

// CookieOptions are the attributes set on each signed cookie
type CookieOptions struct {
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
}

// DefaultCookieOptions returns secure, HTTP-only cookies scoped to "/"
func DefaultCookieOptions() CookieOptions {
	return CookieOptions{Path: "/", Secure: true, HTTPOnly: true}
}

// Cookies returns the policy, signature and key pair ID cookies in that
// order.
func (s *Signed) Cookies(opts CookieOptions) []*http.Cookie {
	values := [][2]string{
		{CookiePolicy, s.Policy},
		{CookieSignature, s.Signature},
		{CookieKeyPairID, s.KeyPairID},
	}
	cookies := make([]*http.Cookie, len(values))
	for i, v := range values {
		cookies[i] = &http.Cookie{
			Name:     v[0],
			Value:    v[1],
			Path:     opts.Path,
			Domain:   opts.Domain,
			Secure:   opts.Secure,
			HttpOnly: opts.HTTPOnly,
		}
	}
	return cookies
}

// ValidateCookieDomain checks that domain is usable as a cookie Domain
// attribute. http.Cookie drops domains it considers invalid, such as one
// carrying a port, so they are rejected here instead. An empty domain is
// valid and means no Domain attribute.
func ValidateCookieDomain(domain string) error {
	if domain == "" {
		return nil
	}
	host := strings.TrimPrefix(domain, ".")
	if ip := net.ParseIP(host); ip != nil && !strings.Contains(host, ":") {
		return nil
	}
	if !isDomainName(host) {
		return errors.Errorf("invalid cookie domain %q", domain)
	}
	return nil
}

// isDomainName follows RFC 1034 section 3.5 with the relaxations browsers
// apply: labels may contain '_', and a leading dot was already removed.
func isDomainName(s string) bool {
	if len(s) == 0 || len(s) > 255 {
		return false
	}
	var last byte = '.'
	nonNumeric := false
	labelLen := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_':
			nonNumeric = true
			labelLen++
		case '0' <= c && c <= '9':
			labelLen++
		case c == '-':
			if last == '.' {
				return false
			}
			nonNumeric = true
			labelLen++
		case c == '.':
			if last == '.' || last == '-' || labelLen > 63 {
				return false
			}
			labelLen = 0
		default:
			return false
		}
		last = c
	}
	return last != '-' && last != '.' && labelLen <= 63 && nonNumeric
}
