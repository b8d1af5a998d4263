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
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fugue/cfsign/sign"
)

// ManifestPlaceholder stands in for the playlist URL in the curl example
const ManifestPlaceholder = "<HLS_MANIFEST_URL>"

// CookieTextOpts control the human readable cookie output
type CookieTextOpts struct {
	Expires     int64
	ManifestURL string
}

// CookieText writes Set-Cookie header lines followed by a curl command
// that replays the cookies against the manifest URL.
func CookieText(w io.Writer, cookies []*http.Cookie, opts CookieTextOpts) error {
	manifest := opts.ManifestURL
	if manifest == "" {
		manifest = ManifestPlaceholder
	}

	var b strings.Builder
	if opts.Expires != 0 {
		fmt.Fprintf(&b, "\n%s\n", Cyan(fmt.Sprintf("# Expires: %s (%d)", Unix(opts.Expires), opts.Expires)))
	}
	fmt.Fprintf(&b, "\n%s\n", Cyan("# Set-Cookie headers:"))
	for _, c := range cookies {
		fmt.Fprintf(&b, "Set-Cookie: %s\n", c.String())
	}

	fmt.Fprintf(&b, "\n%s\n", Cyan("# curl example:"))
	headers := make([]string, len(cookies))
	for i, c := range cookies {
		headers[i] = "-H " + shellQuote(fmt.Sprintf("Cookie: %s=%s", c.Name, c.Value))
	}
	fmt.Fprintf(&b, "curl %s %s\n", strings.Join(headers, " "), shellQuote(manifest))

	_, err := io.WriteString(w, b.String())
	return err
}

// CookieValues holds the three cookie values in their emitted order
type CookieValues struct {
	Policy    string `json:"CloudFront-Policy"`
	Signature string `json:"CloudFront-Signature"`
	KeyPairID string `json:"CloudFront-Key-Pair-Id"`
}

// CookieAttributes are the attributes a server should set on each cookie
type CookieAttributes struct {
	Path     string  `json:"path"`
	Domain   *string `json:"domain"`
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"httponly"`
}

// CookieDocument is the machine readable cookie output
type CookieDocument struct {
	Resource         string           `json:"resource"`
	Expires          int64            `json:"expires"`
	Cookies          CookieValues     `json:"cookies"`
	CookieAttributes CookieAttributes `json:"cookie_attributes"`
}

// NewCookieDocument describes signed cookies. An empty domain is
// rendered as null.
func NewCookieDocument(signed *sign.Signed, opts sign.CookieOptions) CookieDocument {
	doc := CookieDocument{
		Resource: signed.Resource,
		Expires:  signed.Expires,
		Cookies: CookieValues{
			Policy:    signed.Policy,
			Signature: signed.Signature,
			KeyPairID: signed.KeyPairID,
		},
		CookieAttributes: CookieAttributes{
			Path:     opts.Path,
			Secure:   opts.Secure,
			HTTPOnly: opts.HTTPOnly,
		},
	}
	if opts.Domain != "" {
		domain := opts.Domain
		doc.CookieAttributes.Domain = &domain
	}
	return doc
}

// CookieJSON writes the document as a single line of JSON. Resources are
// written as given, without HTML escaping.
func CookieJSON(w io.Writer, doc CookieDocument) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// shellQuote wraps s in single quotes for POSIX shells
func shellQuote(s string) string {
	return "'" + strings.Replace(s, "'", `'\''`, -1) + "'"
}
