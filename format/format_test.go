package format

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/fugue/cfsign/sign"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type item struct {
	Resource  string
	Expires   string
	KeyPairID string
	Status    string
}

func TestFormatTable(t *testing.T) {

	items := []interface{}{
		item{"https://d.net/*", "2023-11-14T23:13:20Z", "K2JCJMDEHXQW5F", "valid"},
		item{"https://d.net/a.ts", "-", "KID", "expired"},
	}

	rows, err := Table(TableOpts{
		Rows:       items,
		Columns:    []string{"Resource", "KeyPairID", "Status"},
		ShowHeader: true,
	})
	require.Nil(t, err)

	expected := []string{
		"=============================================",
		"RESOURCE           | KEY_PAIR_ID    | STATUS ",
		"=============================================",
		"https://d.net/*    | K2JCJMDEHXQW5F | valid  ",
		"https://d.net/a.ts | KID            | expired",
	}
	require.Equal(t, expected, rows)
}

func TestFormatTableNoHeader(t *testing.T) {

	items := []interface{}{
		item{Resource: "a", Status: "ok"},
		item{Resource: "abcdef", Status: "failed"},
	}

	rows, err := Table(TableOpts{
		Rows:      items,
		Columns:   []string{"Resource", "Status"},
		Separator: " . ",
		Colors:    []*color.Color{GreenColor, RedColor},
	})
	require.Nil(t, err)
	require.Equal(t, []string{
		"a      . ok    ",
		"abcdef . failed",
	}, rows)
}

func TestFormatTableErrors(t *testing.T) {
	_, err := Table(TableOpts{Columns: []string{"Resource"}})
	require.NotNil(t, err)

	_, err = Table(TableOpts{Rows: []interface{}{item{}}})
	require.NotNil(t, err)

	_, err = Table(TableOpts{Rows: []interface{}{item{}}, Columns: []string{"Nope"}})
	require.NotNil(t, err)
}

func TestToSnakeCase(t *testing.T) {
	require.Equal(t, "key_pair_id", toSnakeCase("KeyPairID"))
	require.Equal(t, "resource", toSnakeCase("Resource"))
	require.Equal(t, "http_only", toSnakeCase("HTTPOnly"))
	require.Equal(t, "favorite_number", toSnakeCase("FavoriteNumber"))
}

func TestUnix(t *testing.T) {
	require.Equal(t, "-", Unix(0))
	require.Equal(t, "2023-11-14T23:13:20Z", Unix(1700003600))
}

func testSigned() *sign.Signed {
	return &sign.Signed{
		Resource:  "https://d.net/hls/*",
		Expires:   1700003600,
		KeyPairID: "KID",
		Policy:    "cG9saWN5",
		Signature: "c2ln~-_",
	}
}

func TestCookieText(t *testing.T) {
	opts := sign.DefaultCookieOptions()
	opts.Domain = "media.example.com"
	var buf bytes.Buffer
	err := CookieText(&buf, testSigned().Cookies(opts), CookieTextOpts{Expires: 1700003600})
	require.Nil(t, err)

	expected := `
# Expires: 2023-11-14T23:13:20Z (1700003600)

# Set-Cookie headers:
Set-Cookie: CloudFront-Policy=cG9saWN5; Path=/; Domain=media.example.com; HttpOnly; Secure
Set-Cookie: CloudFront-Signature=c2ln~-_; Path=/; Domain=media.example.com; HttpOnly; Secure
Set-Cookie: CloudFront-Key-Pair-Id=KID; Path=/; Domain=media.example.com; HttpOnly; Secure

# curl example:
curl -H 'Cookie: CloudFront-Policy=cG9saWN5' -H 'Cookie: CloudFront-Signature=c2ln~-_' -H 'Cookie: CloudFront-Key-Pair-Id=KID' '<HLS_MANIFEST_URL>'
`
	require.Equal(t, expected, buf.String())
}

func TestCookieTextManifestURL(t *testing.T) {
	var buf bytes.Buffer
	cookies := []*http.Cookie{{Name: "CloudFront-Key-Pair-Id", Value: "KID", Path: "/"}}
	err := CookieText(&buf, cookies, CookieTextOpts{ManifestURL: "https://d.net/it's.m3u8"})
	require.Nil(t, err)
	require.Equal(t, `
# Set-Cookie headers:
Set-Cookie: CloudFront-Key-Pair-Id=KID; Path=/

# curl example:
curl -H 'Cookie: CloudFront-Key-Pair-Id=KID' 'https://d.net/it'\''s.m3u8'
`, buf.String())
}

func TestCookieJSON(t *testing.T) {
	var buf bytes.Buffer
	doc := NewCookieDocument(testSigned(), sign.DefaultCookieOptions())
	require.Nil(t, CookieJSON(&buf, doc))
	require.Equal(t,
		`{"resource":"https://d.net/hls/*","expires":1700003600,"cookies":{"CloudFront-Policy":"cG9saWN5","CloudFront-Signature":"c2ln~-_","CloudFront-Key-Pair-Id":"KID"},"cookie_attributes":{"path":"/","domain":null,"secure":true,"httponly":true}}`+"\n",
		buf.String())

	opts := sign.DefaultCookieOptions()
	opts.Domain = ".example.com"
	buf.Reset()
	require.Nil(t, CookieJSON(&buf, NewCookieDocument(testSigned(), opts)))

	var decoded map[string]interface{}
	require.Nil(t, json.Unmarshal(buf.Bytes(), &decoded))
	attrs := decoded["cookie_attributes"].(map[string]interface{})
	require.Equal(t, ".example.com", attrs["domain"])
}

func TestCookieJSONNoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	signed := testSigned()
	signed.Resource = "https://d.net/hls/index.m3u8?a=1&b=<2>"
	require.Nil(t, CookieJSON(&buf, NewCookieDocument(signed, sign.DefaultCookieOptions())))
	require.Contains(t, buf.String(), `"resource":"https://d.net/hls/index.m3u8?a=1&b=<2>"`)
	require.NotContains(t, buf.String(), `\u0026`)
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
}
