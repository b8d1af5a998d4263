package sign

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildCannedPolicy(t *testing.T) {
	policy := BuildCannedPolicy("https://d111111abcdef8.cloudfront.net/hls/*", 1700003600)
	require.Equal(t,
		`{"Statement":[{"Resource":"https://d111111abcdef8.cloudfront.net/hls/*","Condition":{"DateLessThan":{"AWS:EpochTime":1700003600}}}]}`,
		policy)
}

func TestBuildCannedPolicyDeterministic(t *testing.T) {
	a := BuildCannedPolicy("https://example.com/a.m3u8", 42)
	b := BuildCannedPolicy("https://example.com/a.m3u8", 42)
	require.Equal(t, a, b)
}

func TestBuildCannedPolicyKeepsAmpersand(t *testing.T) {
	policy := BuildCannedPolicy("https://example.com/live.m3u8?a=1&b=<2>", 1)
	require.Contains(t, policy, `"Resource":"https://example.com/live.m3u8?a=1&b=<2>"`)
}

// Published with the aws-sdk-go CloudFront cookie signer examples
func TestCannedPolicyEncodingVector(t *testing.T) {
	policy := BuildCannedPolicy("http://example.com/somepath/*", 1257895800)
	require.Equal(t,
		"eyJTdGF0ZW1lbnQiOlt7IlJlc291cmNlIjoiaHR0cDovL2V4YW1wbGUuY29tL3NvbWVwYXRoLyoiLCJDb25kaXRpb24iOnsiRGF0ZUxlc3NUaGFuIjp7IkFXUzpFcG9jaFRpbWUiOjEyNTc4OTU4MDB9fX1dfQ__",
		Encode([]byte(policy)))
}

func TestParsePolicy(t *testing.T) {
	text := BuildCannedPolicy("https://example.com/*", 1700000000)
	p, err := ParsePolicy([]byte(text))
	require.Nil(t, err)
	require.Equal(t, "https://example.com/*", p.Resource())
	require.Equal(t, int64(1700000000), p.Expires())

	encoded, err := p.Encode()
	require.Nil(t, err)
	require.Equal(t, text, string(encoded))
}

func TestParsePolicyErrors(t *testing.T) {
	inputs := []string{
		`not json`,
		`{"Statement":[]}`,
		`{"Statement":[{"Resource":"a"}]}`,
		`{"Statement":[{"Resource":"a","Condition":{"DateLessThan":{"AWS:EpochTime":1}}},{"Resource":"b","Condition":{"DateLessThan":{"AWS:EpochTime":1}}}]}`,
	}
	for _, input := range inputs {
		_, err := ParsePolicy([]byte(input))
		require.NotNil(t, err, input)
	}
}

func TestEmptyPolicyAccessors(t *testing.T) {
	p := &Policy{}
	require.Equal(t, "", p.Resource())
	require.Equal(t, int64(0), p.Expires())
}

func TestExpiry(t *testing.T) {
	now := time.Unix(1700000000, 999999999)

	exp, err := Expiry(now, 3600)
	require.Nil(t, err)
	require.Equal(t, int64(1700003600), exp)

	exp, err = Expiry(now, 1)
	require.Nil(t, err)
	require.Equal(t, int64(1700000001), exp)

	// Offsets beyond time.Duration's range still add exactly
	exp, err = Expiry(now, 10000000000)
	require.Nil(t, err)
	require.Equal(t, int64(11700000000), exp)

	before := time.Now().Unix()
	exp, err = Expiry(time.Now(), 3600)
	require.Nil(t, err)
	after := time.Now().Unix()
	require.True(t, exp >= before+3600 && exp <= after+3600)
}

func TestExpiryOutOfRange(t *testing.T) {
	now := time.Unix(1700000000, 0)
	for _, seconds := range []int64{0, -1, MaxExpireSeconds + 1, math.MaxInt64} {
		_, err := Expiry(now, seconds)
		require.NotNil(t, err, seconds)
	}
}

func TestBuildCannedPolicyNonASCII(t *testing.T) {
	resource := "https://d.net/vidéo/*"
	policy := BuildCannedPolicy(resource, 1700003600)
	require.Equal(t,
		`{"Statement":[{"Resource":"https://d.net/vidéo/*","Condition":{"DateLessThan":{"AWS:EpochTime":1700003600}}}]}`,
		policy)

	// The \u escaped form decodes to the same resource
	escaped, err := ParsePolicy([]byte(`{"Statement":[{"Resource":"https://d.net/vid\u00e9o/*","Condition":{"DateLessThan":{"AWS:EpochTime":1700003600}}}]}`))
	require.Nil(t, err)
	require.Equal(t, resource, escaped.Resource())
}
