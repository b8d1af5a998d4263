package sign

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	// openssl pkey -pubin -in testdata/public_pkix.pem -outform DER | shasum -a 256
	expected := "a999bd1f126801ec45884b35e4cc3576c325fe2d65058f9b5db04dc2411ce59a"

	for _, name := range []string{"public_pkix.pem", "public_pkcs1.pem", "cert.pem", "private_pkcs8.pem"} {
		pub, err := ParsePublicKey(readTestdata(t, name))
		require.Nil(t, err)
		fp, err := Fingerprint(pub)
		require.Nil(t, err)
		require.Equal(t, expected, fp, name)
	}

	other, err := ParsePublicKey(readTestdata(t, "other_pkcs1.pem"))
	require.Nil(t, err)
	fp, err := Fingerprint(other)
	require.Nil(t, err)
	require.NotEqual(t, expected, fp)
}
