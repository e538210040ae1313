package auth

import "encoding/base64"

// The encoded hash format uses unpadded standard base64, matching the
// argon2 reference encoding.

func base64Encode(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}

func base64Decode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(s)
}
