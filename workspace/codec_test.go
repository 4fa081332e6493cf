package workspace

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfBytes(n int) []byte {
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x01, 0xff, 0x42}, n)...)
	return content[:n]
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := pdfBytes(1000)

	encoded := Encode(raw)
	decoded, encoding := Decode([]byte(encoded), EncodingText)

	require.Equal(t, raw, decoded)
	assert.Equal(t, EncodingBase64, encoding)
}

func TestDecodeSniffsBase64RenderedAsBytes(t *testing.T) {
	raw := pdfBytes(1000)

	// base64 text of a PDF rendered into a byte payload starts with JVBERi
	payload := []byte(base64.StdEncoding.EncodeToString(raw))
	require.True(t, bytes.HasPrefix(payload, []byte("JVBERi")))

	decoded, encoding := Decode(payload, EncodingBinary)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, EncodingBase64, encoding)
}

func TestDecodeLeavesRawBinaryUntouched(t *testing.T) {
	raw := pdfBytes(512)

	decoded, encoding := Decode(raw, EncodingBinary)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, EncodingBinary, encoding)
}

func TestDecodeMalformedBase64FallsBackToText(t *testing.T) {
	payload := []byte("this is plain text, not base64!!")

	decoded, encoding := Decode(payload, EncodingText)
	assert.Equal(t, payload, decoded)
	assert.Equal(t, EncodingText, encoding)
}

func TestDecodeToleratesLineBreaksInBase64(t *testing.T) {
	raw := pdfBytes(300)
	encoded := base64.StdEncoding.EncodeToString(raw)

	// the export API wraps long payloads
	var wrapped bytes.Buffer
	for i := 0; i < len(encoded); i += 64 {
		end := i + 64
		if end > len(encoded) {
			end = len(encoded)
		}
		wrapped.WriteString(encoded[i:end])
		wrapped.WriteByte('\n')
	}

	decoded, encoding := Decode(wrapped.Bytes(), EncodingText)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, EncodingBase64, encoding)
}

func TestDecodeEmptyPayload(t *testing.T) {
	decoded, _ := Decode(nil, EncodingText)
	assert.Empty(t, decoded)
}
