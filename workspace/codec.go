package workspace

import (
	"bytes"
	"encoding/base64"
)

// Encoding tags how an export payload arrived from the workspace API.
type Encoding string

const (
	EncodingBinary Encoding = "binary"
	EncodingBase64 Encoding = "base64"
	EncodingText   Encoding = "text"
)

// base64 of the PDF magic number "%PDF". An export that hands back bytes
// starting with this is a base64 string rendered as bytes, not a real PDF.
var base64PDFMagic = []byte("JVBERi")

// Encode prepares raw file content for the workspace import API, which
// expects base64 text regardless of the import format.
func Encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// Decode normalizes an export payload to raw bytes. The workspace API is
// inconsistent about what it returns: sometimes raw binary, sometimes a
// base64 string, sometimes a base64 string already rendered into bytes.
// Decode never fails; it degrades through the chain and returns its best
// effort along with the encoding it detected.
//
// hint says how the payload arrived: EncodingBinary for byte-typed
// responses, EncodingText for string-typed ones.
func Decode(payload []byte, hint Encoding) ([]byte, Encoding) {
	if len(payload) == 0 {
		return payload, hint
	}

	if hint == EncodingBinary {
		if bytes.HasPrefix(payload, base64PDFMagic) {
			if decoded, ok := tryBase64(payload); ok {
				return decoded, EncodingBase64
			}
		}
		// already proper binary content
		return payload, EncodingBinary
	}

	// string-typed payload: assume base64 first
	if decoded, ok := tryBase64(payload); ok {
		return decoded, EncodingBase64
	}

	// not base64, treat as plain text content
	return payload, EncodingText
}

// tryBase64 decodes standard base64, tolerating the line breaks the export
// API inserts into long payloads.
func tryBase64(payload []byte) ([]byte, bool) {
	compact := make([]byte, 0, len(payload))
	for _, b := range payload {
		if b == '\n' || b == '\r' || b == ' ' || b == '\t' {
			continue
		}
		compact = append(compact, b)
	}
	if len(compact) == 0 {
		return nil, false
	}
	decoded, err := base64.StdEncoding.DecodeString(string(compact))
	if err != nil {
		return nil, false
	}
	return decoded, true
}
