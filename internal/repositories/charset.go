package repositories

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// TextDecoder turns raw 8-bit column bytes into text
type TextDecoder func([]byte) (string, error)

// UTF8Decoder passes bytes through as UTF-8 text
func UTF8Decoder(b []byte) (string, error) {
	return string(b), nil
}

// Windows1250Decoder decodes the central European code page Pohoda exports use
func Windows1250Decoder(b []byte) (string, error) {
	out, err := charmap.Windows1250.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecoderForCharset resolves a configured charset name
func DecoderForCharset(name string) (TextDecoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return UTF8Decoder, nil
	case "windows-1250", "cp1250":
		return Windows1250Decoder, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
}
