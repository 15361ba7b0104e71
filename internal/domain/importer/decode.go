package importer

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText devuelve el contenido del archivo como texto UTF-8. Las hojas
// exportadas desde Excel suelen venir con BOM o en Windows-1252.
func DecodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	r := transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder())
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decodificar windows-1252: %w", err)
	}
	return string(decoded), nil
}
