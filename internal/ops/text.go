package ops

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// decodeText 严格按 UTF-8 解码，并把 \r\n、\r 统一为 \n
func decodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		off := 0
		for off < len(b) {
			r, size := utf8.DecodeRune(b[off:])
			if r == utf8.RuneError && size <= 1 {
				break
			}
			off += size
		}
		return "", fmt.Errorf("'utf-8' codec can't decode byte 0x%02x in position %d", b[off], off)
	}
	s := string(b)
	if strings.IndexByte(s, '\r') < 0 {
		return s, nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n"), nil
}
