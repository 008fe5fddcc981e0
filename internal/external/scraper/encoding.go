package scraper

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Decode1251 переводит текст из Windows-1251 в UTF-8
func Decode1251(data []byte) (string, error) {
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode windows-1251: %w", err)
	}
	return string(decoded), nil
}

// Encode1251 переводит UTF-8 в Windows-1251
func Encode1251(text string) ([]byte, error) {
	encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode windows-1251: %w", err)
	}
	return encoded, nil
}

// declaresCharset проверяет, указал ли сервер кодировку. В этом случае
// colly уже перекодировал тело в UTF-8.
func declaresCharset(headers *http.Header) bool {
	if headers == nil {
		return false
	}
	return strings.Contains(strings.ToLower(headers.Get("Content-Type")), "charset")
}
