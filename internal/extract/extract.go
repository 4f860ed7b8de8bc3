package extract

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"ragkb/internal/domain"
)

// Text converts an uploaded file's raw bytes into plain text, dispatching
// on the lowercase file-name suffix. Supported suffixes are .txt, .md and
// .docx; anything else is rejected before chunking is attempted.
func Text(data []byte, fileName string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: the file is empty", domain.ErrInvalidInput)
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return docxText(data)
	case ".txt", ".md":
		return plainText(data)
	default:
		return "", fmt.Errorf("%w: only .txt, .md or .docx files are supported", domain.ErrInvalidInput)
	}
}

// plainText reads the bytes as UTF-8 line-delimited text. Every line is
// terminated with a single \n, which normalizes CRLF endings.
func plainText(data []byte) (string, error) {
	var b strings.Builder
	b.Grow(len(data))
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: unreadable text file: %v", domain.ErrInvalidInput, err)
	}
	return b.String(), nil
}
