// Package corpus reads tokenized reference and hypothesis files and writes
// alignments. Tokens are whitespace-delimited; no other tokenization is
// applied.
package corpus

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
)

// maxLineSize bounds a single reference line.
const maxLineSize = 16 * 1024 * 1024

// Tokenize splits text on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// ReadReferences reads one tokenized sentence per line. Blank lines are
// kept as empty sentences so line numbers stay aligned with the output.
func ReadReferences(path string) ([][]string, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sentences, err := ParseReferences(f)
	if err != nil {
		return nil, amerrors.New(amerrors.ErrCodeInvalidInput, "failed to read "+path, err)
	}
	return sentences, nil
}

// ReadSegments reads an already aligned file, one segment per line.
func ReadSegments(path string) ([][]string, error) {
	return ReadReferences(path)
}

// ParseReferences tokenizes r line by line.
func ParseReferences(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var sentences [][]string
	for scanner.Scan() {
		sentences = append(sentences, Tokenize(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sentences, nil
}

// ReadHypothesis reads the whole file as one token stream; line breaks are
// treated like any other whitespace.
func ReadHypothesis(path string) ([]string, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, amerrors.New(amerrors.ErrCodeInvalidInput, "failed to read "+path, err)
	}
	return Tokenize(string(data)), nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, amerrors.New(amerrors.ErrCodeFileNotFound, "file not found: "+path, err).
			WithDetail("path", path).
			WithSuggestion("Check the file path")
	case errors.Is(err, fs.ErrPermission):
		return nil, amerrors.New(amerrors.ErrCodeFilePermission, "permission denied: "+path, err).
			WithDetail("path", path)
	default:
		return nil, amerrors.IOError("failed to open "+path, err).WithDetail("path", path)
	}
}
