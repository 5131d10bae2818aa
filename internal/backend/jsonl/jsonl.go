// Package jsonl reads and writes movie documents as JSON Lines, one object
// per line. Files are written atomically through a temp file, fsync and
// rename.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/store"
)

// maxLine bounds a single JSONL record.
const maxLine = 1 << 20

// Result is the outcome of reading a JSONL stream.
type Result struct {
	Documents []store.Document
	Skipped   []int // 1-based line numbers that were not JSON objects
}

// Read decodes one document per non-empty line. Malformed lines are
// skipped and reported in Result.Skipped.
func Read(r io.Reader) (Result, error) {
	var res Result
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var doc store.Document
		if err := dec.Decode(&doc); err != nil || doc == nil {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		res.Documents = append(res.Documents, doc)
	}
	if err := scanner.Err(); err != nil {
		return res, errors.WrapParse("jsonl", "", line+1, err)
	}
	return res, nil
}

// ReadFile reads the JSONL file at path.
func ReadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, errors.WrapIO("open", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes each document on its own line.
func Write(w io.Writer, docs []store.Document) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
	}
	return bw.Flush()
}

// WriteFile atomically replaces path with docs.
func WriteFile(path string, docs []store.Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapIO(op, path, err)
	}

	if err := Write(tmp, docs); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("close", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// Documents strips identifiers from records for export.
func Documents(recs []store.Record) []store.Document {
	out := make([]store.Document, len(recs))
	for i, r := range recs {
		out[i] = r.Fields
	}
	return out
}
