// Package archive extracts CFDI records from ZIP archives of XML files.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/cfdi"
)

// Warning records one archive entry that was skipped.
type Warning struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// Result is the outcome of one archive run: the records that extracted
// cleanly, in archive-listing order, and a warning per skipped entry.
type Result struct {
	Records  []domain.Record
	Warnings []Warning
}

// ProcessZip walks the archive in listing order and extracts every entry
// whose name ends in .xml (case-insensitive). A document that fails to
// parse is skipped with a warning; it never aborts the rest of the archive.
// An archive with no XML entries yields an empty result, not an error.
func ProcessZip(ctx context.Context, data []byte) (Result, error) {
	logger := zerolog.Ctx(ctx)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open zip archive: %w", err)
	}

	var result Result
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name), ".xml") {
			continue
		}

		content, err := readEntry(entry)
		if err != nil {
			logger.Warn().Str("file", entry.Name).Err(err).Msg("skipping unreadable archive entry")
			result.Warnings = append(result.Warnings, Warning{File: entry.Name, Err: err.Error()})
			continue
		}

		rec, err := cfdi.Extract(entry.Name, content)
		if err != nil {
			logger.Warn().Str("file", entry.Name).Err(err).Msg("skipping unparsable document")
			result.Warnings = append(result.Warnings, Warning{File: entry.Name, Err: err.Error()})
			continue
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
