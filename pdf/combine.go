/*
combine.go - Order-preserving PDF concatenation

PURPOSE:
  A reasonable-adjustment letter can arrive as several rendered parts
  (cover letter, enclosures). They are concatenated into one document
  before storage, pages in input order.

FAILURE POLICY:
  Combination failure is logged and whatever partial output the merge
  produced (possibly empty) is used, rather than aborting the whole
  consolidation. The business event already happened; losing its
  evidence record over a merge failure is worse than storing a
  best-effort document.
*/
package pdf

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Combine concatenates the given documents into one PDF, pages in input
// order. Best-effort: on merge failure the error is logged and the partial
// output is returned. Zero inputs yield nil; a single input is returned
// as-is.
func Combine(pdfs []Pdf) []byte {
	switch len(pdfs) {
	case 0:
		return nil
	case 1:
		return pdfs[0].Data
	}

	readers := make([]io.ReadSeeker, 0, len(pdfs))
	for _, p := range pdfs {
		readers = append(readers, bytes.NewReader(p.Data))
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, nil); err != nil {
		slog.Error("failed to combine pdfs but carrying on",
			"documents", len(pdfs),
			"error", err,
		)
	}
	return buf.Bytes()
}
