// SPDX-License-Identifier: Apache-2.0

// Package retrieval opens filings for projection, from the filing host or
// from a local file.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fecmcp/fec-mcp/internal/docquery"
	"github.com/fecmcp/fec-mcp/internal/filing"
	"github.com/fecmcp/fec-mcp/internal/filing/fecfile"
)

// Fetcher downloads a filing body. *docquery.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, id filing.ID) (*docquery.Document, error)
}

// Retriever opens filings and attaches a decoder.
type Retriever struct {
	fetcher Fetcher
	strict  bool
	logger  *zap.Logger
}

// New creates a Retriever. strict rejects records with unmapped columns.
func New(fetcher Fetcher, strict bool, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{fetcher: fetcher, strict: strict, logger: logger}
}

// Filing is an opened filing. Close removes any spooled body.
type Filing struct {
	ID      filing.ID
	Decoder *fecfile.Decoder
	doc     *docquery.Document
}

func (f *Filing) Close() error {
	return f.doc.Close()
}

// Open downloads and opens filing id.
func (r *Retriever) Open(ctx context.Context, id filing.ID) (*Filing, error) {
	doc, err := r.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.attach(id, doc)
}

// OpenFile opens a local .fec file. id labels errors and output; it may be zero.
func (r *Retriever) OpenFile(path string, id filing.ID) (*Filing, error) {
	doc, err := docquery.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return r.attach(id, doc)
}

func (r *Retriever) attach(id filing.ID, doc *docquery.Document) (*Filing, error) {
	dec, err := fecfile.Open(doc, doc.Size(),
		fecfile.WithStrictLayouts(r.strict),
		fecfile.WithLogger(r.logger.With(zap.Stringer("filing_id", id))))
	if err != nil {
		_ = doc.Close()
		return nil, &filing.DecodeError{FilingID: id, Err: fmt.Errorf("open: %w", err)}
	}
	return &Filing{ID: id, Decoder: dec, doc: doc}, nil
}
