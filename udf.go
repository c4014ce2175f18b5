// Package udf reads UDF documents: ZIP containers whose content.xml member
// carries the document text in a <content> element.
//
//	r, err := udf.New("dilekce.udf")
//	if err != nil {
//	    return err
//	}
//	text, err := r.Content(ctx)
//
// A Reader holds only the validated path and its configuration. Every read
// opens the archive afresh, so a Reader is safe for concurrent use.
package udf

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/udf/internal/archive"
	"github.com/hyperifyio/udf/internal/config"
	"github.com/hyperifyio/udf/internal/textnorm"
	"github.com/hyperifyio/udf/internal/xmltree"
)

// NoContent is returned by Content when the payload has no content element,
// or the element carries no text.
const NoContent = "No content found"

// Node is an element of a parsed payload.
type Node = xmltree.Node

// Reader reads one UDF document.
type Reader struct {
	path string
	cfg  Config
	form textnorm.Form
	log  zerolog.Logger
}

// New validates path and returns a Reader for it. Checks run in order and
// stop at the first failure: empty path and wrong extension
// (ErrInvalidArgument, no filesystem access), missing file (ErrNotFound),
// not a ZIP archive (ErrInvalidFormat).
func New(path string, opts ...Option) (*Reader, error) {
	r := &Reader{cfg: config.Default(), log: log.Logger}
	for _, opt := range opts {
		opt(r)
	}
	form, err := config.Resolve(r.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	r.form = form

	if path == "" {
		return nil, fmt.Errorf("%w: path is empty", ErrInvalidArgument)
	}
	if !strings.HasSuffix(path, r.cfg.Extension) {
		return nil, fmt.Errorf("%w: wrong extension: %q does not end with %q", ErrInvalidArgument, path, r.cfg.Extension)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err := archive.Validate(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	r.path = path
	r.log.Debug().Str("path", path).Bool("staging", r.cfg.Staging).Msg("udf document validated")
	return r, nil
}

// Path returns the validated document path.
func (r *Reader) Path() string { return r.path }

// ReadStructured extracts the payload member, parses it and returns the root
// element. A missing member yields ErrNotFound, an oversized or corrupt one
// ErrInvalidFormat, and malformed XML ErrParse. In staging mode, failures to
// create or write the staged file are returned with context but no kind.
func (r *Reader) ReadStructured(ctx context.Context) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := archive.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	defer a.Close()

	if r.cfg.Staging {
		return r.parseStaged(a)
	}
	return r.parseInMemory(a)
}

// Content returns the trimmed text of the first content element below the
// payload root, or NoContent. Every failure is reported as
// ErrContentUnavailable with the cause kept in the chain.
func (r *Reader) Content(ctx context.Context) (string, error) {
	root, err := r.ReadStructured(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}
	el := root.FindFirst(r.cfg.Element)
	if el == nil {
		return NoContent, nil
	}
	text, ok := el.TextOK()
	if !ok {
		return NoContent, nil
	}
	return strings.TrimSpace(r.form.Apply(text)), nil
}

func (r *Reader) parseInMemory(a *archive.Archive) (*Node, error) {
	b, err := a.ReadMember(r.cfg.Member, r.cfg.MaxPayloadBytes)
	if err != nil {
		return nil, classifyMemberErr(err)
	}
	r.log.Debug().Str("path", r.path).Str("member", r.cfg.Member).Int("bytes", len(b)).Msg("read archive member")

	root, err := xmltree.ParseBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return root, nil
}

func (r *Reader) parseStaged(a *archive.Archive) (*Node, error) {
	staged, cleanup, err := a.StageMember(r.cfg.Member, r.cfg.StagingDir, r.cfg.MaxPayloadBytes)
	if err != nil {
		return nil, classifyMemberErr(err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			r.log.Warn().Err(err).Str("staged", staged).Msg("remove staged member failed")
		}
	}()
	r.log.Debug().Str("path", r.path).Str("member", r.cfg.Member).Str("staged", staged).Msg("staged archive member")

	f, err := os.Open(staged)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: staged member vanished: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("open staged member: %w", err)
	}
	defer f.Close()

	root, err := xmltree.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return root, nil
}

func classifyMemberErr(err error) error {
	switch {
	case errors.Is(err, archive.ErrMemberNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, archive.ErrMemberTooLarge),
		errors.Is(err, archive.ErrCorruptMember),
		errors.Is(err, zip.ErrFormat),
		errors.Is(err, zip.ErrChecksum),
		errors.Is(err, zip.ErrAlgorithm):
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	default:
		return err
	}
}
