// Package archive gives read access to the ZIP container of a document.
// Members are read into memory by default; StageMember exists for callers
// that need the payload as a file on disk.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrNotZip reports that a file could not be opened as a ZIP archive.
	ErrNotZip = errors.New("not a zip archive")
	// ErrMemberNotFound reports that the archive has no member by that name.
	ErrMemberNotFound = errors.New("archive member not found")
	// ErrMemberTooLarge reports a member whose size exceeds the read limit.
	ErrMemberTooLarge = errors.New("archive member too large")
	// ErrCorruptMember reports a member whose data cannot be decompressed or
	// fails its checksum.
	ErrCorruptMember = errors.New("archive member corrupt")
)

// Archive is an open ZIP container. Close must be called when done.
type Archive struct {
	path string
	zr   *zip.ReadCloser
}

// Validate reports whether path opens as a ZIP archive. The archive is closed
// before returning.
func Validate(path string) error {
	a, err := Open(path)
	if err != nil {
		return err
	}
	return a.Close()
}

// Open opens the archive at path for reading.
func Open(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotZip, path, err)
	}
	return &Archive{path: path, zr: zr}, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	if a == nil || a.zr == nil {
		return nil
	}
	return a.zr.Close()
}

// Names lists member names in central directory order.
func (a *Archive) Names() []string {
	out := make([]string, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		out = append(out, f.Name)
	}
	return out
}

// Member returns the member whose name matches exactly.
func (a *Archive) Member(name string) (*zip.File, error) {
	for _, f := range a.zr.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrMemberNotFound, name, a.path)
}

// ReadMember returns the contents of the named member. A limit <= 0 means no
// limit; otherwise members larger than limit bytes are rejected, whether the
// size comes from the header or from the decompressed stream.
func (a *Archive) ReadMember(name string, limit int64) ([]byte, error) {
	f, err := a.Member(name)
	if err != nil {
		return nil, err
	}
	rc, err := openLimited(f, limit)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

// StageMember writes the named member into a fresh directory under dir and
// returns the file path together with a cleanup func that removes the
// directory. When dir is empty the system temp directory is used. Each call
// gets its own directory, so concurrent callers never share a file.
func (a *Archive) StageMember(name, dir string, limit int64) (string, func() error, error) {
	f, err := a.Member(name)
	if err != nil {
		return "", nil, err
	}
	rc, err := openLimited(f, limit)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	stageDir, err := os.MkdirTemp(dir, "udf-*")
	if err != nil {
		return "", nil, fmt.Errorf("create staging dir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(stageDir) }

	// Staged names never leave stageDir even if the member name has a path.
	p := filepath.Join(stageDir, filepath.Base(filepath.FromSlash(name)))
	out, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		_ = cleanup()
		return "", nil, fmt.Errorf("create staged file: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		_ = cleanup()
		return "", nil, fmt.Errorf("stage %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		_ = cleanup()
		return "", nil, fmt.Errorf("stage %s: %w", name, err)
	}
	return p, cleanup, nil
}

func openLimited(f *zip.File, limit int64) (io.ReadCloser, error) {
	if limit > 0 && f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrMemberTooLarge, f.Name, f.UncompressedSize64, limit)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrCorruptMember, f.Name, err)
	}
	return &memberReader{rc: rc, name: f.Name, limited: limit > 0, left: limit}, nil
}

// memberReader tags decompression failures with ErrCorruptMember and, when
// limited, fails instead of truncating once more than the limit has been
// read, so a header that understates the size is still caught.
type memberReader struct {
	rc      io.ReadCloser
	name    string
	limited bool
	left    int64
}

func (m *memberReader) Read(p []byte) (int, error) {
	if m.limited {
		if m.left < 0 {
			return 0, fmt.Errorf("%w: %s exceeds limit", ErrMemberTooLarge, m.name)
		}
		// One byte past the limit is enough to detect overflow. len(p) > left
		// keeps left+1 from overflowing.
		if int64(len(p)) > m.left {
			p = p[:m.left+1]
		}
	}
	n, err := m.rc.Read(p)
	if m.limited {
		m.left -= int64(n)
		if m.left < 0 {
			return n, fmt.Errorf("%w: %s exceeds limit", ErrMemberTooLarge, m.name)
		}
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %s: %w", ErrCorruptMember, m.name, err)
	}
	return n, err
}

func (m *memberReader) Close() error { return m.rc.Close() }
