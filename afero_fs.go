package fat16

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/fat16go/fat16/checkpoint"
)

// AferoFS exposes a Volume as an afero.Fs, restricted to exactly what this
// reader supports: opening the root directory ("/") for listing, and opening
// a regular file by its 8.3 name directly under root. Any path containing a
// separator, or that does not match a root entry, fails with ErrNotFound.
// Every mutating method panics, since this reader has no write support at
// all.
type AferoFS struct {
	volume *Volume
}

// NewAferoFS wraps volume as a read-only afero.Fs.
func NewAferoFS(volume *Volume) *AferoFS {
	return &AferoFS{volume: volume}
}

// rootFileInfo is a synthetic os.FileInfo for the root directory itself,
// which has no SFN entry of its own.
type rootFileInfo struct{}

func (rootFileInfo) Name() string       { return "/" }
func (rootFileInfo) Size() int64        { return 0 }
func (rootFileInfo) Mode() os.FileMode  { return os.ModeDir }
func (rootFileInfo) ModTime() time.Time { return time.Time{} }
func (rootFileInfo) IsDir() bool        { return true }
func (rootFileInfo) Sys() interface{}   { return nil }

// aferoFile adapts a DirCursor (for the root), a FileStream (for a regular
// file), or a bare Entry (for a subdirectory this reader can stat but not
// descend into, per its root-only scope) to the afero.File interface.
type aferoFile struct {
	name string
	dir  *DirCursor
	file *FileStream
	sub  *Entry
}

func (f *aferoFile) Close() error {
	if f.dir != nil {
		return f.dir.Close()
	}
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

func (f *aferoFile) Read(p []byte) (int, error) {
	if f.file == nil {
		return 0, checkpoint.From(ErrIsDirectory)
	}
	return f.file.Read(p)
}

func (f *aferoFile) ReadAt(p []byte, off int64) (int, error) {
	if f.file == nil {
		return 0, checkpoint.From(ErrIsDirectory)
	}
	if _, err := f.file.Seek(off, os.SEEK_SET); err != nil {
		return 0, err
	}
	return f.file.Read(p)
}

func (f *aferoFile) Seek(offset int64, whence int) (int64, error) {
	if f.file == nil {
		return 0, checkpoint.From(ErrIsDirectory)
	}
	return f.file.Seek(offset, whence)
}

func (f *aferoFile) Write(p []byte) (int, error)             { panic("fat16: read-only filesystem") }
func (f *aferoFile) WriteAt(p []byte, off int64) (int, error) { panic("fat16: read-only filesystem") }
func (f *aferoFile) WriteString(s string) (int, error)       { panic("fat16: read-only filesystem") }
func (f *aferoFile) Truncate(size int64) error               { panic("fat16: read-only filesystem") }
func (f *aferoFile) Sync() error                             { return nil }
func (f *aferoFile) Name() string                            { return f.name }

func (f *aferoFile) Stat() (os.FileInfo, error) {
	switch {
	case f.file != nil:
		return f.file.Entry(), nil
	case f.sub != nil:
		return *f.sub, nil
	default:
		return rootFileInfo{}, nil
	}
}

// Readdir lists the root's entries when called on the root itself. Called on
// a subdirectory stub it returns an empty, non-error listing: this reader
// cannot descend into subdirectories, but treating that as "empty" rather
// than an error lets generic tooling (afero.Walk and friends) traverse the
// tree without special-casing this reader's scope.
func (f *aferoFile) Readdir(count int) ([]os.FileInfo, error) {
	if f.dir == nil {
		return nil, nil
	}

	var infos []os.FileInfo
	for count <= 0 || len(infos) < count {
		entry, err := f.dir.Read()
		if err != nil {
			break
		}
		infos = append(infos, entry)
	}
	return infos, nil
}

func (f *aferoFile) Readdirnames(n int) ([]string, error) {
	infos, err := f.Readdir(n)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names, nil
}

// Open opens name, which must be either "/" (the root directory) or a bare
// 8.3 name matching a root entry — this reader does not resolve nested paths.
func (a *AferoFS) Open(name string) (afero.File, error) {
	clean := strings.TrimPrefix(name, "/")

	if clean == "" {
		cursor, err := OpenDir(a.volume, rootPath)
		if err != nil {
			return nil, err
		}
		return &aferoFile{name: "/", dir: cursor}, nil
	}

	if strings.ContainsAny(clean, `/\`) {
		return nil, checkpoint.From(ErrNotFound)
	}

	if entry, ok := findRootEntry(a.volume, clean); ok && entry.IsDir() {
		return &aferoFile{name: clean, sub: &entry}, nil
	}

	stream, err := OpenFile(a.volume, clean)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, checkpoint.From(ErrNotFound)
	}

	return &aferoFile{name: clean, file: stream}, nil
}

// findRootEntry scans the root directory for an entry named exactly name, so
// Open can tell a directory entry from a regular file before deciding which
// kind of aferoFile to build.
func findRootEntry(v *Volume, name string) (Entry, bool) {
	cursor, err := OpenDir(v, rootPath)
	if err != nil {
		return Entry{}, false
	}
	defer cursor.Close()

	for {
		entry, err := cursor.Read()
		if err != nil {
			return Entry{}, false
		}
		if entry.Name() == name {
			return entry, true
		}
	}
}

func (a *AferoFS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return a.Open(name)
}

func (a *AferoFS) Stat(name string) (os.FileInfo, error) {
	f, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Stat()
}

func (a *AferoFS) Name() string { return "fat16" }

func (a *AferoFS) Create(name string) (afero.File, error)          { panic("fat16: read-only filesystem") }
func (a *AferoFS) Mkdir(name string, perm os.FileMode) error        { panic("fat16: read-only filesystem") }
func (a *AferoFS) MkdirAll(path string, perm os.FileMode) error     { panic("fat16: read-only filesystem") }
func (a *AferoFS) Remove(name string) error                         { panic("fat16: read-only filesystem") }
func (a *AferoFS) RemoveAll(path string) error                      { panic("fat16: read-only filesystem") }
func (a *AferoFS) Rename(oldname, newname string) error             { panic("fat16: read-only filesystem") }
func (a *AferoFS) Chmod(name string, mode os.FileMode) error        { panic("fat16: read-only filesystem") }
func (a *AferoFS) Chown(name string, uid, gid int) error            { panic("fat16: read-only filesystem") }
func (a *AferoFS) Chtimes(name string, atime, mtime time.Time) error {
	panic("fat16: read-only filesystem")
}
