package fat16

import (
	"errors"
	"io/fs"
	"os"
)

// GoFS adapts a Volume to the standard io/fs.FS (and fs.ReadDirFS,
// fs.StatFS) interfaces by delegating to an AferoFS. This is the surface
// meant for callers who want to use fs.WalkDir, fs.Glob, http.FS and the
// rest of the io/fs-based standard library against a FAT16 image, rather
// than afero's own (richer, mutating-capable) interface.
type GoFS struct {
	afero *AferoFS
}

// NewGoFS wraps volume as an io/fs.FS.
func NewGoFS(volume *Volume) *GoFS {
	return &GoFS{afero: NewAferoFS(volume)}
}

func (g *GoFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	path := name
	if path == "." {
		path = "/"
	}

	f, err := g.afero.Open(path)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: translatePathError(err)}
	}

	return &goFile{name: name, inner: f}, nil
}

func (g *GoFS) Stat(name string) (fs.FileInfo, error) {
	f, err := g.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Stat()
}

// ReadDir implements fs.ReadDirFS for "." (the root) only, since this reader
// has no subdirectories to descend into.
func (g *GoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." && name != "/" {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	f, err := g.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd, ok := f.(fs.ReadDirFile)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	return rd.ReadDir(-1)
}

func translatePathError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fs.ErrNotExist
	}
	return err
}

// goFile adapts an afero.File (from aferoFile) to fs.File and fs.ReadDirFile.
type goFile struct {
	name  string
	inner interface {
		Close() error
		Read([]byte) (int, error)
		Stat() (os.FileInfo, error)
		Readdir(int) ([]os.FileInfo, error)
	}
}

func (g *goFile) Close() error               { return g.inner.Close() }
func (g *goFile) Read(p []byte) (int, error) { return g.inner.Read(p) }
func (g *goFile) Stat() (fs.FileInfo, error) { return g.inner.Stat() }

func (g *goFile) ReadDir(n int) ([]fs.DirEntry, error) {
	infos, err := g.inner.Readdir(n)
	if err != nil {
		return nil, err
	}

	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = goDirEntry{info}
	}
	return entries, nil
}

// goDirEntry adapts an os.FileInfo (an Entry, in practice) to fs.DirEntry.
type goDirEntry struct {
	info os.FileInfo
}

func (e goDirEntry) Name() string               { return e.info.Name() }
func (e goDirEntry) IsDir() bool                { return e.info.IsDir() }
func (e goDirEntry) Type() fs.FileMode          { return e.info.Mode().Type() }
func (e goDirEntry) Info() (fs.FileInfo, error) { return e.info, nil }

var _ fs.FS = (*GoFS)(nil)
var _ fs.ReadDirFS = (*GoFS)(nil)
var _ fs.StatFS = (*GoFS)(nil)
