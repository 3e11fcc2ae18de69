package fat16

import (
	"encoding/binary"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-restruct/restruct"

	"github.com/fat16go/fat16/checkpoint"
)

// rootPath is the only directory path this reader accepts: a single
// backslash. FAT16 root directories are a fixed-size table outside the
// cluster chain, not a regular directory, so there is nothing to descend
// into beyond it without implementing subdirectory traversal.
const rootPath = `\`

// Entry is a normalised root-directory entry. It implements os.FileInfo so it
// composes directly with anything expecting a standard library file info
// (afero.Fs, io/fs, text/tabwriter listings, ...).
type Entry struct {
	name         string
	size         uint32
	attrs        uint8
	firstCluster uint16
	modDate      uint16
	modTime      uint16
}

// Name returns the normalised 8.3 short name: up to 8 filename characters, a
// literal '.' and up to 3 extension characters if the extension is non-empty.
func (e Entry) Name() string { return e.name }

// Size returns the raw 32-bit size field (meaningful only for regular files).
func (e Entry) Size() int64 { return int64(e.size) }

// Mode reports os.ModeDir for directories, 0 otherwise; this reader has no
// write support so no permission bits are meaningful.
func (e Entry) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir
	}
	return 0
}

// ModTime decodes the entry's packed modified date/time fields. Returns the
// zero time.Time if the date field carries a value the FAT16 packed encoding
// defines as invalid (day or month of 0); the time field is not validated.
func (e Entry) ModTime() time.Time {
	date := parseFATDate(e.modDate)
	if date.IsZero() {
		return time.Time{}
	}
	t := parseFATTime(e.modTime)
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func (e Entry) IsDir() bool { return e.attrs&AttrDirectory != 0 }
func (e Entry) Sys() interface{} { return e }

func (e Entry) IsReadOnly() bool { return e.attrs&AttrReadOnly != 0 }
func (e Entry) IsHidden() bool   { return e.attrs&AttrHidden != 0 }
func (e Entry) IsSystem() bool   { return e.attrs&AttrSystem != 0 }
func (e Entry) IsArchived() bool { return e.attrs&AttrArchive != 0 }

// parseFATDate decodes a packed FAT date (day:5 month:4 yearSince1980:7,
// counted from bit 0) into a time.Time with a zero clock. Returns the zero
// time.Time if day or month is 0, the packed encoding's "unspecified" value.
func parseFATDate(packed uint16) time.Time {
	day := packed & 0x1F
	month := (packed >> 5) & 0x0F
	yearSince1980 := packed >> 9

	if day == 0 || month == 0 {
		return time.Time{}
	}
	return time.Date(1980+int(yearSince1980), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
}

// parseFATTime decodes a packed FAT time (2-second count:5, minutes:6,
// hours:5, counted from bit 0) into a time.Time with a zero date.
func parseFATTime(packed uint16) time.Time {
	seconds := int(packed&0x1F) * 2
	minutes := int((packed >> 5) & 0x3F)
	hours := int((packed >> 11) & 0x1F)
	return time.Date(1, 1, 1, hours, minutes, seconds, 0, time.UTC)
}

// normalizeShortName renders an 8-byte name field and 3-byte extension field
// as the 8.3 display name: up to 8 filename characters stopping at the first
// space, then, only if the extension's first byte is not a space, a literal
// '.' followed by up to 3 extension characters stopping at the first space.
func normalizeShortName(name [8]byte, ext [3]byte) string {
	var b strings.Builder

	for _, c := range name {
		if c == ' ' {
			break
		}
		b.WriteByte(c)
	}

	if ext[0] != ' ' {
		b.WriteByte('.')
		for _, c := range ext {
			if c == ' ' {
				break
			}
			b.WriteByte(c)
		}
	}

	return b.String()
}

func decodeEntry(raw []byte) (Entry, error) {
	var sfn SFNEntry
	if err := restruct.Unpack(raw, binary.LittleEndian, &sfn); err != nil {
		return Entry{}, checkpoint.Wrap(err, ErrBadFormat)
	}

	return Entry{
		name:         normalizeShortName(sfn.Name, sfn.Extension),
		size:         sfn.Size,
		attrs:        sfn.Attributes,
		firstCluster: sfn.FirstClusterLow,
		modDate:      sfn.ModifiedDate,
		modTime:      sfn.ModifiedTime,
	}, nil
}

// DirCursor is a cursor over the root directory table. It borrows the
// Volume's root directory buffer (non-owning); its lifetime must not exceed
// the Volume's. Not safe for concurrent use.
type DirCursor struct {
	table []byte
	index int
	count int
}

// OpenDir opens a directory cursor. Only the literal root path "\" is
// accepted in this reader; any other path fails with ErrNotFound.
func OpenDir(v *Volume, path string) (*DirCursor, error) {
	if v == nil || path == "" {
		return nil, checkpoint.From(ErrBadArgument)
	}
	if path != rootPath {
		return nil, checkpoint.From(ErrNotFound)
	}

	return &DirCursor{
		table: v.rootDir,
		index: 0,
		count: int(v.boot.RootDirCapacity),
	}, nil
}

// Read advances the cursor and returns the next visible entry: slots marked
// deleted (0xE5), free (0x00, which also ends the scan), or carrying the
// volume-label attribute are skipped. Returns io.EOF once the end of the
// directory is reached; any other error is a genuine decode failure.
func (c *DirCursor) Read() (Entry, error) {
	if c == nil {
		return Entry{}, checkpoint.From(ErrBadArgument)
	}

	for c.index < c.count {
		offset := c.index * sfnEntrySize
		raw := c.table[offset : offset+sfnEntrySize]
		c.index++

		switch raw[0] {
		case nameEndOfDirectory:
			c.index = c.count
			return Entry{}, io.EOF
		case nameDeletedSlot:
			continue
		}

		if raw[11]&AttrVolumeLabel != 0 {
			continue
		}

		return decodeEntry(raw)
	}

	return Entry{}, io.EOF
}

// Close releases the cursor. It does not touch the Volume's buffers.
func (c *DirCursor) Close() error {
	return nil
}
