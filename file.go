package fat16

import (
	"io"

	"github.com/fat16go/fat16/checkpoint"
)

// FileStream is a byte-oriented reader positioned over a file's logical byte
// stream: the concatenation of the clusters in its FAT chain. The entire
// stream is materialised into an owned buffer at open time rather than
// walked lazily cluster-by-cluster, so a FileStream is independent of the
// Volume it was opened from and may outlive it. Implements io.Reader and
// io.Seeker. Not safe for concurrent use.
type FileStream struct {
	entry Entry
	data  []byte
	pos   int64
}

// OpenFile scans the root directory of v for an entry whose normalised 8.3
// name exactly equals name (case-sensitive, byte comparison) and materialises
// its bytes.
//
// If name matches a directory or volume-label entry, OpenFile fails with
// ErrIsDirectory. If no entry matches, OpenFile returns (nil, nil) — a
// deliberate departure from the usual Go convention of a non-nil error,
// preserved because "searched exhaustively and found nothing" is a normal
// outcome here, not a failure.
func OpenFile(v *Volume, name string) (*FileStream, error) {
	if v == nil || name == "" {
		return nil, checkpoint.From(ErrBadArgument)
	}

	cursor := &DirCursor{table: v.rootDir, index: 0, count: int(v.boot.RootDirCapacity)}

	for cursor.index < cursor.count {
		offset := cursor.index * sfnEntrySize
		raw := v.rootDir[offset : offset+sfnEntrySize]
		cursor.index++

		if raw[0] == nameEndOfDirectory {
			break
		}
		if raw[0] == nameDeletedSlot {
			continue
		}

		entry, err := decodeEntry(raw)
		if err != nil {
			return nil, err
		}
		if entry.name != name {
			continue
		}

		if entry.attrs&(AttrDirectory|AttrVolumeLabel) != 0 {
			return nil, checkpoint.From(ErrIsDirectory)
		}

		data, err := v.reconstructFile(entry)
		if err != nil {
			return nil, err
		}

		return &FileStream{entry: entry, data: data}, nil
	}

	return nil, nil
}

// reconstructFile walks entry's cluster chain through the FAT and copies the
// referenced cluster data into a freshly allocated buffer exactly entry.size
// bytes long. Cluster indices outside [2, totalDataClusters+2) fail the
// whole reconstruction with ErrBadFormat rather than reading out of bounds.
func (v *Volume) reconstructFile(entry Entry) ([]byte, error) {
	size := entry.size
	if size > uint32(len(v.data)) {
		// No file can be larger than the whole data area; a size field
		// claiming more is corrupt and would force an oversized allocation.
		return nil, checkpoint.From(ErrNoMemory)
	}
	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}

	tail := size % v.clusterBytes

	c := uint32(entry.firstCluster)
	k := uint32(0)

	for {
		raw, err := v.fatEntry(c)
		if err != nil {
			return nil, err
		}
		if isEndOfChain(raw) {
			break
		}
		if raw == clusterBadThreshold {
			// A bad-cluster marker inside a live chain means the image is
			// corrupt, not merely short; do not silently stop here.
			return nil, checkpoint.From(ErrBadFormat)
		}

		if err := v.copyCluster(buf, k, c, v.clusterBytes); err != nil {
			return nil, err
		}

		c = uint32(raw)
		k++
	}

	if tail > 0 {
		if err := v.copyCluster(buf, k, c, tail); err != nil {
			return nil, err
		}
	} else {
		// size is a whole multiple of clusterBytes: the final cluster still
		// holds real bytes and must be copied in full, not skipped.
		if err := v.copyCluster(buf, k, c, v.clusterBytes); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// copyCluster copies n bytes of cluster c into buf at cluster slot k
// (buf[k*clusterBytes : k*clusterBytes+n]).
func (v *Volume) copyCluster(buf []byte, k, c, n uint32) error {
	srcOffset, err := v.clusterOffset(c)
	if err != nil {
		return err
	}
	if srcOffset+n > uint32(len(v.data)) {
		return checkpoint.From(ErrBadFormat)
	}

	dstOffset := k * v.clusterBytes
	if dstOffset+n > uint32(len(buf)) {
		return checkpoint.From(ErrBadFormat)
	}

	copy(buf[dstOffset:dstOffset+n], v.data[srcOffset:srcOffset+n])
	return nil
}

// Size returns the file's size in bytes, as recorded in its directory entry.
func (s *FileStream) Size() int64 { return s.entry.Size() }

// Entry returns the directory entry this stream was opened from.
func (s *FileStream) Entry() Entry { return s.entry }

// Read implements io.Reader: a plain byte-oriented read (equivalent to
// ReadElements with elementSize 1), returning io.EOF once the stream is
// exhausted.
func (s *FileStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	remaining := int64(len(s.data)) - s.pos
	if remaining == 0 {
		return 0, io.EOF
	}

	n := int64(len(p))
	if n > remaining {
		n = remaining
	}

	copy(p[:n], s.data[s.pos:s.pos+n])
	s.pos += n
	return int(n), nil
}

// ReadElements mirrors a classic C stdio fread: dst is sized to hold whole
// elements of elementSize bytes. It returns the number of whole elements
// copied, truncating partial trailing elements from the count (the bytes are
// still copied). Returns (0, nil) once the stream is exhausted — not io.EOF.
func (s *FileStream) ReadElements(dst []byte, elementSize int) (int, error) {
	if elementSize <= 0 {
		return 0, checkpoint.From(ErrBadArgument)
	}

	nElements := len(dst) / elementSize
	requested := int64(elementSize) * int64(nElements)

	remaining := int64(len(s.data)) - s.pos
	if remaining == 0 {
		return 0, nil
	}

	if requested <= remaining {
		copy(dst[:requested], s.data[s.pos:s.pos+requested])
		s.pos += requested
		return nElements, nil
	}

	copy(dst[:remaining], s.data[s.pos:])
	s.pos += remaining
	return int(remaining) / elementSize, nil
}

// Seek implements io.Seeker. whence must be io.SeekStart, io.SeekCurrent or
// io.SeekEnd; any other value fails with ErrBadArgument, as does
// io.SeekStart with a negative offset or io.SeekEnd with a positive one. The
// computed position must land in [0, size]; landing outside it fails with
// ErrNoSuchAddr and leaves the cursor unchanged.
func (s *FileStream) Seek(offset int64, whence int) (int64, error) {
	size := int64(len(s.data))
	var target int64

	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, checkpoint.From(ErrBadArgument)
		}
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		if offset > 0 {
			return 0, checkpoint.From(ErrBadArgument)
		}
		target = size + offset
	default:
		return 0, checkpoint.From(ErrBadArgument)
	}

	if target < 0 || target > size {
		return 0, checkpoint.From(ErrNoSuchAddr)
	}

	s.pos = target
	return s.pos, nil
}

// Close releases the stream's reconstructed data buffer.
func (s *FileStream) Close() error {
	if s == nil {
		return nil
	}
	s.data = nil
	return nil
}
