package fat16

import (
	"io"
	"os"

	"github.com/xaionaro-go/bytesextra"

	"github.com/fat16go/fat16/checkpoint"
)

// SectorSize is the fixed sector width the Disk layer reads at, independent of
// whatever BytesPerSector a decoded boot sector claims. If the two disagree the
// image is malformed; OpenVolume rejects it with ErrBadFormat rather than the
// Disk layer silently adapting to it.
const SectorSize = 512

// sectorSource is the minimal contract OpenVolume needs from a backing store:
// read a run of fixed-size sectors starting at a given sector index. Volume
// depends on this interface, not *Disk directly, so tests can substitute a
// gomock-generated fake to force short reads and I/O failures that are
// impractical to reproduce with a real in-memory image.
type sectorSource interface {
	ReadSectors(firstSector uint32, buf []byte, sectorsToRead uint32) (uint32, error)
}

// Disk is a sector-addressable byte source: a flat image, usually a file on
// the host, addressed in fixed 512-byte sectors. A Disk exclusively owns its
// backing handle; Close releases it. Not safe for concurrent use.
type Disk struct {
	backing io.ReadSeeker
	closer  io.Closer
}

// Open opens path as a Disk. Fails with ErrNotFound if the file cannot be
// opened, ErrBadArgument if path is empty.
func Open(path string) (*Disk, error) {
	if path == "" {
		return nil, checkpoint.From(ErrBadArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrNotFound)
	}

	return &Disk{backing: f, closer: f}, nil
}

// OpenBytes wraps an in-memory FAT16 image as a Disk. Useful for tests (this
// repository carries no binary test fixtures, so every test builds its image
// as a []byte) and for callers embedding a FAT16 image in a Go binary.
func OpenBytes(image []byte) *Disk {
	return &Disk{backing: bytesextra.NewReadWriteSeeker(image)}
}

// ReadSectors reads sectorsToRead contiguous 512-byte sectors starting at
// firstSector into buf, which must be at least sectorsToRead*SectorSize bytes.
// It positions at byte offset firstSector*SectorSize and reads exactly
// sectorsToRead*SectorSize bytes; a short read is reported as ErrIO rather than
// returned as a partial success, mirroring the no-partial-sector-I/O contract.
func (d *Disk) ReadSectors(firstSector uint32, buf []byte, sectorsToRead uint32) (uint32, error) {
	if d == nil || d.backing == nil {
		return 0, checkpoint.From(ErrBadArgument)
	}

	want := int64(sectorsToRead) * SectorSize
	if int64(len(buf)) < want {
		return 0, checkpoint.From(ErrBadArgument)
	}

	offset := int64(firstSector) * SectorSize
	if _, err := d.backing.Seek(offset, io.SeekStart); err != nil {
		return 0, checkpoint.Wrap(err, ErrIO)
	}

	n, err := io.ReadFull(d.backing, buf[:want])
	if err != nil {
		if err == io.EOF {
			// Nothing at all was read. checkpoint.Wrap passes io.EOF through
			// unwrapped, so report it as the short read it is.
			err = io.ErrUnexpectedEOF
		}
		return uint32(n) / SectorSize, checkpoint.Wrap(err, ErrIO)
	}

	return sectorsToRead, nil
}

// Close releases the Disk's backing handle. Subsequent use of the Disk is
// undefined.
func (d *Disk) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
