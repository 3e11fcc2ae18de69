package fat16

import (
	"bytes"
	"encoding/binary"

	"github.com/go-restruct/restruct"

	"github.com/fat16go/fat16/checkpoint"
)

// maxPlausibleFAT16VolumeBytes bounds the data area OpenVolume will allocate
// for: the largest a genuine FAT16 volume can be, given a 16-bit cluster
// count and the largest legal cluster size (64 sectors of 512 bytes).
const maxPlausibleFAT16VolumeBytes = uint32(1<<16) * 64 * SectorSize

// Volume is a decoded FAT16 filesystem: boot sector, the validated FAT, the
// root directory table, and the cluster data area, all fully materialised in
// memory at Open. A Volume exclusively owns these buffers; Close releases
// them. A Volume is independent of the Disk it was opened from once Open
// returns. Not safe for concurrent use.
type Volume struct {
	boot BootSector

	fat     []byte // raw FAT #1, validated identical to FAT #2 at open
	rootDir []byte // raw root directory table, root_dir_capacity*32 bytes
	data    []byte // raw cluster data area

	clusterBytes      uint32
	totalDataClusters uint32
}

// OpenVolume decodes a FAT16 volume starting at sector firstSectorOfVolume of
// disk. disk is only used during OpenVolume; the returned Volume owns
// independent copies of everything it needs.
func OpenVolume(disk sectorSource, firstSectorOfVolume uint32) (*Volume, error) {
	if disk == nil {
		return nil, checkpoint.From(ErrBadArgument)
	}

	bootBuf := make([]byte, SectorSize)
	if _, err := readSectorsExact(disk, firstSectorOfVolume, bootBuf, 1); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	var boot BootSector
	if err := restruct.Unpack(bootBuf, binary.LittleEndian, &boot); err != nil {
		return nil, checkpoint.Wrap(err, ErrBadFormat)
	}

	if boot.Signature != bootSectorSignature {
		return nil, checkpoint.From(ErrBadFormat)
	}

	if boot.BytesPerSector != SectorSize {
		// The Disk layer only ever reads fixed 512-byte sectors; any other
		// claimed sector size makes every offset in this function wrong.
		return nil, checkpoint.From(ErrBadFormat)
	}

	if boot.SectorsPerCluster == 0 || boot.SectorsPerFAT == 0 {
		return nil, checkpoint.From(ErrBadFormat)
	}

	fatBytes := uint32(boot.SectorsPerFAT) * uint32(boot.BytesPerSector)

	fatA := make([]byte, fatBytes)
	if _, err := readSectorsExact(disk, uint32(boot.ReservedSectors), fatA, uint32(boot.SectorsPerFAT)); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	fatB := make([]byte, fatBytes)
	secondFATSector := uint32(boot.ReservedSectors) + uint32(boot.SectorsPerFAT)
	if _, err := readSectorsExact(disk, secondFATSector, fatB, uint32(boot.SectorsPerFAT)); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	if !bytes.Equal(fatA, fatB) {
		return nil, checkpoint.From(ErrBadFormat)
	}
	// FAT #2 is never read again once validated; let it be collected.
	fatB = nil

	rootDirBytes := uint32(boot.RootDirCapacity) * sfnEntrySize
	if rootDirBytes%uint32(boot.BytesPerSector) != 0 {
		return nil, checkpoint.From(ErrBadFormat)
	}
	rootDirSectors := rootDirBytes / uint32(boot.BytesPerSector)

	rootSector := uint32(boot.ReservedSectors) + 2*uint32(boot.SectorsPerFAT)
	rootDir := make([]byte, rootDirBytes)
	if rootDirSectors > 0 {
		if _, err := readSectorsExact(disk, rootSector, rootDir, rootDirSectors); err != nil {
			return nil, checkpoint.Wrap(err, ErrIO)
		}
	}

	totalSectors := uint32(boot.SmallNumberOfSectors)
	if totalSectors == 0 {
		totalSectors = boot.LargeNumberOfSectors
	}

	dataSector := rootSector + rootDirSectors
	if dataSector >= totalSectors {
		return nil, checkpoint.From(ErrBadFormat)
	}
	dataSectors := totalSectors - dataSector

	dataBytes := dataSectors * uint32(boot.BytesPerSector)
	if dataBytes > maxPlausibleFAT16VolumeBytes {
		// FAT16's own 16-bit cluster count caps a real volume around 2 GiB;
		// a claimed data area past that is not a large disk, it's a
		// corrupt header that would otherwise force an enormous allocation.
		return nil, checkpoint.From(ErrNoMemory)
	}

	data := make([]byte, dataBytes)
	if dataSectors > 0 {
		if _, err := readSectorsExact(disk, dataSector, data, dataSectors); err != nil {
			return nil, checkpoint.Wrap(err, ErrIO)
		}
	}

	clusterBytes := uint32(boot.SectorsPerCluster) * uint32(boot.BytesPerSector)
	totalDataClusters := uint32(0)
	if clusterBytes > 0 {
		totalDataClusters = dataBytes / clusterBytes
	}

	return &Volume{
		boot:              boot,
		fat:               fatA,
		rootDir:           rootDir,
		data:              data,
		clusterBytes:      clusterBytes,
		totalDataClusters: totalDataClusters,
	}, nil
}

// readSectorsExact reads exactly sectorsToRead sectors, treating any short
// read as ErrIO (a short read is an error, never a partial success).
func readSectorsExact(disk sectorSource, firstSector uint32, buf []byte, sectorsToRead uint32) (uint32, error) {
	n, err := disk.ReadSectors(firstSector, buf, sectorsToRead)
	if err != nil {
		return n, checkpoint.Wrap(err, ErrIO)
	}
	if n != sectorsToRead {
		return n, checkpoint.From(ErrIO)
	}
	return n, nil
}

// TotalDataClusters returns the number of usable data clusters, numbered
// 2..TotalDataClusters()+1 on disk.
func (v *Volume) TotalDataClusters() uint32 { return v.totalDataClusters }

// Close releases the Volume's owned buffers. Any DirCursor still open over
// this Volume must not be used afterward.
func (v *Volume) Close() error {
	if v == nil {
		return nil
	}
	v.fat = nil
	v.rootDir = nil
	v.data = nil
	return nil
}

// fatEntry looks up the raw FAT value at cluster index c, bounds-checking c
// against the decoded FAT's entry count.
func (v *Volume) fatEntry(c uint32) (uint16, error) {
	offset := c * 2
	if offset+2 > uint32(len(v.fat)) {
		return 0, checkpoint.From(ErrBadFormat)
	}
	return binary.LittleEndian.Uint16(v.fat[offset : offset+2]), nil
}

// isEndOfChain reports whether a raw FAT value terminates a cluster chain.
func isEndOfChain(v uint16) bool {
	return v >= clusterEndOfChainMin
}

// clusterOffset returns the byte offset of cluster index c within the data
// area, validating 2 <= c < totalDataClusters+2 per the volume invariants.
func (v *Volume) clusterOffset(c uint32) (uint32, error) {
	if c < 2 || c >= v.totalDataClusters+2 {
		return 0, checkpoint.From(ErrBadFormat)
	}
	return (c - 2) * v.clusterBytes, nil
}
