package fat16

import (
	"encoding/binary"
)

// These constants fix the handful of boot-sector fields every test fixture
// needs to agree on to produce a decodable FAT16 image. Tests needing
// something else (a bad signature, a sector-size mismatch, a second FAT that
// differs) switch it on through the flags of fixtureImage.
const (
	fixtureSectorsPerCluster = 1
	fixtureReservedSectors   = 1
	fixtureRootDirCapacity   = 16
	fixtureSectorsPerFAT     = 1
	fixtureRootDirSectors    = fixtureRootDirCapacity * sfnEntrySize / SectorSize
)

type fixtureEntry struct {
	name         [8]byte
	ext          [3]byte
	attrs        byte
	firstCluster uint16
	size         uint32
	modDate      uint16
	modTime      uint16
}

func fixedName(s string) [8]byte {
	var out [8]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[:], s)
	return out
}

func fixedExt(s string) [3]byte {
	var out [3]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[:], s)
	return out
}

func (e fixtureEntry) encode() []byte {
	buf := make([]byte, sfnEntrySize)
	copy(buf[0:8], e.name[:])
	copy(buf[8:11], e.ext[:])
	buf[11] = e.attrs
	// buf[12] reserved, buf[13] creation tenths, left zero
	binary.LittleEndian.PutUint16(buf[14:16], 0) // creation time
	binary.LittleEndian.PutUint16(buf[16:18], 0) // creation date
	binary.LittleEndian.PutUint16(buf[18:20], 0) // last access date
	binary.LittleEndian.PutUint16(buf[20:22], 0) // first cluster high (FAT16: always 0)
	binary.LittleEndian.PutUint16(buf[22:24], e.modTime)
	binary.LittleEndian.PutUint16(buf[24:26], e.modDate)
	binary.LittleEndian.PutUint16(buf[26:28], e.firstCluster)
	binary.LittleEndian.PutUint32(buf[28:32], e.size)
	return buf
}

// fixtureImage describes, for buildFixtureImage, a complete FAT16 image with dataClusters
// data clusters, the given root directory entries, and an explicit FAT chain
// map (cluster index -> raw next-cluster value). Both FAT copies are written
// identically unless corruptSecondFAT is true.
type fixtureImage struct {
	dataClusters     uint32
	entries          []fixtureEntry
	chain            map[uint32]uint16
	clusterBytes     map[uint32][]byte
	corruptSecondFAT bool
	badSignature     bool
	badBytesPerSec   bool
}

func buildFixtureImage(f fixtureImage) []byte {
	totalSectors := fixtureReservedSectors + 2*fixtureSectorsPerFAT + fixtureRootDirSectors + f.dataClusters*fixtureSectorsPerCluster
	img := make([]byte, totalSectors*SectorSize)

	boot := img[0:SectorSize]
	bytesPerSector := uint16(SectorSize)
	if f.badBytesPerSec {
		bytesPerSector = 256
	}
	binary.LittleEndian.PutUint16(boot[11:13], bytesPerSector)
	boot[13] = fixtureSectorsPerCluster
	binary.LittleEndian.PutUint16(boot[14:16], fixtureReservedSectors)
	boot[16] = 2 // FATsNumber
	binary.LittleEndian.PutUint16(boot[17:19], fixtureRootDirCapacity)
	binary.LittleEndian.PutUint16(boot[19:21], uint16(totalSectors))
	boot[21] = 0xF8 // MediaType
	binary.LittleEndian.PutUint16(boot[22:24], fixtureSectorsPerFAT)
	sig := uint16(0xAA55)
	if f.badSignature {
		sig = 0
	}
	binary.LittleEndian.PutUint16(boot[510:512], sig)

	fat1Off := fixtureReservedSectors * SectorSize
	fat1 := img[fat1Off : fat1Off+fixtureSectorsPerFAT*SectorSize]
	for cluster, next := range f.chain {
		binary.LittleEndian.PutUint16(fat1[cluster*2:cluster*2+2], next)
	}

	fat2Off := fat1Off + fixtureSectorsPerFAT*SectorSize
	fat2 := img[fat2Off : fat2Off+fixtureSectorsPerFAT*SectorSize]
	copy(fat2, fat1)
	if f.corruptSecondFAT {
		fat2[0] ^= 0xFF
	}

	rootOff := fat2Off + fixtureSectorsPerFAT*SectorSize
	root := img[rootOff : rootOff+fixtureRootDirSectors*SectorSize]
	for i, entry := range f.entries {
		copy(root[i*sfnEntrySize:(i+1)*sfnEntrySize], entry.encode())
	}

	dataOff := rootOff + fixtureRootDirSectors*SectorSize
	data := img[dataOff : dataOff+int(f.dataClusters)*fixtureSectorsPerCluster*SectorSize]
	for cluster, content := range f.clusterBytes {
		offset := (cluster - 2) * fixtureSectorsPerCluster * SectorSize
		copy(data[offset:], content)
	}

	return img
}
