package fat16

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFile_RoundTrip(t *testing.T) {
	v := helloWorldVolume(t)

	stream, err := OpenFile(v, "HELLO.TXT")
	require.NoError(t, err)
	require.NotNil(t, stream)
	defer stream.Close()

	assert.Equal(t, int64(11), stream.Size())

	got := make([]byte, 11)
	n, err := stream.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, "Hello World", string(got))

	_, err = stream.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenFile_NotFoundReturnsNilNil(t *testing.T) {
	v := helloWorldVolume(t)

	stream, err := OpenFile(v, "NOTHERE.TXT")
	assert.NoError(t, err)
	assert.Nil(t, stream)
}

func TestOpenFile_DirectoryIsError(t *testing.T) {
	v := helloWorldVolume(t)

	_, err := OpenFile(v, "SUB")
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestFileStream_SeekThenRead(t *testing.T) {
	v := helloWorldVolume(t)

	stream, err := OpenFile(v, "HELLO.TXT")
	require.NoError(t, err)
	defer stream.Close()

	pos, err := stream.Seek(6, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	got := make([]byte, 5)
	n, err := stream.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "World", string(got))
}

func TestFileStream_Seek_ErrorCases(t *testing.T) {
	v := helloWorldVolume(t)
	stream, err := OpenFile(v, "HELLO.TXT")
	require.NoError(t, err)
	defer stream.Close()

	tests := []struct {
		name    string
		offset  int64
		whence  int
		wantErr error
	}{
		{"negative offset from start", -1, io.SeekStart, ErrBadArgument},
		{"positive offset from end", 1, io.SeekEnd, ErrBadArgument},
		{"unknown whence", 0, 99, ErrBadArgument},
		{"past end of file", 100, io.SeekStart, ErrNoSuchAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := stream.Seek(0, io.SeekCurrent)
			_, err := stream.Seek(tt.offset, tt.whence)
			assert.ErrorIs(t, err, tt.wantErr)

			after, _ := stream.Seek(0, io.SeekCurrent)
			assert.Equal(t, before, after, "cursor must be unchanged after a failed seek")
		})
	}
}

func TestReconstructFile_ExactMultipleOfClusterSize(t *testing.T) {
	// size is exactly one full cluster: the tail==0 branch must still copy
	// the final (and only) cluster in full, rather than dropping it.
	content := make([]byte, SectorSize)
	for i := range content {
		content[i] = byte(i)
	}

	entries := []fixtureEntry{
		{name: fixedName("WHOLE"), ext: fixedExt("BIN"), attrs: AttrArchive, firstCluster: 2, size: SectorSize},
	}
	img := buildFixtureImage(fixtureImage{
		dataClusters: 1,
		entries:      entries,
		chain:        map[uint32]uint16{2: 0xFFFF},
		clusterBytes: map[uint32][]byte{2: content},
	})

	disk := OpenBytes(img)
	defer disk.Close()
	v, err := OpenVolume(disk, 0)
	require.NoError(t, err)
	defer v.Close()

	stream, err := OpenFile(v, "WHOLE.BIN")
	require.NoError(t, err)
	defer stream.Close()

	got := make([]byte, SectorSize)
	n, err := stream.Read(got)
	require.NoError(t, err)
	assert.Equal(t, SectorSize, n)
	assert.Equal(t, content, got)
}

func TestReconstructFile_MultiClusterChain(t *testing.T) {
	entries := []fixtureEntry{
		{name: fixedName("MULTI"), ext: fixedExt("BIN"), attrs: AttrArchive, firstCluster: 2, size: SectorSize + 10},
	}
	img := buildFixtureImage(fixtureImage{
		dataClusters: 2,
		entries:      entries,
		chain:        map[uint32]uint16{2: 3, 3: 0xFFFF},
		clusterBytes: map[uint32][]byte{
			2: bytesOf(SectorSize, 'A'),
			3: bytesOf(SectorSize, 'B'),
		},
	})

	disk := OpenBytes(img)
	defer disk.Close()
	v, err := OpenVolume(disk, 0)
	require.NoError(t, err)
	defer v.Close()

	stream, err := OpenFile(v, "MULTI.BIN")
	require.NoError(t, err)
	defer stream.Close()

	got := make([]byte, SectorSize+10)
	n, err := stream.Read(got)
	require.NoError(t, err)
	assert.Equal(t, SectorSize+10, n)

	assert.Equal(t, byte('A'), got[0])
	assert.Equal(t, byte('A'), got[SectorSize-1])
	assert.Equal(t, byte('B'), got[SectorSize])
	assert.Equal(t, byte('B'), got[SectorSize+9])
}

func TestReconstructFile_BadClusterInChainFails(t *testing.T) {
	entries := []fixtureEntry{
		{name: fixedName("BAD"), ext: fixedExt("BIN"), attrs: AttrArchive, firstCluster: 2, size: SectorSize + 10},
	}
	img := buildFixtureImage(fixtureImage{
		dataClusters: 2,
		entries:      entries,
		chain:        map[uint32]uint16{2: clusterBadThreshold},
		clusterBytes: map[uint32][]byte{2: bytesOf(SectorSize, 'A')},
	})

	disk := OpenBytes(img)
	defer disk.Close()
	v, err := OpenVolume(disk, 0)
	require.NoError(t, err)
	defer v.Close()

	_, err = OpenFile(v, "BAD.BIN")
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestFileStream_ReadElements_FreadParity(t *testing.T) {
	v := helloWorldVolume(t)
	stream, err := OpenFile(v, "HELLO.TXT")
	require.NoError(t, err)
	defer stream.Close()

	// "Hello World" is 11 bytes; 3-byte elements means 3 whole elements (9
	// bytes) fit, with "ld" left as a short final element that is NOT
	// counted, even though its bytes are still copied into dst.
	dst := make([]byte, 12)
	n, err := stream.ReadElements(dst, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	dst2 := make([]byte, 12)
	n, err = stream.ReadElements(dst2, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "the first call already consumed every byte, so this call returns (0, nil), not io.EOF")

	dst3 := make([]byte, 12)
	n, err = stream.ReadElements(dst3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a fully exhausted stream returns (0, nil), not io.EOF")
}

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
