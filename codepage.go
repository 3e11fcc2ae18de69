package fat16

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Label returns the volume label decoded from code page 437 (the DOS-era
// encoding the on-disk field uses), trimmed of trailing padding.
func (v *Volume) Label() string {
	return decodeCP437(v.boot.VolumeLabel[:])
}

// OEMName returns the boot sector's OEM name field decoded from code page 437.
func (v *Volume) OEMName() string {
	return decodeCP437(v.boot.OEMName[:])
}

// decodeCP437 decodes raw bytes as IBM code page 437, the encoding DOS-era
// FAT volumes use for the OEM name and volume label fields, and trims the
// trailing spaces and NULs those fixed-width fields are padded with. Falls
// back to the raw bytes verbatim if decoding fails, since these fields are
// cosmetic and a malformed byte shouldn't fail the whole open.
func decodeCP437(raw []byte) string {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw
	}
	return strings.TrimRight(string(decoded), " \x00")
}
