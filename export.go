package fat16

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/fat16go/fat16/checkpoint"
)

// directoryRow is the CSV projection of an Entry: gocsv marshals exported
// struct fields by tag, so Entry's unexported fields and os.FileInfo methods
// can't be fed to it directly.
type directoryRow struct {
	Name        string `csv:"name"`
	SizeBytes   int64  `csv:"size_bytes"`
	IsDirectory bool   `csv:"is_directory"`
	IsReadOnly  bool   `csv:"read_only"`
	IsHidden    bool   `csv:"hidden"`
	IsSystem    bool   `csv:"system"`
	ModifiedUTC string `csv:"modified_utc"`
}

func toDirectoryRow(e Entry) directoryRow {
	row := directoryRow{
		Name:        e.Name(),
		SizeBytes:   e.Size(),
		IsDirectory: e.IsDir(),
		IsReadOnly:  e.IsReadOnly(),
		IsHidden:    e.IsHidden(),
		IsSystem:    e.IsSystem(),
	}
	if mt := e.ModTime(); !mt.IsZero() {
		row.ModifiedUTC = mt.Format("2006-01-02T15:04:05Z")
	}
	return row
}

// ExportDirectoryCSV reads every entry in the root directory of v and writes
// it as a CSV row to w, one entry per line with a header row. Intended for
// quick inventory/audit of a volume's contents outside of this package.
func ExportDirectoryCSV(v *Volume, w io.Writer) error {
	cursor, err := OpenDir(v, rootPath)
	if err != nil {
		return err
	}
	defer cursor.Close()

	var rows []directoryRow
	for {
		entry, err := cursor.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		rows = append(rows, toDirectoryRow(entry))
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}
	return nil
}
