package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/storage"
)

type ExportData struct {
	Run    storage.RunMetadata   `json:"run"`
	Frames []storage.FrameRecord `json:"frames"`
}

func JSON(w io.Writer, meta *storage.RunMetadata, frames []storage.FrameRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Frames: frames})
}

// CSV writes one row per frame: step, status, annotation, then the array
// values at that step in columns v0..vn.
func CSV(w io.Writer, frames []storage.FrameRecord) error {
	cw := csv.NewWriter(w)

	width := 0
	for _, f := range frames {
		width = max(width, len(f.Values))
	}

	header := []string{"step", "status", "annotation"}
	for i := 0; i < width; i++ {
		header = append(header, "v"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{strconv.Itoa(f.Step), f.Status, f.Annotation}
		for i := 0; i < width; i++ {
			if i < len(f.Values) {
				row = append(row, algo.Format(f.Values[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
