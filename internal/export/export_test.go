package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/algoviz/internal/storage"
)

func sampleFrames() []storage.FrameRecord {
	return []storage.FrameRecord{
		{Step: 0, Status: "running", Annotation: "", Values: []float64{3, 1}, State: json.RawMessage(`{}`)},
		{Step: 1, Status: "running", Annotation: "Comparing 3 and 1", Values: []float64{3, 1}, State: json.RawMessage(`{}`)},
		{Step: 2, Status: "completed", Annotation: "Sorting completed.", Values: []float64{1, 3}, State: json.RawMessage(`{}`)},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sampleFrames()); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "step,status,annotation,v0,v1" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if strings.Join(rows[3], ",") != "2,completed,Sorting completed.,1,3" {
		t.Errorf("unexpected last row %v", rows[3])
	}
}

func TestJSON(t *testing.T) {
	meta := &storage.RunMetadata{ID: "abc", Algorithm: "bubble_sort", Timestamp: time.Now(), Steps: 2}
	var buf bytes.Buffer
	if err := JSON(&buf, meta, sampleFrames()); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Run.ID != "abc" || len(got.Frames) != 3 {
		t.Errorf("unexpected export %+v", got)
	}
}

func TestBarsSVG(t *testing.T) {
	svg := BarsSVG([]float64{10, 20, 5}, 1)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("expected a complete svg document")
	}
	if strings.Count(svg, "<rect ") != 4 {
		t.Errorf("expected background plus 3 bars, got %d rects", strings.Count(svg, "<rect "))
	}
	if strings.Count(svg, "#facc15") != 1 {
		t.Error("expected exactly one highlighted bar")
	}
	if BarsSVG(nil) == "" {
		t.Error("expected empty chart to still render")
	}
}
