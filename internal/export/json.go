package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/poisson/internal/grid"
	"github.com/san-kum/poisson/internal/storage"
)

type ExportData struct {
	Run    *storage.RunMetadata `json:"run"`
	Shape  []int                `json:"shape"`
	Values []float64            `json:"values"`
}

// ExportJSON writes the run metadata and the grid values in row-major order.
func ExportJSON(w io.Writer, meta *storage.RunMetadata, g *grid.Grid) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Shape: g.Shape(), Values: g.Data})
}
