package store

import (
	"encoding/json"
	"io"

	"github.com/san-kum/grav2d/internal/body"
)

type ExportData struct {
	Scene      string             `json:"scene"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	Frames     [][]body.Particle  `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON streams a recorded run as an indented JSON document.
func ExportJSON(w io.Writer, scene, integrator string, dt float64, metrics map[string]float64, rec *Recorder) error {
	data := ExportData{
		Scene:      scene,
		Integrator: integrator,
		Dt:         dt,
		Steps:      len(rec.Times),
		Times:      rec.Times,
		Frames:     rec.Frames,
		Metrics:    metrics,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
