// SPDX-License-Identifier: MIT

package archive

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/jaedmunt/holodeck/grid"
	"github.com/jaedmunt/holodeck/gwb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// codecVersion is bumped whenever Spectrum's JSON layout changes.
const codecVersion = 2

// Spectrum is the stored form of a gwb.Spectrum. Matrices are F rows of R
// realizations; Loudest lives in its own table.
type Spectrum struct {
	Freqs     []float64 `json:"freqs"`
	Harmonics []int     `json:"harmonics"`

	Foreground [][]float64 `json:"foreground"`
	Background [][]float64 `json:"background"`
	Total      [][]float64 `json:"total"`
	Analytic   []float64   `json:"analytic,omitempty"`

	CircularForeground [][]float64 `json:"circular_foreground"`
	CircularBackground [][]float64 `json:"circular_background"`
	CircularTotal      [][]float64 `json:"circular_total"`
	CircularAnalytic   []float64   `json:"circular_analytic,omitempty"`

	Single []float64 `json:"single,omitempty"`
}

// NReals returns the number of stored realizations.
func (s *Spectrum) NReals() int {
	if len(s.Total) == 0 {
		return 0
	}
	return len(s.Total[0])
}

func rows(m *grid.Dense) [][]float64 {
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = append([]float64(nil), m.Row(i)...)
	}
	return out
}

func fromSpectrum(s *gwb.Spectrum) *Spectrum {
	return &Spectrum{
		Freqs:              s.Freqs,
		Harmonics:          s.Harmonics,
		Foreground:         rows(s.Foreground),
		Background:         rows(s.Background),
		Total:              rows(s.Total),
		Analytic:           s.Analytic,
		CircularForeground: rows(s.Circular.Foreground),
		CircularBackground: rows(s.Circular.Background),
		CircularTotal:      rows(s.Circular.Total),
		CircularAnalytic:   s.Circular.Analytic,
		Single:             s.Single,
	}
}

func encodeSpectrum(s *Spectrum) ([]byte, error) { return json.Marshal(s) }

func decodeSpectrum(data []byte) (*Spectrum, error) {
	var s Spectrum
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
