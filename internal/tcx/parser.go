// Package tcx parses Training Center XML documents, the format Fitbit
// exports per-second run data in. Only the fields this application uses
// are modeled; unknown elements are ignored by the decoder.
package tcx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoAltitude is returned when a document contains no altitude samples,
// e.g. treadmill runs or watches without a barometer. Callers record zero
// elevation gain for such runs instead of failing.
var ErrNoAltitude = errors.New("tcx: no altitude data")

// Document is the root TrainingCenterDatabase element.
type Document struct {
	XMLName    xml.Name   `xml:"TrainingCenterDatabase"`
	Activities []Activity `xml:"Activities>Activity"`
}

// Activity is one recorded activity with its laps.
type Activity struct {
	Sport string `xml:"Sport,attr"`
	ID    string `xml:"Id"`
	Laps  []Lap  `xml:"Lap"`
}

// Lap holds summary fields plus the per-second track.
type Lap struct {
	TotalTimeSeconds float64      `xml:"TotalTimeSeconds"`
	DistanceMeters   float64      `xml:"DistanceMeters"`
	Calories         int          `xml:"Calories"`
	Track            []Trackpoint `xml:"Track>Trackpoint"`
}

// Trackpoint is a single recorded sample. Altitude and heart rate are
// pointers because devices omit them for stretches of a run.
type Trackpoint struct {
	Time           string    `xml:"Time"`
	AltitudeMeters *float64  `xml:"AltitudeMeters"`
	DistanceMeters *float64  `xml:"DistanceMeters"`
	HeartRateBpm   *struct { // <HeartRateBpm><Value>N</Value></HeartRateBpm>
		Value int `xml:"Value"`
	} `xml:"HeartRateBpm"`
}

// Parse decodes a TCX document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing tcx: %w", err)
	}
	return &doc, nil
}

// ParseString decodes a TCX document held in memory, the common case since
// downloaded documents are cached whole in the database.
func ParseString(body string) (*Document, error) {
	return Parse(strings.NewReader(body))
}

// trackpoints flattens all activities and laps into one ordered sample
// sequence.
func (d *Document) trackpoints() []Trackpoint {
	var points []Trackpoint
	for _, act := range d.Activities {
		for _, lap := range act.Laps {
			points = append(points, lap.Track...)
		}
	}
	return points
}

// AltitudeTrace returns the ordered altitude samples in meters, skipping
// trackpoints without one. Returns ErrNoAltitude when none exist.
func (d *Document) AltitudeTrace() ([]float64, error) {
	var trace []float64
	for _, tp := range d.trackpoints() {
		if tp.AltitudeMeters != nil {
			trace = append(trace, *tp.AltitudeMeters)
		}
	}
	if len(trace) == 0 {
		return nil, ErrNoAltitude
	}
	return trace, nil
}

// HeartRates returns the ordered heart rate samples in bpm, skipping
// trackpoints without one. An empty slice is not an error; plenty of runs
// have altitude but no heart rate strap data.
func (d *Document) HeartRates() []int {
	var rates []int
	for _, tp := range d.trackpoints() {
		if tp.HeartRateBpm != nil && tp.HeartRateBpm.Value > 0 {
			rates = append(rates, tp.HeartRateBpm.Value)
		}
	}
	return rates
}

// AltitudeTrace is a convenience wrapper: parse a cached TCX body and
// extract its altitude trace in one step.
func AltitudeTrace(body string) ([]float64, error) {
	doc, err := ParseString(body)
	if err != nil {
		return nil, err
	}
	return doc.AltitudeTrace()
}
