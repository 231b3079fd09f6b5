package audio

import (
	"fmt"
	"math"
)

// Adjustment records what a gain stage measured and applied.
type Adjustment struct {
	Mode        string
	CurrentDBFS float64
	TargetDBFS  float64
	GainDB      float64
	// Skipped is set when the input is silent and no gain could be derived.
	Skipped bool
}

func (a Adjustment) String() string {
	if a.Skipped {
		return fmt.Sprintf("silent input, %s gain skipped", a.Mode)
	}
	return fmt.Sprintf("%.1f -> %.1f (gain: %+.1f dB)", a.CurrentDBFS, a.TargetDBFS, a.GainDB)
}

// RMSdBFS returns the RMS level of the buffer relative to full scale.
// Silence yields -Inf.
func RMSdBFS(b Buffer) float64 {
	samples := b.Samples()
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return toDB(math.Sqrt(sum / float64(len(samples))))
}

// PeakdBFS returns the largest absolute sample relative to full scale.
func PeakdBFS(b Buffer) float64 {
	var peak float64
	for _, s := range b.Samples() {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return toDB(peak)
}

// ApplyGain scales every sample by gainDB at the buffer's own depth.
func ApplyGain(b Buffer, gainDB float64) Buffer {
	factor := math.Pow(10, gainDB/20)
	samples := b.Samples()
	for i := range samples {
		samples[i] *= factor
	}
	return FromSamples(b.Format, samples)
}

// MatchLoudness moves the RMS level of b to targetDBFS.
func MatchLoudness(b Buffer, targetDBFS float64) (Buffer, Adjustment) {
	current := RMSdBFS(b)
	adj := Adjustment{Mode: "loudness", CurrentDBFS: current, TargetDBFS: targetDBFS}
	if math.IsInf(current, -1) {
		adj.Skipped = true
		return b, adj
	}
	adj.GainDB = targetDBFS - current
	return ApplyGain(b, adj.GainDB), adj
}

// NormalizePeak scales b so its peak sits headroomDB below full scale.
func NormalizePeak(b Buffer, headroomDB float64) (Buffer, Adjustment) {
	peak := PeakdBFS(b)
	adj := Adjustment{Mode: "peak", CurrentDBFS: peak, TargetDBFS: -headroomDB}
	if math.IsInf(peak, -1) {
		adj.Skipped = true
		return b, adj
	}
	adj.GainDB = -headroomDB - peak
	return ApplyGain(b, adj.GainDB), adj
}

func toDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(amplitude)
}
