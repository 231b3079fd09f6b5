package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// minLeadSeconds is the shortest run of silence fed ahead of the signal. The
// filter starts with an empty delay line, so the first outputs would
// otherwise be centred inside the signal and its onset would be lost.
const minLeadSeconds = 0.05

// Resample converts interleaved samples from one rate to another. Output
// frame k corresponds to input time k/to, and the result holds
// round(frames * to / from) frames. Each channel runs through its own
// resampler.
func Resample(samples []float64, channels, from, to int) ([]float64, error) {
	if from == to {
		return samples, nil
	}
	if channels < 1 || from <= 0 || to <= 0 {
		return nil, fmt.Errorf("resample: invalid parameters (channels=%d, %d -> %d Hz)", channels, from, to)
	}
	frames := len(samples) / channels
	if frames == 0 {
		return []float64{}, nil
	}
	want := int(math.Round(float64(frames) * float64(to) / float64(from)))

	plan, err := newResamplePlan(from, to)
	if err != nil {
		return nil, err
	}

	out := make([]float64, want*channels)
	mono := make([]float64, frames)
	for c := 0; c < channels; c++ {
		for f := 0; f < frames; f++ {
			mono[f] = samples[f*channels+c]
		}
		converted, err := plan.run(mono, want)
		if err != nil {
			return nil, fmt.Errorf("resample %d -> %d Hz (channel %d): %w", from, to, c, err)
		}
		for f := 0; f < want; f++ {
			out[f*channels+c] = converted[f]
		}
	}
	return out, nil
}

// resamplePlan pads a mono signal with lead and tail silence and knows
// where input time zero lands in the padded output.
type resamplePlan struct {
	from, to int
	lead     int
	offset   int
}

func newResamplePlan(from, to int) (*resamplePlan, error) {
	sizing, err := newMonoResampler(from, to)
	if err != nil {
		return nil, err
	}

	// GetLatency reports the filter delay in output samples; twice that,
	// taken back to the input rate, bounds the priming the filter needs.
	lead := int(math.Ceil(float64(from) * minLeadSeconds))
	if latency := sizing.GetLatency(); latency > 0 {
		lead = max(lead, int(math.Ceil(2*float64(latency)*float64(from)/float64(to))))
	}
	// Whole multiples of from/gcd keep the lead an integral number of
	// output samples.
	unit := from / gcd(from, to)
	lead = (lead + unit - 1) / unit * unit

	p := &resamplePlan{from: from, to: to, lead: lead}
	if p.offset, err = p.measureOffset(); err != nil {
		return nil, err
	}
	return p, nil
}

// measureOffset runs a unit impulse at input time zero and returns the
// output index of its peak.
func (p *resamplePlan) measureOffset() (int, error) {
	impulse := make([]float64, p.lead+1+p.lead)
	impulse[p.lead] = 1
	out, err := p.stream(impulse)
	if err != nil {
		return 0, err
	}
	peak, best := -1, 0.0
	for i, v := range out {
		if a := math.Abs(v); a > best {
			peak, best = i, a
		}
	}
	if peak < 0 {
		return 0, fmt.Errorf("calibrate %d -> %d Hz: resampler produced no output", p.from, p.to)
	}
	return peak, nil
}

// run resamples one channel and returns exactly want samples aligned to
// input time zero.
func (p *resamplePlan) run(mono []float64, want int) ([]float64, error) {
	padded := make([]float64, p.lead+len(mono)+p.lead)
	copy(padded[p.lead:], mono)
	out, err := p.stream(padded)
	if err != nil {
		return nil, err
	}
	aligned := make([]float64, want)
	if p.offset < len(out) {
		copy(aligned, out[p.offset:])
	}
	return aligned, nil
}

// stream feeds input through a fresh resampler and drains it.
func (p *resamplePlan) stream(input []float64) ([]float64, error) {
	r, err := newMonoResampler(p.from, p.to)
	if err != nil {
		return nil, err
	}
	out, err := r.Process(input)
	if err != nil {
		return nil, err
	}
	rest, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return append(out, rest...), nil
}

func newMonoResampler(from, to int) (resampling.Resampler, error) {
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}
	return r, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
