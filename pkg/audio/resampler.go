package audio

import "math"

// Resampler converts PCM between formats: channels are mixed first, then
// the sample rate is changed with linear interpolation.
// The position and the last frame are carried over between calls so chunks
// join without clicks.
type Resampler struct {
	in, out Format
	step    float64
	pos     float64
	last    []int16
	mixed   []int16
	buf     []int16
}

func NewResampler(in, out Format) *Resampler {
	return &Resampler{
		in:   in,
		out:  out,
		step: float64(in.Rate) / float64(out.Rate),
		last: make([]int16, out.Channels),
	}
}

// Passthrough tells if both formats are the same.
func (r *Resampler) Passthrough() bool { return r.in == r.out }

// Resample returns pcm in the output format.
// The result is only valid until the next call.
func (r *Resampler) Resample(pcm []int16) []int16 {
	if r.Passthrough() {
		return pcm
	}
	frames := r.mix(pcm)
	if r.in.Rate == r.out.Rate {
		return frames
	}
	return r.stretch(frames)
}

func (r *Resampler) mix(pcm []int16) []int16 {
	ci, co := r.in.Channels, r.out.Channels
	if ci == co {
		return pcm
	}
	n := len(pcm) / ci
	if cap(r.mixed) < n*co {
		r.mixed = make([]int16, n*co)
	}
	out := r.mixed[:n*co]
	for i := 0; i < n; i++ {
		frame := pcm[i*ci : i*ci+ci]
		switch {
		case co == 1:
			var sum int
			for _, s := range frame {
				sum += int(s)
			}
			out[i] = int16(sum / ci)
		default:
			for c := 0; c < co; c++ {
				out[i*co+c] = frame[min(c, ci-1)]
			}
		}
	}
	return out
}

func (r *Resampler) stretch(pcm []int16) []int16 {
	ch := r.out.Channels
	n := len(pcm) / ch
	if n == 0 {
		return pcm[:0]
	}
	at := func(i, c int) float64 {
		if i < 0 {
			return float64(r.last[c])
		}
		return float64(pcm[i*ch+c])
	}
	out := r.buf[:0]
	for ; r.pos < float64(n-1); r.pos += r.step {
		i := int(math.Floor(r.pos))
		frac := r.pos - float64(i)
		for c := 0; c < ch; c++ {
			a, b := at(i, c), at(i+1, c)
			out = append(out, int16(math.Round(a+(b-a)*frac)))
		}
	}
	r.pos -= float64(n)
	copy(r.last, pcm[(n-1)*ch:])
	r.buf = out
	return out
}
