package render

import "gonum.org/v1/gonum/dsp/fourier"

// Decimate low-pass filters samples (via an FFT, zeroing bins above
// the new Nyquist rate) and downsamples by factor, used when a
// receiver's oversample ratio is greater than 1 and the final output
// should be at the base sample rate.
func Decimate(samples []complex128, factor int) []complex128 {
	if factor <= 1 || len(samples) == 0 {
		return samples
	}
	n := len(samples)
	fft := fourier.NewCmplxFFT(n)
	spectrum := fft.Coefficients(nil, samples)

	cutoff := n / (2 * factor)
	for i := cutoff; i < n-cutoff; i++ {
		spectrum[i] = 0
	}
	filtered := fft.Sequence(nil, spectrum)

	out := make([]complex128, 0, n/factor+1)
	for i := 0; i < n; i += factor {
		out = append(out, filtered[i]/complex(float64(n), 0))
	}
	return out
}
