package machine

import "math"

const (
	sampleRate    = 48000
	psgBufferSize = 1024
	psgGain       = 1898.0
	lpfCutoffHz   = 2840.0
)

// lpfAlpha is the smoothing factor for the first-order RC low-pass filter.
// Derived from: alpha = dt / (RC + dt) where RC = 1/(2*pi*fc).
var lpfAlpha = 1.0 / (float64(sampleRate)/(2*math.Pi*lpfCutoffHz) + 1)

// mixAudio collects FM and PSG output buffers and mixes them into the
// stereo audio buffer. The FM synthesizer produces stereo L/R pairs, the
// PSG produces mono samples duplicated to both channels.
func (m *Machine) mixAudio() {
	fmSamples := m.fm.GetBuffer()
	psgBuf, psgCount := m.psg.GetBuffer()

	fmPairs := len(fmSamples) / 2
	mixCount := fmPairs
	if psgCount < mixCount {
		mixCount = psgCount
	}

	for i := 0; i < mixCount; i++ {
		fmL := int32(fmSamples[i*2])
		fmR := int32(fmSamples[i*2+1])
		psgVal := int32(psgBuf[i])
		mixL := clampInt32(fmL+psgVal, -32768, 32767)
		mixR := clampInt32(fmR+psgVal, -32768, 32767)
		m.audioBuffer = append(m.audioBuffer, int16(mixL), int16(mixR))
	}

	// append any remaining FM stereo samples
	if fmPairs > mixCount {
		m.audioBuffer = append(m.audioBuffer, fmSamples[mixCount*2:]...)
	}

	// append any remaining PSG samples as stereo
	for i := mixCount; i < psgCount; i++ {
		s := int16(psgBuf[i])
		m.audioBuffer = append(m.audioBuffer, s, s)
	}

	m.applyLowPass()
}

// applyLowPass runs a first-order RC low-pass over the audio buffer,
// matching the output filter on the original console's motherboard
// (fc ~= 2840 Hz). Filter state persists across frames.
func (m *Machine) applyLowPass() {
	for i := 0; i < len(m.audioBuffer); i += 2 {
		inL := float64(m.audioBuffer[i])
		inR := float64(m.audioBuffer[i+1])
		m.filterPrevL = lpfAlpha*inL + (1-lpfAlpha)*m.filterPrevL
		m.filterPrevR = lpfAlpha*inR + (1-lpfAlpha)*m.filterPrevR
		m.audioBuffer[i] = int16(math.Round(m.filterPrevL))
		m.audioBuffer[i+1] = int16(math.Round(m.filterPrevR))
	}
}

// clampInt32 clamps v to [min, max].
func clampInt32(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
