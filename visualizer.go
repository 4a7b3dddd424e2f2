package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// Auto-gain constants. The gain follows an exponential moving average so
// a loud transient doesn't make the whole band jump.
const (
	gainTarget = 0.98
	gainDecay  = 0.98
	gainMin    = 1.0
	gainMax    = 100.0
)

// cavaConfigFormat is the generated configuration handed to the external
// spectrum analyzer: fixed-size binary frames on stdout, one unsigned
// sample per bar.
const cavaConfigFormat = `[general]
bars = %d
autogain = %s
[output]
method = raw
raw_target = /dev/stdout
bit_format = %s
`

// autoGain keeps the running gain scalar for the sample stream.
type autoGain struct {
	gain float64
}

func newAutoGain() *autoGain {
	return &autoGain{gain: 1.0}
}

// apply scales a frame in place. When the frame has signal, the gain
// chases clamp(target/peak); on silence it decays back toward gainMin.
func (g *autoGain) apply(sample []float64) {
	peak := 0.0
	for _, v := range sample {
		if v > peak {
			peak = v
		}
	}
	if peak > 0 {
		target := gainTarget / peak
		if target < gainMin {
			target = gainMin
		}
		if target > gainMax {
			target = gainMax
		}
		g.gain = g.gain*gainDecay + target*(1-gainDecay)
	} else {
		g.gain = g.gain*gainDecay + gainMin*(1-gainDecay)
	}
	for i, v := range sample {
		v *= g.gain
		if v > 1 {
			v = 1
		}
		if v < 0 {
			v = 0
		}
		sample[i] = v
	}
}

// decodeFrame turns one raw analyzer frame into normalized floats in
// [0,1], dividing by the sample's maximum representable value.
func decodeFrame(raw []byte, bytesPerSample int, out []float64) {
	if bytesPerSample == 2 {
		for i := range out {
			out[i] = float64(binary.LittleEndian.Uint16(raw[i*2:])) / 65535.0
		}
		return
	}
	for i := range out {
		out[i] = float64(raw[i]) / 255.0
	}
}

// Visualizer spawns the external spectrum analyzer and keeps the latest
// decoded frame in a shared buffer. The reader goroutine replaces the
// buffer as a whole under the lock; renderers never observe a partially
// updated frame.
type Visualizer struct {
	cmd     *exec.Cmd
	cfgPath string
	bars    int
	stop    chan struct{}

	mu      sync.Mutex
	samples []float64
}

// StartVisualizer writes the analyzer configuration to a temporary file,
// launches the process, and starts the frame reader. sixteenBit selects
// two bytes per sample instead of one.
func StartVisualizer(bars int, sixteenBit, autogain bool) (*Visualizer, error) {
	if bars < 1 {
		bars = 1
	}
	bitFormat := "8bit"
	if sixteenBit {
		bitFormat = "16bit"
	}
	ag := "0"
	if autogain {
		ag = "1"
	}

	cfg, err := os.CreateTemp("", "songui-cava-*.conf")
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(cfg, cavaConfigFormat, bars, ag, bitFormat); err != nil {
		cfg.Close()
		os.Remove(cfg.Name())
		return nil, err
	}
	cfg.Close()

	cmd := exec.Command("cava", "-p", cfg.Name())
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		os.Remove(cfg.Name())
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		os.Remove(cfg.Name())
		return nil, err
	}

	v := &Visualizer{
		cmd:     cmd,
		cfgPath: cfg.Name(),
		bars:    bars,
		stop:    make(chan struct{}),
		samples: make([]float64, bars),
	}
	bytesPerSample := 1
	if sixteenBit {
		bytesPerSample = 2
	}
	go v.readLoop(pipe, bytesPerSample, autogain)
	return v, nil
}

// readLoop reads exactly one frame's worth of bytes at a time. A short
// read means the stream closed and the reader terminates.
func (v *Visualizer) readLoop(pipe io.Reader, bytesPerSample int, autogain bool) {
	raw := make([]byte, v.bars*bytesPerSample)
	frame := make([]float64, v.bars)
	gain := newAutoGain()
	for {
		select {
		case <-v.stop:
			return
		default:
		}
		if _, err := io.ReadFull(pipe, raw); err != nil {
			return
		}
		decodeFrame(raw, bytesPerSample, frame)
		if autogain {
			gain.apply(frame)
		}
		v.mu.Lock()
		copy(v.samples, frame)
		v.mu.Unlock()
	}
}

// Samples returns a copy of the latest frame. Stale-but-consistent reads
// are fine; the renderer never blocks on the reader.
func (v *Visualizer) Samples() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]float64, len(v.samples))
	copy(out, v.samples)
	return out
}

// Stop signals the reader, terminates the analyzer, awaits its exit, and
// removes the temporary configuration file.
func (v *Visualizer) Stop() {
	close(v.stop)
	if v.cmd.Process != nil {
		_ = v.cmd.Process.Kill()
	}
	_ = v.cmd.Wait()
	_ = os.Remove(v.cfgPath)
}

// resampleBars fits a frame of n source bars to a display width. Wider
// sources are averaged over floor-boundary groups; narrower ones are
// repeated with the leftover columns distributed outward from the center
// so the widening stays visually centered.
func resampleBars(src []float64, width int) []float64 {
	n := len(src)
	if width <= 0 || n == 0 {
		return nil
	}
	if n == width {
		out := make([]float64, n)
		copy(out, src)
		return out
	}
	if n > width {
		out := make([]float64, width)
		for i := 0; i < width; i++ {
			lo := i * n / width
			hi := (i + 1) * n / width
			if hi <= lo {
				hi = lo + 1
			}
			sum := 0.0
			for _, s := range src[lo:hi] {
				sum += s
			}
			out[i] = sum / float64(hi-lo)
		}
		return out
	}

	base := width / n
	rem := width % n
	counts := make([]int, n)
	for i := range counts {
		counts[i] = base
	}
	left := n/2 - rem/2
	for i := 0; i < rem; i++ {
		if idx := left + i; idx >= 0 && idx < n {
			counts[idx]++
		}
	}
	out := make([]float64, 0, width)
	for i, s := range src {
		for j := 0; j < counts[i]; j++ {
			out = append(out, s)
		}
	}
	// Rounding slack: pad with the last sample or trim.
	for len(out) < width {
		out = append(out, src[n-1])
	}
	return out[:width]
}
