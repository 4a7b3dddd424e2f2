package main

import (
	"math"
	"testing"
)

// TestResampleLengths verifies the resampled frame is always exactly the
// display width.
func TestResampleLengths(t *testing.T) {
	src := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(i) / float64(n)
		}
		return out
	}
	for _, n := range []int{1, 2, 3, 10, 30, 100} {
		for _, w := range []int{1, 2, 3, 10, 30, 100, 257} {
			got := resampleBars(src(n), w)
			if len(got) != w {
				t.Errorf("resampleBars(n=%d, w=%d) len = %d; want %d", n, w, len(got), w)
			}
		}
	}
}

// TestResampleDownsampleGroups checks the floor-boundary group averages
// for the 10-into-3 case: groups of sizes 3, 3, 4.
func TestResampleDownsampleGroups(t *testing.T) {
	src := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	got := resampleBars(src, 3)

	want := []float64{
		(0 + 1 + 2) / 3.0,
		(3 + 4 + 5) / 3.0,
		(6 + 7 + 8 + 9) / 4.0,
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("group %d = %v; want %v", i, got[i], want[i])
		}
	}
}

// TestResampleUpsampleCentered checks 3-into-10: repeats sum to 10 with
// the extra repeat on the center bar.
func TestResampleUpsampleCentered(t *testing.T) {
	src := []float64{0.1, 0.5, 0.9}
	got := resampleBars(src, 10)

	counts := map[float64]int{}
	for _, v := range got {
		counts[v]++
	}
	assertEqual(t, counts[0.1], 3, "left bar repeats")
	assertEqual(t, counts[0.5], 4, "center bar repeats")
	assertEqual(t, counts[0.9], 3, "right bar repeats")

	// The widened output must stay ordered, not interleaved.
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("output not ordered at %d: %v", i, got)
		}
	}
}

// TestResamplePassthroughAndDegenerate covers the equal-width copy and
// the zero-width guard.
func TestResamplePassthroughAndDegenerate(t *testing.T) {
	src := []float64{0.2, 0.4, 0.6}
	got := resampleBars(src, 3)
	for i := range src {
		assertEqual(t, got[i], src[i], "passthrough value")
	}
	// Passthrough must be a copy, not an alias.
	got[0] = 9
	assertEqual(t, src[0], 0.2, "source untouched")

	if out := resampleBars(src, 0); out != nil {
		t.Errorf("width 0 = %v; want nil", out)
	}
	if out := resampleBars(nil, 5); out != nil {
		t.Errorf("empty source = %v; want nil", out)
	}
}

// TestAutoGainConvergence feeds a sustained 0.5 peak and expects the gain
// to converge toward target/0.5.
func TestAutoGainConvergence(t *testing.T) {
	g := newAutoGain()
	for i := 0; i < 600; i++ {
		frame := []float64{0.5, 0.25, 0.1}
		g.apply(frame)
	}
	want := gainTarget / 0.5
	if math.Abs(g.gain-want) > 0.05 {
		t.Errorf("gain = %v; want ≈ %v", g.gain, want)
	}
}

// TestAutoGainDecaysOnSilence verifies an all-zero frame decays the gain
// toward the minimum without faulting.
func TestAutoGainDecaysOnSilence(t *testing.T) {
	g := newAutoGain()
	g.gain = 10.0
	for i := 0; i < 600; i++ {
		g.apply([]float64{0, 0, 0})
	}
	if math.Abs(g.gain-gainMin) > 0.05 {
		t.Errorf("gain after silence = %v; want ≈ %v", g.gain, gainMin)
	}
}

// TestAutoGainClampsOutput checks gained samples never leave [0,1].
func TestAutoGainClampsOutput(t *testing.T) {
	g := newAutoGain()
	g.gain = 50.0
	frame := []float64{0.9, 0.5, 0.01}
	g.apply(frame)
	for i, v := range frame {
		if v < 0 || v > 1 {
			t.Errorf("sample %d = %v outside [0,1]", i, v)
		}
	}
}

// TestDecodeFrame checks 8-bit and 16-bit normalization.
func TestDecodeFrame(t *testing.T) {
	out8 := make([]float64, 3)
	decodeFrame([]byte{0, 128, 255}, 1, out8)
	assertEqual(t, out8[0], 0.0, "8-bit zero")
	assertEqual(t, out8[2], 1.0, "8-bit max")
	if math.Abs(out8[1]-128.0/255.0) > 1e-9 {
		t.Errorf("8-bit mid = %v", out8[1])
	}

	out16 := make([]float64, 2)
	decodeFrame([]byte{0x00, 0x00, 0xff, 0xff}, 2, out16)
	assertEqual(t, out16[0], 0.0, "16-bit zero")
	assertEqual(t, out16[1], 1.0, "16-bit max")
}
