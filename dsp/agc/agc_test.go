package agc

import (
	"errors"
	"math"
	"testing"
)

var (
	nan32    = float32(math.NaN())
	posInf32 = float32(math.Inf(1))
	negInf32 = float32(math.Inf(-1))
)

// TestNew verifies constructor acceptance and the reported error kind.
func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		target     float32
		distortion float32
		wantErr    error
	}{
		{"valid typical", 0.001, 0.0001, nil},
		{"valid distortion zero", 1, 0, nil},
		{"valid distortion one", 1, 1, nil},
		{"valid tiny target", 1e-30, 0.5, nil},
		{"target zero", 0, 0.5, ErrInvalidTargetRMS},
		{"target negative", -1, 0.5, ErrInvalidTargetRMS},
		{"target NaN", nan32, 0.5, ErrInvalidTargetRMS},
		{"target +Inf", posInf32, 0.5, ErrInvalidTargetRMS},
		{"target -Inf", negInf32, 0.5, ErrInvalidTargetRMS},
		{"distortion negative", 1, -0.1, ErrInvalidDistortionFactor},
		{"distortion above one", 1, 1.1, ErrInvalidDistortionFactor},
		{"distortion NaN", 1, nan32, ErrInvalidDistortionFactor},
		{"distortion +Inf", 1, posInf32, ErrInvalidDistortionFactor},
		{"both invalid reports target", -1, 2, ErrInvalidTargetRMS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.target, tt.distortion)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}

				if a == nil {
					t.Fatal("New() returned nil without error")
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}

			if a != nil {
				t.Error("New() returned a controller with an error")
			}

			var typed Error
			if !errors.As(err, &typed) {
				t.Errorf("New() error %T does not implement agc.Error", err)
			}
		})
	}
}

// TestNewInvalidTargetCarriesValue verifies the offending target is reported.
func TestNewInvalidTargetCarriesValue(t *testing.T) {
	_, err := New(-1.0, 0.5)

	var targetErr *InvalidTargetRMSError
	if !errors.As(err, &targetErr) {
		t.Fatalf("New() error = %v, want *InvalidTargetRMSError", err)
	}

	if targetErr.Value != -1.0 {
		t.Errorf("Value = %v, want -1", targetErr.Value)
	}
}

// TestNewInvalidDistortionCarriesValue verifies the offending factor is reported.
func TestNewInvalidDistortionCarriesValue(t *testing.T) {
	_, err := New(1.0, 1.5)

	var distErr *InvalidDistortionFactorError
	if !errors.As(err, &distErr) {
		t.Fatalf("New() error = %v, want *InvalidDistortionFactorError", err)
	}

	if distErr.Value != 1.5 {
		t.Errorf("Value = %v, want 1.5", distErr.Value)
	}

	if errors.Is(err, ErrInvalidTargetRMS) {
		t.Error("distortion error matches ErrInvalidTargetRMS")
	}
}

// TestNewDefaults verifies initial state and parameter accessors.
func TestNewDefaults(t *testing.T) {
	a, err := New(0.25, 0.001)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.Gain() != 1 {
		t.Errorf("Gain() = %v, want 1", a.Gain())
	}

	if a.IsGainFrozen() {
		t.Error("IsGainFrozen() = true, want false")
	}

	if a.TargetRMS() != 0.25 {
		t.Errorf("TargetRMS() = %v, want 0.25", a.TargetRMS())
	}

	if a.DistortionFactor() != 0.001 {
		t.Errorf("DistortionFactor() = %v, want 0.001", a.DistortionFactor())
	}
}

func TestFreezeGainToggle(t *testing.T) {
	a, _ := New(1, 0.1)

	a.FreezeGain(true)
	if !a.IsGainFrozen() {
		t.Error("IsGainFrozen() = false after FreezeGain(true)")
	}

	a.FreezeGain(true)
	if !a.IsGainFrozen() {
		t.Error("IsGainFrozen() = false after repeated FreezeGain(true)")
	}

	a.FreezeGain(false)
	if a.IsGainFrozen() {
		t.Error("IsGainFrozen() = true after FreezeGain(false)")
	}
}

// TestProcessEmpty verifies an empty frame is a no-op in both states.
func TestProcessEmpty(t *testing.T) {
	for _, frozen := range []bool{false, true} {
		a, _ := New(0.01, 0.5)
		a.Process([]float32{0.3, -0.7})
		a.FreezeGain(frozen)
		before := a.Gain()

		a.Process(nil)
		a.Process([]float32{})

		if a.Gain() != before {
			t.Errorf("frozen=%v: Gain() = %v after empty frame, want %v", frozen, a.Gain(), before)
		}

		if a.IsGainFrozen() != frozen {
			t.Errorf("frozen=%v: freeze state changed", frozen)
		}
	}
}

// TestProcessFrozen verifies frozen processing applies but never updates gain.
func TestProcessFrozen(t *testing.T) {
	a, _ := New(0.01, 0.01)
	warm := []float32{0.1, 0.2, -0.3, 0.05}
	a.Process(warm)

	gain := a.Gain()
	if gain == 1 {
		t.Fatal("warm-up did not adapt gain")
	}

	a.FreezeGain(true)

	input := []float32{0.5, 1.0, -0.2, 0, 3.5}
	for range 5 {
		buf := append([]float32(nil), input...)
		a.Process(buf)

		for i := range buf {
			want := input[i] * gain
			if buf[i] != want {
				t.Fatalf("sample %d = %v, want %v", i, buf[i], want)
			}
		}

		if a.Gain() != gain {
			t.Fatalf("Gain() = %v while frozen, want %v", a.Gain(), gain)
		}
	}
}

// TestProcessMatchesRule verifies the per-sample closed-loop update.
func TestProcessMatchesRule(t *testing.T) {
	const (
		target     float32 = 0.05
		distortion float32 = 0.02
	)

	a, _ := New(target, distortion)
	input := []float32{0.5, -0.25, 0.125, 0, 1, -0.01}
	buf := append([]float32(nil), input...)
	a.Process(buf)

	gain := float32(1)
	for i, x := range input {
		x *= gain
		if buf[i] != x {
			t.Fatalf("sample %d = %v, want %v", i, buf[i], x)
		}

		y := x * x / target
		z := 1 + float32(distortion*(1-y))
		gain *= max(z, MinStep)
	}

	if a.Gain() != gain {
		t.Errorf("Gain() = %v, want %v", a.Gain(), gain)
	}
}

// TestProcessSampleEqualsProcess verifies both entry points share state updates.
func TestProcessSampleEqualsProcess(t *testing.T) {
	a, _ := New(0.02, 0.003)
	b, _ := New(0.02, 0.003)

	buf := []float32{0.1, 0.4, -0.6, 0.2, 0.9, -0.05}
	want := append([]float32(nil), buf...)
	a.Process(buf)

	for i := range want {
		want[i] = b.ProcessSample(want[i])
	}

	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d: Process = %v, ProcessSample = %v", i, buf[i], want[i])
		}
	}

	if a.Gain() != b.Gain() {
		t.Errorf("gain mismatch: %v vs %v", a.Gain(), b.Gain())
	}
}

// TestProcessDirection verifies gain rises below target and falls above it.
func TestProcessDirection(t *testing.T) {
	quiet, _ := New(1, 0.01)
	quiet.Process([]float32{0.01, -0.01, 0.01})

	if quiet.Gain() <= 1 {
		t.Errorf("quiet input: Gain() = %v, want > 1", quiet.Gain())
	}

	loud, _ := New(0.01, 0.01)
	loud.Process([]float32{0.9, -0.9, 0.9})

	if loud.Gain() >= 1 {
		t.Errorf("loud input: Gain() = %v, want < 1", loud.Gain())
	}
}

// TestProcessStepFloor verifies a power spike cannot flip or zero the gain.
func TestProcessStepFloor(t *testing.T) {
	a, _ := New(0.001, 1)

	buf := []float32{1}
	a.Process(buf)

	if buf[0] != 1 {
		t.Errorf("output = %v, want 1", buf[0])
	}

	if a.Gain() != MinStep {
		t.Errorf("Gain() = %v, want %v", a.Gain(), MinStep)
	}

	for range 10 {
		a.Process([]float32{1, -1, 1})
		if !(a.Gain() > 0) {
			t.Fatalf("Gain() = %v, want positive", a.Gain())
		}
	}
}

func TestProcessZeroDistortionHoldsGain(t *testing.T) {
	a, _ := New(0.01, 0)
	buf := []float32{0.5, -0.5, 0.9}
	a.Process(buf)

	if a.Gain() != 1 {
		t.Errorf("Gain() = %v, want 1", a.Gain())
	}
}

// TestProcessNaNPropagates verifies non-finite samples are not sanitised.
func TestProcessNaNPropagates(t *testing.T) {
	a, _ := New(0.01, 0.1)
	buf := []float32{nan32, 0.5}
	a.Process(buf)

	if !math.IsNaN(float64(buf[0])) || !math.IsNaN(float64(buf[1])) {
		t.Errorf("output = %v, want NaN propagated", buf)
	}

	if !math.IsNaN(float64(a.Gain())) {
		t.Errorf("Gain() = %v, want NaN", a.Gain())
	}
}

func TestReset(t *testing.T) {
	a, _ := New(0.01, 0.1)
	a.Process([]float32{0.5, 0.5})
	a.FreezeGain(true)
	a.Reset()

	if a.Gain() != 1 {
		t.Errorf("Gain() = %v after Reset, want 1", a.Gain())
	}

	if !a.IsGainFrozen() {
		t.Error("Reset cleared the freeze state")
	}
}

// TestDeterminism verifies identical inputs give bit-identical outputs.
func TestDeterminism(t *testing.T) {
	frames := [][]float32{
		{0.1, 0.2, 0.3},
		{-0.5, 0.25, 0.75, -0.125},
		{},
		{0.9, 0.9},
		{0.001, -0.002},
	}
	freeze := []bool{false, true, false, false, true}

	run := func() ([]float32, float32) {
		a, err := New(0.02, 0.05)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		var out []float32
		for i, f := range frames {
			a.FreezeGain(freeze[i])
			buf := append([]float32(nil), f...)
			a.Process(buf)
			out = append(out, buf...)
		}

		return out, a.Gain()
	}

	out1, gain1 := run()
	out2, gain2 := run()

	if math.Float32bits(gain1) != math.Float32bits(gain2) {
		t.Fatalf("final gain differs: %v vs %v", gain1, gain2)
	}

	for i := range out1 {
		if math.Float32bits(out1[i]) != math.Float32bits(out2[i]) {
			t.Fatalf("sample %d differs: %v vs %v", i, out1[i], out2[i])
		}
	}
}

// TestFreezeScenario walks through freeze, process, unfreeze, process.
func TestFreezeScenario(t *testing.T) {
	a, err := New(0.001, 0.0001)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a.Gain() != 1 {
		t.Fatalf("Gain() = %v, want 1", a.Gain())
	}

	a.FreezeGain(true)

	input := []float32{0.5, 1.0, -0.2}
	buf := append([]float32(nil), input...)
	a.Process(buf)

	if a.Gain() != 1 {
		t.Errorf("Gain() = %v while frozen, want 1", a.Gain())
	}

	for i := range buf {
		if buf[i] != input[i] {
			t.Errorf("sample %d = %v, want %v", i, buf[i], input[i])
		}
	}

	a.FreezeGain(false)
	buf = append(buf[:0], input...)
	a.Process(buf)

	if a.Gain() == 1 {
		t.Error("Gain() unchanged after unfrozen processing")
	}
}
