package level_test

import (
	"fmt"

	"github.com/cwbudde/algo-dagc/stats/level"
)

func ExampleMeter() {
	m := level.NewMeter(4)
	m.Update([]float32{0.5, -0.5})
	m.Update([]float32{0.5, -0.5})
	s := m.Result()
	fmt.Printf("len=%d rms=%.2f peak=%.2f\n", s.Length, s.RMS, s.Peak)

	// Output:
	// len=4 rms=0.50 peak=0.50
}
