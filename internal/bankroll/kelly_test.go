package bankroll

import (
	"math"
	"testing"
)

func TestKellyFraction(t *testing.T) {
	tests := []struct {
		name        string
		trueProb    float64
		decimalOdds float64
		fraction    float64
		want        float64
	}{
		{
			// Full Kelly at p=0.58, +120: (1.2*0.58 - 0.42) / 1.2 = 0.23.
			name:     "Quarter Kelly on a good bet",
			trueProb: 0.58, decimalOdds: 2.2, fraction: 0.25,
			want: 0.0575,
		},
		{
			name:     "No edge means no bet",
			trueProb: 0.5, decimalOdds: 2.0, fraction: 0.25,
			want: 0,
		},
		{
			name:     "Negative expectation means no bet",
			trueProb: 0.4, decimalOdds: 2.0, fraction: 0.25,
			want: 0,
		},
		{
			name:     "Zero fraction falls back to the default",
			trueProb: 0.58, decimalOdds: 2.2, fraction: 0,
			want: 0.0575,
		},
		{
			name:     "Degenerate odds",
			trueProb: 0.58, decimalOdds: 1.0, fraction: 0.25,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KellyFraction(tt.trueProb, tt.decimalOdds, tt.fraction)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("KellyFraction = %f, want %f", got, tt.want)
			}
		})
	}
}
