package membership_test

import (
	"testing"

	"clubhouse/internal/domain/membership"
)

// TestClassify checks the hours threshold boundary.
func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		minutes   int
		threshold int
		want      string
	}{
		{"exactly at threshold", 1200, 20, membership.ClassActive},
		{"one minute under", 1199, 20, membership.ClassPassive},
		{"zero minutes", 0, 20, membership.ClassPassive},
		{"negative minutes count as zero", -30, 20, membership.ClassPassive},
		{"well over threshold", 5000, 20, membership.ClassActive},
		{"zero threshold makes everyone active", 0, 0, membership.ClassActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := membership.Classify(tt.minutes, tt.threshold); got != tt.want {
				t.Errorf("Classify(%d, %d) = %q, want %q", tt.minutes, tt.threshold, got, tt.want)
			}
		})
	}
}
