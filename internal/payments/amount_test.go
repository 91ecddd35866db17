package payments

import "testing"

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{40, 4000},
		{19.99, 1999},
		{10.006, 1001},
		{0.1 + 0.2, 30}, // float noise must round away
	}

	for _, tc := range cases {
		if got := ToMinorUnits(tc.amount); got != tc.want {
			t.Fatalf("ToMinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
