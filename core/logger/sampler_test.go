package logger

import "testing"

func TestRatioSamplerWindow(t *testing.T) {
	s := newRatioSampler(2, 5)
	var got []bool
	for i := 0; i < 10; i++ {
		got = append(got, s.Allow())
	}
	want := []bool{true, true, false, false, false, true, true, false, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Allow() sequence = %v, want %v", got, want)
		}
	}
}

func TestRatioSamplerDisabled(t *testing.T) {
	s := newRatioSampler(0, 0)
	for i := 0; i < 3; i++ {
		if !s.Allow() {
			t.Fatal("zero ratio should admit every event")
		}
	}
}

func TestParseRatioSpec(t *testing.T) {
	cases := []struct {
		in       string
		num, den int
	}{
		{in: "1/50", num: 1, den: 50},
		{in: " 3 / 4 ", num: 3, den: 4},
		{in: "10", num: 1, den: 10},
		{in: "0", num: 0, den: 0},
		{in: "x/2", num: 0, den: 0},
		{in: "", num: 0, den: 0},
	}
	for _, tc := range cases {
		num, den := parseRatio(tc.in)
		if num != tc.num || den != tc.den {
			t.Fatalf("parseRatio(%q) = %d/%d, want %d/%d", tc.in, num, den, tc.num, tc.den)
		}
	}
}
