package picker

import (
	"errors"
	"testing"
)

func TestParseData(t *testing.T) {
	cases := []struct {
		data string
		want Token
	}{
		{data: "\fpick_prev|0", want: Prev(0)},
		{data: "\fpick_next|3", want: Next(3)},
		{data: "\fpick_done", want: Commit()},
		{data: "\fpick_toggle|HK|01", want: Toggle("HK|01")},
		// remarks that used to collide with control words are plain toggles now
		{data: "\fpick_toggle|combine", want: Toggle("combine")},
		{data: "\fpick_toggle|next_2", want: Toggle("next_2")},
		{data: "\fpick_noop", want: Token{Kind: KindNoop}},
	}
	for _, tc := range cases {
		got, err := ParseData(tc.data)
		if err != nil {
			t.Fatalf("ParseData(%q): %v", tc.data, err)
		}
		if got != tc.want {
			t.Fatalf("ParseData(%q) = %v, want %v", tc.data, got, tc.want)
		}
		if back := got.Data(); back != tc.data {
			t.Fatalf("Data() = %q, want %q", back, tc.data)
		}
	}
}

func TestParseRejectsForeignData(t *testing.T) {
	for _, data := range []string{
		"combine",
		"prev_1",
		"\fpick_prev|-1",
		"\fpick_next|x",
		"\fpick_toggle",
		"\fother|1",
		"",
	} {
		if _, err := ParseData(data); !errors.Is(err, ErrBadToken) {
			t.Fatalf("ParseData(%q) err = %v, want ErrBadToken", data, err)
		}
	}
}

func TestTokenFits(t *testing.T) {
	if !Toggle("short").Fits() {
		t.Fatal("short remark should fit")
	}
	long := make([]byte, MaxCallbackData)
	for i := range long {
		long[i] = 'a'
	}
	if Toggle(string(long)).Fits() {
		t.Fatal("64-byte remark cannot fit with its prefix")
	}
}
