package logger

import (
	"context"
	"testing"
)

func TestMetaRoundTrip(t *testing.T) {
	ctx := WithMeta(context.Background(), NewMeta(5, 10, 20))
	ctx = WithHandler(ctx, "/list")

	m := MetaFrom(ctx)
	if m.RID != "5:10:20" || m.UpdateID != 5 || m.ChatID != 10 || m.UserID != 20 {
		t.Fatalf("meta = %+v", m)
	}
	if m.Handler != "/list" {
		t.Fatalf("handler = %q", m.Handler)
	}
	if got := MetaFrom(nil); got != (Meta{}) {
		t.Fatalf("MetaFrom(nil) = %+v", got)
	}
}

func TestMetaFillKeepsExplicitAttrs(t *testing.T) {
	fields := map[string]any{"user_id": int64(1)}
	Meta{RID: "r", UserID: 2, ChatID: 3}.fill(fields)
	if fields["user_id"] != int64(1) {
		t.Fatalf("user_id overwritten: %v", fields["user_id"])
	}
	if fields["rid"] != "r" || fields["chat_id"] != int64(3) {
		t.Fatalf("fields = %v", fields)
	}
	if _, ok := fields["update_id"]; ok {
		t.Fatal("zero update_id should be omitted")
	}
}

func TestCompactRID(t *testing.T) {
	cases := map[string]string{
		"35:36:0":   "z.10.0",
		" 1:2:3 ":   "1.2.3",
		"rid-123":   "rid-123",
		"1:x:3":     "1:x:3",
		"":          "",
		"-1:100:-5": "-1.2s.-5",
	}
	for in, want := range cases {
		if got := CompactRID(in); got != want {
			t.Fatalf("CompactRID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{in: "a\x00b\tc\n", max: 10, want: "ab\tc\n"},
		{in: "héllo", max: 2, want: "hé"},
		{in: "abc", max: 0, want: ""},
		{in: "a​b", max: 5, want: "ab"},
	}
	for _, tc := range cases {
		if got := SanitizeLimit(tc.in, tc.max); got != tc.want {
			t.Fatalf("SanitizeLimit(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
