package raw

import "testing"

func TestGet_DefaultsAndTrim(t *testing.T) {
	t.Setenv("LOG_LEVEL", "  info ")
	rc := New().Prefix("LOG_")

	if got := rc.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("want info got %q", got)
	}
	if got := rc.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("want default console got %q", got)
	}
}

func TestGetBool(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"nope", true, false},
	}
	for _, tc := range cases {
		t.Setenv("X_FLAG", tc.val)
		if got := New().Prefix("X_").GetBool("FLAG", tc.def); got != tc.want {
			t.Fatalf("val=%q def=%v want %v got %v", tc.val, tc.def, tc.want, got)
		}
	}
}

func TestGetInt(t *testing.T) {
	cases := []struct {
		val  string
		want int
	}{
		{"", 7},
		{"12", 12},
		{"-3", 7},
		{"abc", 7},
	}
	for _, tc := range cases {
		t.Setenv("N_EVERY", tc.val)
		if got := New().Prefix("N_").GetInt("EVERY", 7); got != tc.want {
			t.Fatalf("val=%q want %d got %d", tc.val, tc.want, got)
		}
	}
}
