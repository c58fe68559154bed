package records

import "testing"

type item struct {
	ID string `json:"id"`
}

func TestDecodeListTolerance(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		found bool
		want  Outcome
		n     int
	}{
		{"missing", "", false, Missing, 0},
		{"not json", "not json", true, Malformed, 0},
		{"object where array expected", `{"id":"a"}`, true, Malformed, 0},
		{"null", "null", true, Malformed, 0},
		{"blank", "   ", true, Malformed, 0},
		{"wrong element shape", `[1,2]`, true, Malformed, 0},
		{"empty array", `[]`, true, Found, 0},
		{"ok", `[{"id":"a"},{"id":"b"}]`, true, Found, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, out := DecodeList[item]([]byte(tt.raw), tt.found)
			if out != tt.want {
				t.Fatalf("outcome=%s, want %s", out, tt.want)
			}
			if got == nil {
				t.Fatalf("expected non-nil slice")
			}
			if len(got) != tt.n {
				t.Fatalf("len=%d, want %d", len(got), tt.n)
			}
		})
	}
}

func TestDecodeMapTolerance(t *testing.T) {
	got, out := DecodeMap[item]([]byte(`[{"id":"a"}]`), true)
	if out != Malformed || got == nil || len(got) != 0 {
		t.Fatalf("array where object expected: out=%s got=%v", out, got)
	}
	got, out = DecodeMap[item]([]byte(`{"s1":{"id":"a"}}`), true)
	if out != Found || got["s1"].ID != "a" {
		t.Fatalf("out=%s got=%v", out, got)
	}
}

func TestParseAttendanceKey(t *testing.T) {
	cases := []struct {
		key, class, date string
		ok               bool
	}{
		{AttendanceKey("Grade 5 - A", "2024-02-01"), "Grade 5 - A", "2024-02-01", true},
		{"attendance:Odd:Class:2024-02-01", "Odd:Class", "2024-02-01", true},
		{"attendance:2024-02-01", "", "", false},
		{"attendance:Grade 5 - A:", "", "", false},
		{"staffAttendance:2024-02-01", "", "", false},
	}
	for _, tc := range cases {
		c, d, ok := ParseAttendanceKey(tc.key)
		if ok != tc.ok || c != tc.class || d != tc.date {
			t.Fatalf("%q -> (%q,%q,%v)", tc.key, c, d, ok)
		}
	}
}

func TestSplitTenantKey(t *testing.T) {
	tenant, key, ok := SplitTenantKey("tenant/greenhill/attendance:Grade 1 - A:2024-01-01")
	if !ok || tenant != "greenhill" || key != "attendance:Grade 1 - A:2024-01-01" {
		t.Fatalf("got %q %q %v", tenant, key, ok)
	}
	if _, _, ok := SplitTenantKey("students"); ok {
		t.Fatalf("expected no tenant for bare key")
	}
}
