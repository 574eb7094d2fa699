package progress

import (
	"reflect"
	"testing"
)

func TestMapRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   map[string]string
	}{
		{"empty", map[string]string{}},
		{"plain", map[string]string{"a1": "done", "b2": "skipped"}},
		{"value with delimiter", map[string]string{"task": "ratio 1:2:3"}},
		{"value with newlines", map[string]string{"task": "line one\nline two\n"}},
		{"value with backslashes", map[string]string{"task": `C:\Users\pat`}},
		{"id with delimiter", map[string]string{"weird:id": "v", "other\nid": `w\`}},
		{"everything at once", map[string]string{
			`a\:b`: ":\n\\",
			"":     "",
			"\n":   "::",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeMap(encodeMap(tc.in))
			if err != nil {
				t.Fatalf("decode(encode(%v)): %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, mapOrEmpty(tc.in)) {
				t.Errorf("round trip = %#v, want %#v", got, tc.in)
			}
		})
	}
}

func mapOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func TestSetRoundTrip(t *testing.T) {
	in := map[string]bool{"plain": true, "with:colon": true, `with\slash`: true, "with\nnewline": true}
	got, err := decodeSet(encodeSet(in))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %#v, want %#v", got, in)
	}
}

func TestDecodeMapRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"no-delimiter", `a:trailing\`, `a\qb:v`} {
		if _, err := decodeMap(bad); err == nil {
			t.Errorf("decodeMap(%q) succeeded, want error", bad)
		}
	}
}

func TestEncodeMapDeterministic(t *testing.T) {
	m := map[string]string{"z": "1", "a": "2", "m": "3"}
	first := encodeMap(m)
	for i := 0; i < 10; i++ {
		if got := encodeMap(m); got != first {
			t.Fatalf("encodeMap not deterministic: %q vs %q", got, first)
		}
	}
}
