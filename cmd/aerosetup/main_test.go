package main

import (
	"reflect"
	"testing"
)

func TestNormalizeArgs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"silent switch", []string{"/S"}, []string{"--silent"}},
		{"lowercase silent", []string{"/s"}, []string{"--silent"}},
		{"bare install dir", []string{"/D", `C:\Apps`}, []string{"--install-dir", `C:\Apps`}},
		{"joined install dir", []string{"/D=C:\\Program Files\\App"}, []string{"--install-dir=C:\\Program Files\\App"}},
		{"mixed", []string{"/S", "/D=C:\\Apps"}, []string{"--silent", "--install-dir=C:\\Apps"}},
		{"flags pass through", []string{"--force", "-vv"}, []string{"--force", "-vv"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeArgs(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("normalizeArgs(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
