package facts

import "testing"

func TestMeetsMinimumOS(t *testing.T) {
	cases := []struct {
		name    string
		host    string
		minimum string
		want    bool
		wantErr bool
	}{
		{"no minimum", "10.0.19045", "", true, false},
		{"host newer", "10.0.22631", "10.0.19041", true, false},
		{"host equal", "10.0.19041", "10.0.19041", true, false},
		{"host older", "6.1.7601", "10.0.19041", false, false},
		{"bad minimum", "10.0.19045", "windows ten", false, true},
		{"unknown host", "", "10.0.19041", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := System{OSVersion: tc.host}
			got, err := s.MeetsMinimumOS(tc.minimum)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("MeetsMinimumOS: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
