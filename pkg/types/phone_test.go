package types

import "testing"

func TestIsPKMobile(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"03001234567", true},
		{"03451234567", true},
		{"3001234567", false},
		{"0300123456", false},
		{"030012345678", false},
		{"0300123456a", false},
		{"+923001234567", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsPKMobile(tc.value); got != tc.want {
			t.Fatalf("IsPKMobile(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
