/*
NAME
  vortexhex_test.go

DESCRIPTION
  vortexhex_test.go tests the hex-dump helper used in log output.
*/

package vortexhex

import "testing"

func TestString(t *testing.T) {
	cases := []struct {
		in   []byte
		want string
	}{
		{nil, "0x"},
		{[]byte{}, "0x"},
		{[]byte{0x00}, "0x00"},
		{[]byte{0xAB, 0xCD}, "0xabcd"},
		{[]byte{0x01, 0x02, 0x0F, 0xFF}, "0x01020fff"},
	}
	for _, c := range cases {
		if got := String(c.in); got != c.want {
			t.Errorf("String(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
