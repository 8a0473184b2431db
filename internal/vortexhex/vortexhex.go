/*
NAME
  vortexhex.go

DESCRIPTION
  vortexhex formats byte slices as hex strings for log output,
  supplemented from the original Rust implementation's
  bytes_to_hex_string helper.
*/

// Package vortexhex provides a hex-dump helper for log output.
package vortexhex

// String renders b as a "0x"-prefixed lowercase hex string.
func String(b []byte) string {
	out := make([]byte, 2+len(b)*2)
	out[0], out[1] = '0', 'x'
	const digits = "0123456789abcdef"
	for i, c := range b {
		out[2+i*2] = digits[c>>4]
		out[3+i*2] = digits[c&0xf]
	}
	return string(out)
}
