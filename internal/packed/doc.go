// Package packed provides dense bit-packed storage for fixed-width integer
// codes.
//
// Quantized float features use 8-bit codes, quantized categorical features
// 32-bit codes; the array itself is width-generic (1..64 bits). Codes are
// laid out back to back inside 64-bit words, so a single code may span a
// word boundary.
package packed
