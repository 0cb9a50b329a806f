// Package base62 converts numeric identifiers to short alphanumeric codes and back.
//
// Digits are taken from the alphabet a-z, 0-9, A-Z in that order, so the digit
// value of 'a' is 0 and the digit value of 'Z' is 61. Codes are written most
// significant digit first and never carry leading zero digits.
package base62

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	base     = uint64(len(alphabet))
)

var (
	// ErrInvalidCharacter is returned by Decode when the code contains a symbol outside the alphabet.
	ErrInvalidCharacter = errors.New("invalid base62 character")
	// ErrOverflow is returned by Decode when the code does not fit into uint64.
	ErrOverflow = errors.New("base62 value overflows uint64")
)

var digits = func() [256]int8 {
	var d [256]int8
	for i := range d {
		d[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		d[alphabet[i]] = int8(i)
	}
	return d
}()

// Encode returns the base62 representation of id.
//
// Encode(0) is the empty string: the conversion loop stops as soon as id
// reaches zero, so zero produces no digits at all.
func Encode(id uint64) string {
	var buf [11]byte
	pos := len(buf)

	for id != 0 {
		pos--
		buf[pos] = alphabet[id%base]
		id /= base
	}

	return string(buf[pos:])
}

// Decode returns the identifier encoded in code. The empty code decodes to 0.
func Decode(code string) (uint64, error) {
	const op = "base62.Decode"

	var id uint64

	for i := 0; i < len(code); i++ {
		d := digits[code[i]]
		if d < 0 {
			return 0, fmt.Errorf("%s: %q at position %d: %w", op, code[i], i, ErrInvalidCharacter)
		}

		if id > (math.MaxUint64-uint64(d))/base {
			return 0, fmt.Errorf("%s: %s: %w", op, code, ErrOverflow)
		}

		id = id*base + uint64(d)
	}

	return id, nil
}

// Valid reports whether code is a non-empty string over the base62 alphabet.
func Valid(code string) bool {
	if code == "" {
		return false
	}

	return strings.Trim(code, alphabet) == ""
}
