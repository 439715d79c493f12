package otp

import (
	"strings"

	"github.com/shlapabank/dashboard-go/internal"
)

// CodeBuffer mirrors the digit boxes of the code entry.
type CodeBuffer struct {
	digits [internal.OtpDigits]string
	focus  int
}

func lastDigit(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] >= '0' && s[i] <= '9' {
			return s[i : i+1]
		}
	}
	return ""
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= internal.OtpDigits {
		return internal.OtpDigits - 1
	}
	return i
}

// Input stores the last digit of value at index and returns the new focus.
func (b *CodeBuffer) Input(index int, value string) int {
	index = clampIndex(index)
	d := lastDigit(value)
	b.digits[index] = d
	b.focus = index
	if d != "" && index < internal.OtpDigits-1 {
		b.focus = index + 1
	}
	return b.focus
}

// Backspace clears the digit at index, or moves back when it is already empty.
func (b *CodeBuffer) Backspace(index int) int {
	index = clampIndex(index)
	if b.digits[index] == "" && index > 0 {
		index--
	}
	b.digits[index] = ""
	b.focus = index
	return b.focus
}

// Fill spreads the digits of code across the boxes starting at the first.
func (b *CodeBuffer) Fill(code string) int {
	b.Reset()
	n := 0
	for _, r := range code {
		if r < '0' || r > '9' {
			continue
		}
		if n == internal.OtpDigits {
			break
		}
		b.digits[n] = string(r)
		n++
	}
	b.focus = clampIndex(n - 1)
	return b.focus
}

func (b *CodeBuffer) Code() string {
	return strings.Join(b.digits[:], "")
}

func (b *CodeBuffer) Filled() int {
	n := 0
	for _, d := range b.digits {
		if d != "" {
			n++
		}
	}
	return n
}

func (b *CodeBuffer) Complete() bool {
	return b.Filled() == internal.OtpDigits
}

func (b *CodeBuffer) Focus() int {
	return b.focus
}

func (b *CodeBuffer) Reset() {
	b.digits = [internal.OtpDigits]string{}
	b.focus = 0
}
