package utils

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// MaxWordsAmount is the first amount ToVietnameseWords no longer spells out.
const MaxWordsAmount int64 = 1_000_000_000

var (
	unitWords = [...]string{"", "một", "hai", "ba", "bốn", "năm", "sáu", "bảy", "tám", "chín"}
	tensWords = [...]string{
		"", "mười", "hai mươi", "ba mươi", "bốn mươi",
		"năm mươi", "sáu mươi", "bảy mươi", "tám mươi", "chín mươi",
	}
	hundredsWords = [...]string{
		"", "một trăm", "hai trăm", "ba trăm", "bốn trăm",
		"năm trăm", "sáu trăm", "bảy trăm", "tám trăm", "chín trăm",
	}
)

// ToVietnameseWords spells out n in lowercase Vietnamese, grouping by
// thousand ("ngàn") and million ("triệu").
//
// Amounts outside [0, MaxWordsAmount) are returned as plain digits: there is
// no agreed word form for "tỷ" and above yet, and negative amounts never
// reach the email body.
func ToVietnameseWords(n int64) string {
	if n < 0 || n >= MaxWordsAmount {
		return strconv.FormatInt(n, 10)
	}
	if n == 0 {
		return "không"
	}
	return spell(n)
}

func spell(n int64) string {
	switch {
	case n < 10:
		return unitWords[n]
	case n < 20:
		return "mười" + unitSuffix(n%10)
	case n < 100:
		return tensWords[n/10] + unitSuffix(n%10)
	case n < 1000:
		rem := n % 100
		if rem == 0 {
			return hundredsWords[n/100]
		}
		return hundredsWords[n/100] + " " + spell(rem)
	case n < 1_000_000:
		out := spell(n/1000) + " ngàn"
		rem := n % 1000
		if rem == 0 {
			return out
		}
		if rem < 100 {
			out += " không trăm"
		}
		return out + " " + spell(rem)
	default:
		out := spell(n/1_000_000) + " triệu"
		rem := n % 1_000_000
		if rem == 0 {
			return out
		}
		if rem < 1000 {
			out += " không ngàn"
		}
		return out + " " + spell(rem)
	}
}

// unitSuffix is the trailing unit word after "mười" or a tens word.
// A final 5 is read "lăm".
func unitSuffix(d int64) string {
	switch d {
	case 0:
		return ""
	case 5:
		return " lăm"
	default:
		return " " + unitWords[d]
	}
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
