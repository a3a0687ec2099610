package pipeline

import "strconv"

// Ordinal renders n with its English ordinal suffix: 1st, 2nd, 3rd, 4th,
// 11th, 12th, 13th, 21st, 111th.
func Ordinal(n int) string {
	suffix := "th"
	switch n100 := abs(n) % 100; {
	case n100 >= 11 && n100 <= 13:
	case n100%10 == 1:
		suffix = "st"
	case n100%10 == 2:
		suffix = "nd"
	case n100%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
