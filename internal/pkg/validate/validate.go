package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// YearMonth reports whether value looks like YYYY-MM, the format the site
// stores experience dates in.
func YearMonth(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) != 7 || v[4] != '-' {
		return false
	}
	for i, c := range v {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
