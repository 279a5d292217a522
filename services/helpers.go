package services

import "sort"

func sortedStrings(in []string) []string {
	sort.Strings(in)
	return in
}

// distinct keeps the first occurrence of every non-empty value.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
