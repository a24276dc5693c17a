package common

import "strings"

// ParseCSV splits a comma separated query value, dropping blanks and repeats
// while keeping first-seen order.
func ParseCSV(value string) []string {
	var result []string
	seen := map[string]bool{}
	for _, part := range strings.Split(value, ",") {
		item := strings.TrimSpace(part)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
