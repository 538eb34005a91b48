// Package common holds the small text and SNMP helpers shared by the
// vendor dialects.
package common

import "regexp"

// ansiRegex matches ANSI escape sequences (colors, cursor movement).
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes. OLT shells color their output
// and the codes break line-oriented parsing.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// Truncate caps raw device output carried inside result payloads.
// Transcripts can run to many kilobytes; results keep a prefix.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
