package session

import "regexp"

// mentionsFile reports whether question contains fileName as a
// case-insensitive, word-bounded substring.
func mentionsFile(question, fileName string) bool {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(fileName) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(question)
}
