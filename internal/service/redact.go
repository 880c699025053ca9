package service

import "regexp"

// userinfoPattern matches the password part of URL userinfo ("://user:secret@").
var userinfoPattern = regexp.MustCompile(`(://[^/\s:@"]*:)[^/\s@"]+@`)

// RedactURL hides userinfo passwords in s, which may be a bare URL or an
// error message that embeds one. Used before anything reaches the logs.
func RedactURL(s string) string {
	return userinfoPattern.ReplaceAllString(s, "${1}[REDACTED]@")
}
