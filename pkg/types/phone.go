package types

import "regexp"

// Pakistani mobile numbers: leading 03 followed by exactly nine digits.
var pkMobilePattern = regexp.MustCompile(`^03\d{9}$`)

// IsPKMobile reports whether the value is a valid local mobile number.
func IsPKMobile(value string) bool {
	return pkMobilePattern.MatchString(value)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether the value looks like an email address.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}
