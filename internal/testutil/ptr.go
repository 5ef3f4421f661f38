package testutil

// StringPtr returns &s.
func StringPtr(s string) *string { return &s }
