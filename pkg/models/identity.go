package models

import "strings"

// Identity is a one-to-one binding between a wallet principal and a
// human-readable alias. Bindings are created once and never reassigned.
type Identity struct {
	Principal string `json:"principal"` // opaque wallet address
	Alias     string `json:"alias"`     // <name>@<domain>
}

// JoinList renders an ordered address list as the comma-joined wire form.
func JoinList(addrs []string) string {
	return strings.Join(addrs, ",")
}

// SplitList parses a comma-joined address list. An empty value yields an
// empty list, not a single empty element.
func SplitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
