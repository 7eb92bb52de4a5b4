package models

import "strings"

// keyDenylist holds the characters dropped when deriving a lookup key.
const keyDenylist = " '\"[]\\/<>;:)(*&^%$#@!`~?"

// DeriveKey canonicalizes a todo name into the key used to match records on edit.
// Distinct names may collide once canonicalized.
func DeriveKey(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(keyDenylist, r) {
			return -1
		}
		return r
	}, strings.ToLower(name))
}
