package journal

import "strings"

const keyPrefix = "steam:inventory:journal"

// Key returns the Redis list key holding the records of an account.
//
// Example:
//
//	steam:inventory:journal:76561197969338647
func Key(accountID string) string {
	return strings.Join([]string{keyPrefix, accountID}, ":")
}
