package redis

const (
	// KeyPrefixHistory is the prefix for per-operator search history lists
	KeyPrefixHistory = "console:history:"
	// KeyPrefixSession is the prefix for per-operator session tokens
	KeyPrefixSession = "console:session:"
)

// HistoryKey returns the Redis key of an operator's search history list.
func HistoryKey(user string) string {
	return KeyPrefixHistory + user
}

// SessionKey returns the Redis key of an operator's session token.
// This is the single fixed storage slot the session manager owns.
func SessionKey(user string) string {
	return KeyPrefixSession + user
}
