package ports

// PasswordEncoder turns plaintext into a storable one-way hash.
type PasswordEncoder interface {
	Encode(plaintext string) (string, error)
	// Matches reports whether plaintext hashes to stored. It is false for
	// anything that is not a recognised hash, legacy plaintext included.
	Matches(plaintext, stored string) bool
}

// UpgradeChecker is implemented by encoders that can tell whether a stored
// hash came from an algorithm other than the one they currently produce.
type UpgradeChecker interface {
	NeedsUpgrade(stored string) bool
}
