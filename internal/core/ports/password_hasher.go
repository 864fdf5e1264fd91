package ports

// PasswordHasher is a one-way adaptive hash with a per-call salt.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A mismatch is not an error.
	Verify(plain, hash string) bool
}
