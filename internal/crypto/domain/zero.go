package domain

// Zero overwrites a byte slice holding key material.
func Zero(b []byte) {
	clear(b)
}
