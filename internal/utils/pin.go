package utils

import "golang.org/x/crypto/bcrypt"

// HashPIN returns the bcrypt hash of a staff login PIN using the
// default cost.  PINs are short, so the hash is the only form ever
// persisted.
func HashPIN(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPIN reports whether plain matches the stored bcrypt hash.
func CheckPIN(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
