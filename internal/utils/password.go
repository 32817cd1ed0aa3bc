package utils

import "golang.org/x/crypto/bcrypt"

// HashOperatorKey returns the bcrypt hash of an operator key. Deployments
// run this once to produce the OPERATOR_KEY_HASH value; only the hash is
// ever configured on the server.
func HashOperatorKey(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyOperatorKey safely compares the configured bcrypt hash and a
// presented operator key.
func VerifyOperatorKey(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
