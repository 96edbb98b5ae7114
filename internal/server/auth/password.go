package auth

import "golang.org/x/crypto/bcrypt"

// Hasher is the pluggable one-way password verifier used by the auth
// service. The concrete algorithm is an implementation detail of the
// Hasher; the rest of the service only sees opaque hash strings.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(plain, hashed string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a BcryptHasher with the given cost. A zero cost
// selects the bcrypt default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
