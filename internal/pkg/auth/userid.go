package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/edumanage/educenter/internal/app/models"
)

// userIDSpace is the number of distinct five-digit suffixes
var userIDSpace = big.NewInt(100000)

// GenerateUserID returns a six-digit account ID whose first digit is the role
func GenerateUserID(role models.Role) (string, error) {
	n, err := rand.Int(rand.Reader, userIDSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate user id: %w", err)
	}
	return fmt.Sprintf("%s%05d", string(role), n.Int64()), nil
}
