package orders

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type OrderNumberGenerator struct {
	secret string
}

func NewOrderNumberGenerator(secret string) *OrderNumberGenerator {
	return &OrderNumberGenerator{secret: secret}
}

// Generate returns a receipt number such as FOOD-7KQ2-A91C.
func (g *OrderNumberGenerator) Generate(cashierID int64) string {
	nonce := uuid.NewString()

	mac := hmac.New(sha256.New, []byte(g.secret))
	fmt.Fprintf(mac, "cashier:%d|nonce:%s", cashierID, nonce)

	tag := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))

	return fmt.Sprintf(
		"FOOD-%s-%s",
		tag[:4],
		strings.ToUpper(uuid.NewString()[:4]),
	)
}
