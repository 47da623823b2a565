package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Excludes characters easy to misread (0/O, 1/I/L).
const referenceAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateOrderNumber builds a readable gateway-facing reference like
// ORD-17-2026-A7B9C2D. Generated once per payment; retries reuse the
// stored value so the provider never sees two references for one attempt.
func GenerateOrderNumber(orderID int) string {
	suffix := make([]byte, 7)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is not survivable for reference minting
			panic(err)
		}
		suffix[i] = referenceAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%d-%d-%s", orderID, time.Now().Year(), suffix)
}
