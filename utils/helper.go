package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShortHumanID generates a short 8-character human-readable ID.
func ShortHumanID() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:4]))
}

// InvoiceNumber builds an invoice number from a prefix, the issue instant and
// a random suffix, e.g. "INV-1767225600-9F2C41AB". The suffix keeps numbers
// unique when several invoices are issued within the same second.
func InvoiceNumber(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%d-%s", prefix, t.Unix(), ShortHumanID())
}
