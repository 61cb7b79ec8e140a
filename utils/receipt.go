package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var receiptMu sync.Mutex
var receiptRand *rand.Rand

func init() {
	receiptRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateReceipt builds the receipt identifier sent to the payment gateway.
// The gateway caps receipts at 40 characters, so the project id is truncated
// to 8 characters and combined with the trailing 8 digits of the current
// Unix-millisecond clock. A 3-digit random part breaks ties between orders
// for the same project created within the same millisecond.
func GenerateReceipt(projectID string) string {
	receiptMu.Lock()
	defer receiptMu.Unlock()

	prefix := projectID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}

	ms := time.Now().UnixMilli()
	tsPart := ms % 100000000

	randPart := receiptRand.Intn(900) + 100

	return fmt.Sprintf("rcpt_%s_%08d%03d", prefix, tsPart, randPart)
}
