package api_test

import (
	"fmt"
	"testing"
	"time"
)

// Helper function to generate unique addresses
func uniqueAddress(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

// Helper to reset the outbox between tests
func freshOutbox(t *testing.T) {
	t.Helper()
	mailbox.reset()
	t.Cleanup(mailbox.reset)
}
