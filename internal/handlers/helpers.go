package handlers

import (
	"context"
	"log"
	"time"
)

// saveSyncContext detaches background saves from the request lifetime.
func saveSyncContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func logSaveSyncFailure(room int, err error) {
	log.Printf("[Accounts] Background save for room %d failed: %v", room, err)
}
