// Package webhook delivers message status callbacks to the URL a caller
// registered with status_callback.
package webhook

import (
	"context"

	"github.com/NewtTheWolf/sendblue"
)

// Notifier is the contract for posting a status update.
type Notifier interface {
	// Notify posts cb to url and returns an error for transport failures and
	// non-2xx answers.
	Notify(ctx context.Context, url string, cb sendblue.MessageStatusCallback) error
}
