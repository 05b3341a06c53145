package connectors

import (
	"context"

	"shoplist/internal"
)

// MailConnector pulls meal-plan messages from a mailbox.
type MailConnector interface {
	FetchInbox(ctx context.Context, label string, max int) ([]internal.FetchedMailMessage, error)
}
