// Package notifier delivers verification codes to users. Sending is
// fire-and-forget from the registration flow's point of view: a failed send
// is logged, never rolled back into the registration itself.
package notifier

import "context"

type Notifier interface {
	SendCode(ctx context.Context, email, code string) error
}
