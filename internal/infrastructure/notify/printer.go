package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/bnema/buildsel/internal/application/port"
)

// Printer writes notifications as lines of text. Errors go to errOut.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// NewPrinter creates a printer. A nil errOut sends errors to out.
func NewPrinter(out, errOut io.Writer) *Printer {
	if errOut == nil {
		errOut = out
	}
	return &Printer{out: out, errOut: errOut}
}

func (p *Printer) Show(_ context.Context, message string, notifType port.NotificationType, _ int) port.NotificationID {
	p.mu.Lock()
	defer p.mu.Unlock()

	w := p.out
	if notifType.IsError() {
		w = p.errOut
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", notifType, message)
	return port.NotificationID(uuid.NewString())
}

func (p *Printer) Dismiss(context.Context, port.NotificationID) {}

func (p *Printer) Clear(context.Context) {}

var _ port.Notification = (*Printer)(nil)
