package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/etnair/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify host %s: %s for booking %s on listing %d\n", event.ContactHost, event.Type, event.Reference, event.ListingID)
	return nil
}
