package stats

import (
	"context"
	"errors"

	"github.com/klokku/studygrid/pkg/calendar"
)

type eventsReaderStub struct {
	events []calendar.Event
	err    error
}

func (s *eventsReaderStub) GetEvents(ctx context.Context, day *int) ([]calendar.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

var errReaderUnavailable = errors.New("reader unavailable")
