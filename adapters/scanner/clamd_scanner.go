package scanner

import (
	"context"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"

	"github.com/devang9890/resume/internal/application/service"
)

type streamScanner interface {
	ScanStream(r io.Reader, abort chan bool) (chan *clamd.ScanResult, error)
}

type clamdScanner struct {
	client streamScanner
}

// NewClamdScanner returns nil when no daemon address is configured; the
// update flow then skips scanning.
func NewClamdScanner(addr string) service.ImageScanner {
	if addr == "" {
		return nil
	}
	return &clamdScanner{client: clamd.NewClamd(addr)}
}

func (s *clamdScanner) Scan(ctx context.Context, file io.Reader) error {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(file, abort)
	if err != nil {
		return fmt.Errorf("clamd scan: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			switch res.Status {
			case clamd.RES_OK:
			case clamd.RES_FOUND:
				return fmt.Errorf("%w: %s", service.ErrInfected, res.Description)
			default:
				return fmt.Errorf("clamd scan: %s %s", res.Status, res.Description)
			}
		}
	}
}
