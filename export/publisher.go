package export

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/tournament-standings/storage"
)

// Publisher uploads workbooks and keeps one published export per tournament.
type Publisher struct {
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	latest map[int]string
}

func NewPublisher(uploader storage.FileUploader, logger *slog.Logger) *Publisher {
	return &Publisher{
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
		latest:   make(map[int]string),
	}
}

// Publish uploads data and removes the export it replaces. A failed removal
// is logged and does not fail the publish.
func (p *Publisher) Publish(ctx context.Context, tournamentID int, data []byte) (*storage.UploadResult, error) {
	key := storage.ExportKey(tournamentID, p.now())
	result, err := p.uploader.Upload(ctx, key, storage.XLSXContentType, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	previous := p.latest[tournamentID]
	p.latest[tournamentID] = key
	p.mu.Unlock()

	if previous != "" {
		if err := p.uploader.Delete(ctx, previous); err != nil {
			p.logger.Warn("failed to delete previous export",
				slog.Int("tournament_id", tournamentID), slog.String("key", previous), slog.Any("error", err))
		}
	}
	return result, nil
}
