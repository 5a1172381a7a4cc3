package ingest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/linedeck/linedeck/internal/content"
	"github.com/linedeck/linedeck/internal/distribute"
	"github.com/linedeck/linedeck/internal/enrich"
	"github.com/linedeck/linedeck/internal/image"
	"github.com/linedeck/linedeck/internal/line"
)

// ErrUnsupportedType indicates a test ingestion request with an unknown
// content type.
var ErrUnsupportedType = errors.New("unsupported test content type")

// ImageFetcher downloads binary message content from the platform.
type ImageFetcher interface {
	FetchMessageContent(ctx context.Context, messageID string) ([]byte, string, error)
}

// Enricher transforms raw message text into polished content.
type Enricher interface {
	Enrich(ctx context.Context, text string) enrich.Result
}

// TestInput is a manual ingestion request that bypasses signature checks.
type TestInput struct {
	Type     string
	Text     string
	ImageURL string
}

// Pipeline is the transport-agnostic webhook ingestion path: validate the
// signature, extract events, enrich or fetch per event, store, notify.
// Every deployment surface is a thin adapter around it.
type Pipeline struct {
	channelSecret string
	enricher      Enricher
	fetcher       ImageFetcher
	contentStore  *content.Store
	imageStore    *image.Store
	notifier      distribute.Notifier
	logger        *slog.Logger
}

// NewPipeline creates the ingestion pipeline. An empty channelSecret skips
// signature validation; this is a degraded mode for local testing and is
// logged on every delivery.
func NewPipeline(log *slog.Logger, channelSecret string, enricher Enricher, fetcher ImageFetcher, contentStore *content.Store, imageStore *image.Store, notifier distribute.Notifier) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = distribute.NopNotifier{}
	}
	return &Pipeline{
		channelSecret: channelSecret,
		enricher:      enricher,
		fetcher:       fetcher,
		contentStore:  contentStore,
		imageStore:    imageStore,
		notifier:      notifier,
		logger:        log.With(slog.String("component", "ingest")),
	}
}

// HandleWebhook processes one signed webhook delivery. An empty body is a
// platform verification ping and succeeds with no items. Signature and
// payload failures reject the whole delivery before any store mutation;
// per-event enrichment failures degrade that event's item only.
//
// Redelivered webhooks create new, distinct items: the payload carries no
// delivery id to dedup on, so at-least-once transport means accepted
// duplication.
func (p *Pipeline) HandleWebhook(ctx context.Context, body []byte, signature string) ([]content.Item, error) {
	if len(body) == 0 {
		p.logger.Info("empty webhook body, treating as verification ping")
		return nil, nil
	}

	if p.channelSecret == "" {
		p.logger.Warn("channel secret not configured, skipping signature validation")
	} else if err := line.VerifySignature(p.channelSecret, body, signature); err != nil {
		p.logger.Error("signature validation failed", slog.Any("error", err))
		return nil, err
	}

	events, err := line.ParseWebhook(body)
	if err != nil {
		p.logger.Error("webhook parse failed", slog.Any("error", err))
		return nil, err
	}

	items := make([]content.Item, 0, len(events))
	for _, ev := range events {
		item := p.processEvent(ctx, ev)
		p.contentStore.Put(item)
		p.notifier.Notify(item)
		items = append(items, item)
	}
	return items, nil
}

// HandleTest ingests a manually submitted item, used by the dashboard's
// local testing flow.
func (p *Pipeline) HandleTest(ctx context.Context, input TestInput) (content.Item, error) {
	var item content.Item
	switch line.MessageKind(input.Type) {
	case line.KindText:
		result := p.enricher.Enrich(ctx, input.Text)
		item = content.NewTextItem(input.Text, result.Text, result.Degraded)
	case line.KindImage:
		// Test images pass the URL through untouched.
		item = content.NewImageItem(input.ImageURL, input.ImageURL, false)
	default:
		return content.Item{}, ErrUnsupportedType
	}

	p.contentStore.Put(item)
	p.notifier.Notify(item)
	return item, nil
}

func (p *Pipeline) processEvent(ctx context.Context, ev line.MessageEvent) content.Item {
	switch ev.Kind {
	case line.KindImage:
		ref, ok := p.fetchImage(ctx, ev.MessageID)
		return content.NewImageItem(ref, ref, !ok)
	default:
		result := p.enricher.Enrich(ctx, ev.Text)
		return content.NewTextItem(ev.Text, result.Text, result.Degraded)
	}
}

// fetchImage downloads and stores message content, returning the reference
// path dashboards use to retrieve it. A failed fetch yields an empty
// reference; the event still becomes an item.
func (p *Pipeline) fetchImage(ctx context.Context, messageID string) (string, bool) {
	data, contentType, err := p.fetcher.FetchMessageContent(ctx, messageID)
	if err != nil {
		p.logger.Error("image fetch failed",
			slog.String("message_id", messageID),
			slog.Any("error", err),
		)
		return "", false
	}
	id := p.imageStore.Add(image.StoredImage{Bytes: data, ContentType: contentType})
	return "/api/image/" + id, true
}
