package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fekuna/printfarm-inventory-service/internal/settings"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnsafeTarget marks a webhook URL that is not https or does not resolve
// to public addresses only.
var ErrUnsafeTarget = errors.New("unsafe webhook target")

// WebhookSender posts events to the URL configured in settings, if the
// event type is enabled there.
type WebhookSender struct {
	client   *http.Client
	settings settings.Repository
	logger   logger.ZapLogger
	resolve  func(ctx context.Context, host string) ([]net.IPAddr, error)
}

func NewWebhookSender(settingsRepo settings.Repository, timeout time.Duration, log logger.ZapLogger) *WebhookSender {
	return &WebhookSender{
		client:   &http.Client{Timeout: timeout},
		settings: settingsRepo,
		logger:   log,
		resolve:  net.DefaultResolver.LookupIPAddr,
	}
}

type webhookPayload struct {
	Event   string                 `json:"event"`
	Content string                 `json:"content"`
	Data    map[string]interface{} `json:"data"`
}

func (w *WebhookSender) Publish(ctx context.Context, ev Event) error {
	s, err := w.settings.Get(ctx)
	if err != nil {
		return err
	}
	target, ok := s.WebhookTarget(ev.Type)
	if !ok {
		w.logger.Debug("webhook disabled for event", zap.String("event", ev.Type))
		return nil
	}
	if err := w.checkTarget(ctx, target); err != nil {
		return err
	}

	body, err := json.Marshal(webhookPayload{Event: ev.Type, Content: ev.Content, Data: ev.Data})
	if err != nil {
		return errors.Wrapf(err, "encode webhook %s", ev.Type)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "build webhook %s", ev.Type)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "send webhook %s", ev.Type)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.Errorf("send webhook %s: status %d", ev.Type, resp.StatusCode)
	}

	w.logger.Info("webhook sent", zap.String("event", ev.Type), zap.String("event_id", ev.ID))
	return nil
}

// checkTarget only allows https URLs that resolve to public addresses.
func (w *WebhookSender) checkTarget(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(ErrUnsafeTarget, "parse url: %v", err)
	}
	if u.Scheme != "https" || u.Hostname() == "" {
		return errors.Wrap(ErrUnsafeTarget, "url must be https")
	}
	addrs, err := w.resolve(ctx, u.Hostname())
	if err != nil {
		return errors.Wrapf(err, "resolve webhook host %s", u.Hostname())
	}
	for _, a := range addrs {
		ip := a.IP
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
			ip.IsUnspecified() || ip.IsMulticast() {
			return errors.Wrapf(ErrUnsafeTarget, "host %s resolves to %s", u.Hostname(), ip)
		}
	}
	return nil
}
