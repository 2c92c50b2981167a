package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

const excerptLimit = 100

// Notifier announces a finished digest to a Telegram chat via bot API. It
// is only constructed when credentials are present; an unconfigured
// announce channel is represented by a nil Announcer upstream.
type Notifier struct {
	botToken string
	chatID   string
	siteURL  string
	client   *http.Client
}

var _ ports.Announcer = (*Notifier)(nil)

// NewNotifier registers bot token, chat identifier, and the published
// site link included in every announcement.
func NewNotifier(botToken, chatID, siteURL string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		siteURL:  siteURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Announce posts the fixed-length excerpt plus the site link.
func (n *Notifier) Announce(ctx context.Context, bundle domain.ResultsBundle) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", BuildExcerpt(bundle, n.siteURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// BuildExcerpt condenses the bundle into the short announcement body:
// truncated summary, truncated trends, and the site link.
func BuildExcerpt(bundle domain.ResultsBundle, siteURL string) string {
	return fmt.Sprintf("📚 Today's ArXiv AI/ML Summary:\n\n%s...\n\nTop Trends:\n%s...\n\nRead more: %s",
		truncate(bundle.Summary, excerptLimit),
		truncate(bundle.Trends, excerptLimit),
		siteURL)
}

func truncate(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
