package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/notexe/quick-remind/internal/reminder"
	"github.com/rs/zerolog"
)

const defaultTelegramURL = "https://api.telegram.org"

// Telegram forwards due reminders to a chat through the Bot API. It blocks
// for the length of the request; wrap it in Queued when fanning out.
type Telegram struct {
	endpoint string
	chatID   string
	client   *http.Client
	log      zerolog.Logger
}

// NewTelegram creates a Telegram sink. An empty baseURL selects the public
// Bot API endpoint.
func NewTelegram(baseURL, botToken, chatID string, log zerolog.Logger) *Telegram {
	if baseURL == "" {
		baseURL = defaultTelegramURL
	}
	return &Telegram{
		endpoint: fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(baseURL, "/"), botToken),
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log.With().Str("component", "telegram").Logger(),
	}
}

// ReminderDue sends the reminder. Delivery problems are only logged.
func (t *Telegram) ReminderDue(ev reminder.DueEvent) {
	if err := t.deliver(ev); err != nil {
		t.log.Warn().Err(err).Str("id", ev.ID.String()).Msg("failed to deliver reminder")
	}
}

func (t *Telegram) deliver(ev reminder.DueEvent) error {
	body, _ := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       telegramText(ev),
		"parse_mode": "HTML",
	})

	resp, err := t.client.Post(t.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse telegram response (status %d): %w", resp.StatusCode, err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func telegramText(ev reminder.DueEvent) string {
	return fmt.Sprintf("<b>⏰ Reminder</b>\n%s\n<i>due %s</i>",
		htmlEscaper.Replace(ev.Message), ev.DueTime.Format("Mon 15:04"))
}
