package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CommandHandler is called when a user command is received. An empty reply
// sends nothing.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK          bool             `json:"ok"`
	Description string           `json:"description"`
	Result      []telegramUpdate `json:"result"`
}

// StartPolling begins long-polling for Telegram commands. Each command is
// handled on its own goroutine so a slow lookup never blocks polling. Blocks
// until ctx is cancelled and in-flight handlers have replied.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	var wg sync.WaitGroup
	defer wg.Wait()

	offset := 0
	for {
		select {
		case <-ctx.Done():
			t.log.Info().Msg("telegram polling stopped")
			return
		default:
		}

		updates, err := t.getUpdates(ctx, offset, 30)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			t.log.Warn().Err(err).Msg("polling request failed")
			sleep(ctx, 5*time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			text, ok := t.accept(update)
			if !ok {
				continue
			}
			t.log.Info().Str("command", text).Msg("received command")

			wg.Add(1)
			go func() {
				defer wg.Done()
				reply := handler(ctx, text)
				if reply == "" {
					return
				}
				if err := t.SendWithRetry(ctx, reply, 2); err != nil {
					t.log.Error().Err(err).Msg("send reply")
				}
			}()
		}
	}
}

// accept filters updates to text messages from the configured chat.
func (t *TelegramNotifier) accept(u telegramUpdate) (string, bool) {
	if u.Message == nil {
		return "", false
	}
	text := strings.TrimSpace(u.Message.Text)
	if text == "" {
		return "", false
	}
	if t.ChatID != "" && strconv.FormatInt(u.Message.Chat.ID, 10) != t.ChatID {
		t.log.Warn().Int64("chat_id", u.Message.Chat.ID).Msg("ignoring message from unknown chat")
		return "", false
	}
	return text, true
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset, timeoutSec int) ([]telegramUpdate, error) {
	var out updatesResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":  strconv.Itoa(offset),
			"timeout": strconv.Itoa(timeoutSec),
		}).
		SetResult(&out).
		SetError(&out).
		Get("/bot{token}/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	if resp.IsError() || !out.OK {
		return nil, fmt.Errorf("get updates: status %d: %s", resp.StatusCode(), out.Description)
	}
	return out.Result, nil
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
