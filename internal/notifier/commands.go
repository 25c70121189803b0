package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"TickerLens/internal/model"
	"TickerLens/internal/pipeline"
)

const usage = "Available commands:\n" +
	"• /stock TICKER - last year of prices\n" +
	"• /stock TICKER START END - dates as YYYY-MM-DD\n" +
	"• /last - repeat the latest result"

// StockCommands answers chat commands with lookup results. All commands of
// one chat share a session, so a newer /stock supersedes a running one.
type StockCommands struct {
	session *pipeline.Latest
	log     zerolog.Logger
	now     func() time.Time
}

// NewStockCommands creates a command handler over session.
func NewStockCommands(session *pipeline.Latest, log zerolog.Logger) *StockCommands {
	return &StockCommands{
		session: session,
		log:     log.With().Str("component", "commands").Logger(),
		now:     time.Now,
	}
}

// Handle implements CommandHandler.
func (c *StockCommands) Handle(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	// Group chats address commands as /stock@BotName.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/stock":
		return c.stock(ctx, fields[1:])
	case "/last":
		return FormatBundle(c.session.Current())
	default:
		return usage
	}
}

func (c *StockCommands) stock(ctx context.Context, args []string) string {
	var start, end string
	switch len(args) {
	case 1:
	case 3:
		start, end = args[1], args[2]
	default:
		return usage
	}

	r, err := model.ParseRange(start, end, c.now())
	if err != nil {
		return fmt.Sprintf("⚠️ %s", escape(err.Error()))
	}

	bundle, latest := c.session.Submit(ctx, model.Request{
		Ticker:    args[0],
		Range:     r,
		Submitted: true,
	})
	if !latest {
		c.log.Debug().Str("ticker", bundle.Ticker).Msg("superseded result dropped")
		return ""
	}
	return FormatBundle(bundle)
}
