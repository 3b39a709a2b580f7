package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/supply-bot/internal/dialog"
	"github.com/Spok95/supply-bot/internal/order"
)

const startButton = "Создать заявку"

// Bot — транспорт Telegram: разбирает апдейты в события ядра и
// рисует ответы ядра клавиатурами.
type Bot struct {
	api     *tgbotapi.BotAPI
	log     *slog.Logger
	machine *dialog.Machine
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, machine *dialog.Machine) *Bot {
	return &Bot{api: api, log: log, machine: machine}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	queues := newChatQueues(b.handleUpdate)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			chatID, ok := updateChatID(upd)
			if !ok {
				go b.handleUpdate(ctx, upd)
				continue
			}
			if !queues.dispatch(ctx, chatID, upd) {
				b.log.Warn("update queue full, dropping", "chat_id", chatID)
			}
		}
	}
}

func updateChatID(upd tgbotapi.Update) (int64, bool) {
	switch {
	case upd.Message != nil:
		return upd.Message.Chat.ID, true
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return upd.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("update handler panic", "panic", r)
		}
	}()

	if upd.Message != nil {
		b.onMessage(ctx, upd.Message)
	} else if upd.CallbackQuery != nil {
		b.onCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	who := identity(msg.From)

	if msg.IsCommand() {
		switch msg.Command() {
		case "cancel":
			b.deliver(chatID, b.machine.Handle(ctx, chatID, who, dialog.Cancel{}))
		case "help":
			b.deliver(chatID, []dialog.Reply{{
				Text:      "Команды:\n/start — начать\n/cancel — отменить заявку\n/help — помощь",
				ShowStart: true,
			}})
		case "start":
			b.deliver(chatID, []dialog.Reply{{
				Text:      "Привет! Я бот для создания заявок. Нажмите кнопку, чтобы начать.",
				ShowStart: true,
			}})
		default:
			b.deliver(chatID, []dialog.Reply{{Text: "Не знаю такую команду. Наберите /help", ShowStart: true}})
		}
		return
	}

	var ev dialog.Event
	switch {
	case msg.Document != nil:
		ev = dialog.File{Ref: order.FileRef{
			ID:   msg.Document.FileID,
			Name: msg.Document.FileName,
			MIME: msg.Document.MimeType,
		}}
	case msg.Text == startButton:
		ev = dialog.Start{}
	default:
		ev = dialog.Text{Value: msg.Text}
	}
	b.deliver(chatID, b.machine.Handle(ctx, chatID, who, ev))
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	ev, ok := decode(cb.Data)
	if !ok {
		b.log.Warn("unknown callback token", "chat_id", chatID, "data", cb.Data)
		ev = dialog.Noop{}
	}
	b.deliver(chatID, b.machine.Handle(ctx, chatID, identity(cb.From), ev))
}

// identity извлекает имя и хэндл отправителя: username, а если его
// нет — числовой id текстом.
func identity(u *tgbotapi.User) dialog.Identity {
	if u == nil {
		return dialog.Identity{}
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	handle := u.UserName
	if handle == "" {
		handle = strconv.FormatInt(u.ID, 10)
	}
	return dialog.Identity{Name: name, Handle: handle}
}

func (b *Bot) deliver(chatID int64, replies []dialog.Reply) {
	for _, r := range replies {
		m := tgbotapi.NewMessage(chatID, r.Text)
		switch {
		case len(r.Buttons) > 0:
			m.ReplyMarkup = inlineKeyboard(r.Buttons)
		case r.ShowStart:
			m.ReplyMarkup = startKeyboard()
		}
		b.send(m)
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func inlineKeyboard(rows [][]dialog.Button) tgbotapi.InlineKeyboardMarkup {
	kb := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			r = append(r, tgbotapi.NewInlineKeyboardButtonData(btn.Label, encode(btn.Event)))
		}
		kb = append(kb, r)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: kb}
}

func startKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(startButton)},
		},
	}
}

// Files скачивает вложения позиций через Telegram file API.
type Files struct {
	api *tgbotapi.BotAPI
}

func NewFiles(api *tgbotapi.BotAPI) *Files { return &Files{api: api} }

func (f *Files) Resolve(ctx context.Context, ref order.FileRef) ([]byte, error) {
	url, err := f.api.GetFileDirectURL(ref.ID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram returned status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
