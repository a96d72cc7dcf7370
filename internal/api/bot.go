package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "nail-studio-bot/internal/application"
	"nail-studio-bot/internal/container"
	"nail-studio-bot/internal/domain/entity"
)

// Telegram counts caption length in UTF-16 code units.
const maxCaptionLength = 1024

// sender is the part of tgbotapi.BotAPI used to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot is the Telegram front end of the salon.
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	download func(fileID string) ([]byte, error)

	users        *app.UserService
	access       *app.AccessService
	consultation *app.ConsultationService

	analysisTimeout time.Duration
	wg              sync.WaitGroup
}

// NewBot creates the bot and authorizes it against Telegram.
func NewBot(token string, c *container.Container, analysisTimeout time.Duration) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("Authorized on account", "username", api.Self.UserName)

	b := newBot(api, c, analysisTimeout)
	b.api = api
	b.download = b.downloadFile
	return b, nil
}

func newBot(s sender, c *container.Container, analysisTimeout time.Duration) *Bot {
	return &Bot{
		sender:          s,
		users:           c.UserService,
		access:          c.AccessService,
		consultation:    c.ConsultationService,
		analysisTimeout: analysisTimeout,
	}
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			if update.Message == nil {
				continue
			}

			// analyses are slow; one user must not block the others
			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage routes an incoming message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		slog.Error("Error getting user", "user_id", msg.From.ID, "error", err)
		return
	}

	if !user.Authorized {
		b.handleLocked(ctx, msg)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if fileID, ok := imageFileID(msg); ok {
		b.handlePhoto(ctx, msg, user, fileID)
		return
	}

	if text := strings.TrimSpace(msg.Text); text != "" {
		b.setClientName(ctx, msg, text)
		return
	}

	b.sendMessage(msg.Chat.ID, msgNewClient)
}

// handleLocked treats every text from a locked user as a salon code attempt.
func (b *Bot) handleLocked(ctx context.Context, msg *tgbotapi.Message) {
	code := strings.TrimSpace(msg.Text)
	if code == "" || msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgLocked)
		return
	}

	_, err := b.access.Unlock(ctx, msg.From.ID, msg.Chat.ID, code)
	if errors.Is(err, app.ErrWrongSalonCode) {
		slog.Warn("Wrong salon code", "user_id", msg.From.ID)
		b.sendMessage(msg.Chat.ID, msgWrongCode)
		return
	}
	if err != nil {
		slog.Error("Error unlocking user", "user_id", msg.From.ID, "error", err)
		return
	}

	slog.Info("User unlocked", "user_id", msg.From.ID)
	b.sendMessage(msg.Chat.ID, msgUnlocked+"\n\n"+msgWelcome)
}

// handleCommand handles commands of an authorized user.
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgWelcome)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "nueva":
		if _, err := b.consultation.Reset(ctx, user.ID, user.ChatID); err != nil {
			slog.Error("Error resetting consultation", "user_id", user.ID, "error", err)
			return
		}
		b.sendMessage(msg.Chat.ID, msgNewClient)

	case "cliente":
		name := strings.TrimSpace(msg.CommandArguments())
		if name == "" {
			b.sendMessage(msg.Chat.ID, msgClientNameEmpty)
			return
		}
		b.setClientName(ctx, msg, name)

	case "compartir":
		out, ok := b.consultation.Current(user.ID)
		if !ok {
			b.sendMessage(msg.Chat.ID, msgNoResult)
			return
		}
		b.sendShare(msg.Chat.ID, out)

	case "salir":
		if _, err := b.consultation.Reset(ctx, user.ID, user.ChatID); err != nil {
			slog.Error("Error resetting consultation", "user_id", user.ID, "error", err)
		}
		if _, err := b.access.Lock(ctx, user.ID, user.ChatID); err != nil {
			slog.Error("Error locking user", "user_id", user.ID, "error", err)
			return
		}
		b.sendMessage(msg.Chat.ID, msgLoggedOut)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) setClientName(ctx context.Context, msg *tgbotapi.Message, name string) {
	user, err := b.users.SetClientName(ctx, msg.From.ID, msg.Chat.ID, name)
	if err != nil {
		slog.Error("Error setting client name", "user_id", msg.From.ID, "error", err)
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgAwaitingPhoto, user.ClientName))
}

// handlePhoto runs the analysis and renders the result.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	if b.consultation.InProgress(user.ID) {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgProcessing, user.DisplayClientName(defaultClientRef)))

	imageData, err := b.download(fileID)
	if err != nil {
		slog.Error("Error downloading photo", "user_id", user.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgAnalysisError)
		return
	}

	slog.Info("Received image", "user_id", user.ID, "size", len(imageData))

	if b.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.analysisTimeout)
		defer cancel()
	}

	out, err := b.consultation.ProcessPhoto(ctx, user.ID, user.ChatID, imageData)
	if err != nil {
		if errors.Is(err, app.ErrBusy) {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}

		slog.Error("Error analyzing photo", "user_id", user.ID, "error", err)
		var analysisErr *entity.AnalysisError
		if errors.As(err, &analysisErr) && !errors.Is(err, entity.ErrInvalidInput) {
			b.sendMessage(msg.Chat.ID, msgAnalysisError)
		} else {
			b.sendMessage(msg.Chat.ID, msgQualityError)
		}
		return
	}

	b.sendResult(msg.Chat.ID, out)
}

// sendResult renders the diagnosis, the palette, one card per preview and the share button.
func (b *Bot) sendResult(chatID int64, out *app.ConsultationOutput) {
	result := out.Result

	b.sendDiagnosis(chatID, out)

	for i, preview := range result.Previews {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
			Name:  fmt.Sprintf("preview-%d%s", i+1, fileExt(preview.Image.MIMEType())),
			Bytes: preview.Image.Bytes(),
		})
		photo.Caption = previewCaption(i, preview)
		b.send(photo)
	}

	if missing := result.MissingPreviews(); len(missing) > 0 {
		slog.Info("Result delivered without some previews", "analysis_id", result.ID, "missing", missing)
	}

	b.sendShare(chatID, out)
}

// sendDiagnosis sends the palette with the diagnosis as caption. A diagnosis
// too long for a caption, or a palette that could not be sent, goes as text.
func (b *Bot) sendDiagnosis(chatID int64, out *app.ConsultationOutput) {
	diagnosis := formatDiagnosis(out.ClientName, out.Result)

	swatches, err := renderPalette(out.Result.Colors)
	if err != nil {
		slog.Warn("Palette not rendered", "analysis_id", out.Result.ID, "error", err)
		b.sendMessage(chatID, diagnosis)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "palette.png", Bytes: swatches})
	if captionLength(diagnosis) <= maxCaptionLength {
		photo.Caption = diagnosis
	}
	if err := b.trySend(photo); err != nil || photo.Caption == "" {
		b.sendMessage(chatID, diagnosis)
	}
}

func captionLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func (b *Bot) sendShare(chatID int64, out *app.ConsultationOutput) {
	link := shareLink(shareMessage(out.ClientName, out.Result))

	msg := tgbotapi.NewMessage(chatID, msgNextConsult)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(msgShareButton, link)),
	)
	b.send(msg)
}

// imageFileID picks the largest photo or an image sent as a document.
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

func fileExt(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// downloadFile fetches a file from Telegram.
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	_ = b.trySend(c)
}

func (b *Bot) trySend(c tgbotapi.Chattable) error {
	_, err := b.sender.Send(c)
	if err != nil {
		slog.Error("Error sending message", "error", err)
	}
	return err
}
