package mail

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Spok95/supply-bot/internal/dialog"
	"github.com/Spok95/supply-bot/internal/export"
	"github.com/Spok95/supply-bot/internal/order"
)

// Mailer отправляет заявку письмом: xlsx во вложении плюс файлы позиций.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	receiver string
	now      func() time.Time
}

func New(host string, port int, login, password, receiver string) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(host, port, login, password),
		from:     login,
		receiver: receiver,
		now:      time.Now,
	}
}

func (m *Mailer) Dispatch(ctx context.Context, o order.Order, document []byte, atts []dialog.Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.receiver)
	msg.SetHeader("Subject", fmt.Sprintf("Заявка на снабжение: %s - %s", o.Project, o.Object))
	msg.SetBody("text/plain", body(o))

	attach := func(name string, data []byte, mime string) {
		settings := []gomail.FileSetting{gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		})}
		if mime != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {mime},
			}))
		}
		msg.Attach(name, settings...)
	}

	attach(export.Filename(o, m.now()), document,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	for _, a := range atts {
		attach(fmt.Sprintf("Позиция_%d_%s", a.Position, a.Name), a.Data, a.MIME)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func body(o order.Order) string {
	var sb strings.Builder
	sb.WriteString("Во вложении заявка на снабжение.\n\n")
	fmt.Fprintf(&sb, "Проект: %s\n", o.Project)
	fmt.Fprintf(&sb, "Объект: %s\n", o.Object)
	fmt.Fprintf(&sb, "От кого: %s\n", o.RequesterName)
	fmt.Fprintf(&sb, "Telegram: %s\n\n", o.RequesterHandle)
	sb.WriteString("Позиции:\n")
	var links []string
	for i, it := range o.Items {
		sb.WriteString(it.Summary(i+1) + "\n")
		if it.Link != "" {
			links = append(links, fmt.Sprintf("Позиция %d (%s): %s", i+1, it.Name, it.Link))
		}
	}
	if len(links) > 0 {
		sb.WriteString("\nОтдельные ссылки для позиций:\n" + strings.Join(links, "\n") + "\n")
	}
	return sb.String()
}
