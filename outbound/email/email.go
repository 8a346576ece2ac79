package email

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/spf13/viper"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailOutbound sends plain-text UTF-8 mail through the configured SMTP relay.
type EmailOutbound struct {
	Cfg *viper.Viper

	auth  smtp.Auth
	addr  string
	email string
	send  sendFunc
}

func (out *EmailOutbound) Init() {
	out.email = out.Cfg.GetString("email.user")
	out.addr = fmt.Sprintf("%s:%d", out.Cfg.GetString("email.host"), out.Cfg.GetInt("email.port"))
	out.auth = smtp.CRAMMD5Auth(out.Cfg.GetString("email.user"), out.Cfg.GetString("email.password"))
	if out.send == nil {
		out.send = smtp.SendMail
	}
}

func (out *EmailOutbound) Send(ctx context.Context, to []string, subject string, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return out.send(out.addr, out.auth, out.email, to, buildMessage(out.email, to, subject, body))
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ","))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return []byte(b.String())
}
