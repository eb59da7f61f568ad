package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
)

const base64LineLen = 76

// buildRawMessage renders msg as a multipart/mixed MIME message with the HTML
// body first and each attachment base64 encoded after it.
func buildRawMessage(msg domain.OutboundEmail, now time.Time) ([]byte, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }
	// Address.String Q-encodes a non-ASCII display name.
	header("From", from.String())
	header("To", msg.To)
	if len(msg.CC) > 0 {
		header("Cc", strings.Join(msg.CC, ", "))
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", mw.Boundary()))
	buf.WriteString("\r\n")

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err := htmlPart.Write(wrapBase64([]byte(msg.HTML))); err != nil {
		return nil, fmt.Errorf("failed to write html part: %w", err)
	}

	for _, a := range msg.Attachments {
		contentType := mime.FormatMediaType(a.ContentType, map[string]string{"name": a.Filename})
		if contentType == "" {
			contentType = mime.FormatMediaType("application/octet-stream", map[string]string{"name": a.Filename})
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create part for %s: %w", a.Filename, err)
		}
		if _, err := part.Write(wrapBase64(a.Content)); err != nil {
			return nil, fmt.Errorf("failed to write part for %s: %w", a.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish MIME message: %w", err)
	}
	return buf.Bytes(), nil
}

func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	var out bytes.Buffer
	for len(encoded) > base64LineLen {
		out.WriteString(encoded[:base64LineLen])
		out.WriteString("\r\n")
		encoded = encoded[base64LineLen:]
	}
	out.WriteString(encoded)
	out.WriteString("\r\n")
	return out.Bytes()
}
