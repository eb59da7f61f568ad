package email

import (
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/disbursement_notifier/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRawMessage(t *testing.T) {
	msg := testMessage()
	msg.CC = []string{"a@x.com", "b@y.org"}
	pdf := []byte(strings.Repeat("%PDF-1.4 sample ", 20))
	msg.Attachments = []domain.Attachment{
		{Filename: "hop-dong.pdf", ContentType: "application/pdf", Content: pdf},
		{Filename: "ghi-chu.bin", Content: []byte{0x00, 0x01, 0x02}},
	}
	now := time.Date(2025, 10, 26, 9, 0, 0, 0, time.UTC)

	raw, err := buildRawMessage(msg, now)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, "np95085@gmail.com", parsed.Header.Get("To"))
	assert.Equal(t, "a@x.com, b@y.org", parsed.Header.Get("Cc"))

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, msg.Subject, subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	htmlPart, err := mr.NextRawPart()
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=UTF-8", htmlPart.Header.Get("Content-Type"))
	assert.Equal(t, msg.HTML, decodePart(t, htmlPart))

	pdfPart, err := mr.NextRawPart()
	require.NoError(t, err)
	assert.Equal(t, "hop-dong.pdf", pdfPart.FileName())
	assert.Equal(t, pdf, []byte(decodePart(t, pdfPart)))

	binPart, err := mr.NextRawPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(binPart.Header.Get("Content-Type"), "application/octet-stream"))

	_, err = mr.NextRawPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuildRawMessage_OmitsEmptyCC(t *testing.T) {
	raw, err := buildRawMessage(testMessage(), time.Now())
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	_, ok := parsed.Header["Cc"]
	assert.False(t, ok)
}

func TestBuildRawMessage_EncodesSenderName(t *testing.T) {
	msg := testMessage()
	msg.From = "Phòng Kế toán Y99 <no-reply@y99.vn>"

	raw, err := buildRawMessage(msg, time.Now())
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	header := parsed.Header.Get("From")
	for _, r := range header {
		require.Less(t, r, rune(0x80), "From header must be 7-bit: %q", header)
	}

	from, err := parsed.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Phòng Kế toán Y99", from[0].Name)
	assert.Equal(t, "no-reply@y99.vn", from[0].Address)
}

func TestBuildRawMessage_InvalidSender(t *testing.T) {
	msg := testMessage()
	msg.From = "not an address"

	_, err := buildRawMessage(msg, time.Now())

	assert.ErrorContains(t, err, "invalid sender")
}

func TestWrapBase64_LineLength(t *testing.T) {
	out := wrapBase64([]byte(strings.Repeat("x", 500)))
	for _, line := range strings.Split(strings.TrimRight(string(out), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), base64LineLen)
	}
}

func decodePart(t *testing.T, p *multipart.Part) string {
	t.Helper()
	body, err := io.ReadAll(p)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.NewReplacer("\r", "", "\n", "").Replace(string(body)))
	require.NoError(t, err)
	return string(decoded)
}
