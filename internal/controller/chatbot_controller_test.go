// FILE: internal/controller/chatbot_controller_test.go
package controller

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUploadTestApp mounts only the create handler. Requests that fail
// upload validation never reach the services, so nil services are safe.
func newUploadTestApp(t *testing.T) *fiber.App {
	t.Helper()

	ctrl := NewChatbotController(nil, nil, t.TempDir())
	app := fiber.New(fiber.Config{
		BodyLimit: 3 * constant.MaxDocumentSizeBytes,
	})
	app.Post("/chatbots", ctrl.Create)
	return app
}

func multipartDoc(t *testing.T, filename string, size int) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("name", "sherlock"))
	require.NoError(t, w.WriteField("description", "a consulting detective"))
	require.NoError(t, w.WriteField("persona_prompt", "You are Sherlock Holmes."))

	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestCreateRejectsOversizedDocument(t *testing.T) {
	app := newUploadTestApp(t)

	body, contentType := multipartDoc(t, "big.txt", constant.MaxDocumentSizeBytes+1)
	req := httptest.NewRequest("POST", "/chatbots", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), service.ErrDocumentTooLarge.Error())
}

func TestCreateRejectsUnsupportedExtension(t *testing.T) {
	app := newUploadTestApp(t)

	body, contentType := multipartDoc(t, "notes.docx", 16)
	req := httptest.NewRequest("POST", "/chatbots", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), service.ErrUnsupportedFile.Error())
}
