package storage

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/mentorhub/mentorhub-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	client, err := NewClient("key", "secret", "bucket", "", "")
	assert.Nil(t, client)
	assert.Error(t, err)
}

func TestGenerateFileName(t *testing.T) {
	c := &Client{}

	name := c.GenerateFileName(42, "photo.PNG")
	assert.True(t, strings.HasPrefix(name, "avatars/42/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	// No extension falls back to jpg
	name = c.GenerateFileName(42, "photo")
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	// Keys are collision-free across calls
	assert.NotEqual(t, c.GenerateFileName(42, "a.png"), c.GenerateFileName(42, "a.png"))
}

func TestValidateImageType(t *testing.T) {
	c := &Client{}

	for _, contentType := range []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "IMAGE/PNG"} {
		assert.NoError(t, c.ValidateImageType(contentType), contentType)
	}

	for _, contentType := range []string{"image/gif", "application/pdf", "text/html", ""} {
		assert.Error(t, c.ValidateImageType(contentType), contentType)
	}
}

func TestValidateImageSize(t *testing.T) {
	c := &Client{}

	assert.NoError(t, c.ValidateImageSize([]byte("tiny image")))
	assert.Error(t, c.ValidateImageSize(make([]byte, 11*1024*1024)))
}

func TestDecodeImage(t *testing.T) {
	payload := []byte("hello")
	encoded := base64.StdEncoding.EncodeToString(payload)

	decoded, err := DecodeImage(encoded)
	assert.NoError(t, err)
	assert.Equal(t, payload, decoded)

	decoded, err = DecodeImage("data:image/png;base64," + encoded)
	assert.NoError(t, err)
	assert.Equal(t, payload, decoded)

	_, err = DecodeImage("data:image/png;base64")
	assert.Error(t, err)

	_, err = DecodeImage("not-base64!!!")
	assert.Error(t, err)
}
