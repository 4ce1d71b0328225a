package groq

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const ocrPrompt = "You are a medical OCR service. Extract all the text from this image of medical consultation notes. " +
	"Keep line breaks, medication names, doses and frequencies exactly as written. Return only the extracted text."

// ExtractText usa el modelo de visión para leer el texto de la imagen.
func (c *Client) ExtractText(ctx context.Context, image []byte, contentType string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrGroqNotConfigured
	}
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrGroqUpstream)
	}

	ct := strings.TrimSpace(contentType)
	if !strings.HasPrefix(ct, "image/") {
		ct = http.DetectContentType(image)
	}
	if !strings.HasPrefix(ct, "image/") {
		ct = "image/jpeg"
	}
	dataURI := "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(image)

	content, err := c.chat(ctx, c.cfg.VisionModel, []chatMessage{
		{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: ocrPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
			},
		},
	}, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}
