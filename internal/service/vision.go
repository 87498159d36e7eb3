package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrUnsupportedImage is returned for image types the vision model does not accept
var ErrUnsupportedImage = errors.New("unsupported image type")

// DishAnalysisPrompt asks the vision model to describe a photographed meal
const DishAnalysisPrompt = `Identify the dish in this photo. Respond with:
1. The dish name
2. The main visible ingredients
3. An estimated portion size
4. Approximate calories, protein, carbs and fat for that portion
5. One short suggestion to make it healthier
Keep the answer under 200 words.`

// ImageAnalyzer describes images with a vision language model
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error)
}

// GeminiImageAnalyzer sends images to a Gemini multimodal model
type GeminiImageAnalyzer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

// NewGeminiImageAnalyzer creates a client for modelName authenticated with apiKey
func NewGeminiImageAnalyzer(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiImageAnalyzer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiImageAnalyzer{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger.Named("gemini"),
	}, nil
}

// AnalyzeImage returns the model's text answer about the image
func (g *GeminiImageAnalyzer) AnalyzeImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	format, err := ImageFormat(mimeType)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(prompt))
	if err != nil {
		g.logger.Error("image analysis failed", zap.Error(err))
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("generated content is not text")
	}
	return b.String(), nil
}

// Close closes the underlying Gemini client
func (g *GeminiImageAnalyzer) Close() error {
	return g.client.Close()
}

// ImageFormat maps an image MIME type to the format name Gemini expects
func ImageFormat(mimeType string) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return "jpeg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, mimeType)
}
