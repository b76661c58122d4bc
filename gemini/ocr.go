package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/sitecrawl"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for OCR when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ocrInstruction asks the model for a plain transcription.
const ocrInstruction = "Transcribe all text in this PDF document in reading order. " +
	"Return only the transcribed text as plain text, without commentary, summaries or formatting."

// Ensure OCR implements sitecrawl.OCR at compile time.
var _ sitecrawl.OCR = (*OCR)(nil)

// OCR implements sitecrawl.OCR by sending the PDF to Google Gemini.
type OCR struct {
	client *genai.Client
	model  string
}

// NewOCR creates a new OCR. An empty model selects DefaultModel.
func NewOCR(client *genai.Client, model string) *OCR {
	if model == "" {
		model = DefaultModel
	}
	return &OCR{client: client, model: model}
}

// OCRText returns the text Gemini recognizes in the PDF.
func (o *OCR) OCRText(ctx context.Context, data []byte) (string, error) {
	if o.client == nil {
		return "", sitecrawl.Errorf(sitecrawl.EOCR, "gemini client not configured")
	}
	if len(data) == 0 {
		return "", sitecrawl.Errorf(sitecrawl.EOCR, "empty document")
	}

	result, err := o.client.Models.GenerateContent(ctx, o.model, BuildOCRContents(data), BuildOCRConfig())
	if err != nil {
		return "", sitecrawl.Errorf(sitecrawl.EOCR, "gemini: %v", err)
	}
	if result == nil {
		return "", sitecrawl.Errorf(sitecrawl.EOCR, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildOCRContents returns the request contents: the PDF as inline data
// followed by the transcription instruction.
func BuildOCRContents(data []byte) []*genai.Content {
	return []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: data}},
			{Text: ocrInstruction},
		},
	}}
}

// BuildOCRConfig returns the GenerateContentConfig for OCR calls.
func BuildOCRConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are an OCR engine for scanned public documents. Output the document text exactly as written.",
			}},
		},
		Temperature: &temp,
	}
}
