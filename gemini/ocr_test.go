package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCR_OCRText_ReturnsErrorWithoutClient(t *testing.T) {
	t.Parallel()

	ocr := gemini.NewOCR(nil, "")

	_, err := ocr.OCRText(context.Background(), []byte("%PDF-1.4"))

	require.Error(t, err)
	assert.Equal(t, sitecrawl.EOCR, sitecrawl.ErrorCode(err))
	assert.Contains(t, sitecrawl.ErrorMessage(err), "not configured")
}

func TestBuildOCRContents(t *testing.T) {
	t.Parallel()

	data := []byte("%PDF-1.4 scanned")

	contents := gemini.BuildOCRContents(data)

	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "application/pdf", parts[0].InlineData.MIMEType)
	assert.Equal(t, data, parts[0].InlineData.Data)
	assert.Contains(t, parts[1].Text, "Transcribe")
}

func TestBuildOCRConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildOCRConfig()

	require.NotNil(t, config.Temperature)
	assert.Zero(t, *config.Temperature)
	require.NotNil(t, config.SystemInstruction)
	assert.NotEmpty(t, config.SystemInstruction.Parts)
}
