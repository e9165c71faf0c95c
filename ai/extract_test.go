package ai_test

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/lexora/lexora-server/ai"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDocumentTypeFromName(t *testing.T) {
	for name, want := range map[string]ai.DocumentType{
		"lease.pdf":       ai.DocumentPDF,
		"Contract.DOCX":   ai.DocumentDOCX,
		"notes.final.txt": ai.DocumentTXT,
	} {
		got, err := ai.DocumentTypeFromName(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got)
	}

	_, err := ai.DocumentTypeFromName("scan.png")
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestExtractText(t *testing.T) {
	t.Run("txt", func(t *testing.T) {
		text, err := ai.ExtractText(ai.DocumentTXT, []byte("This lease begins on 1 May."))
		require.NoError(t, err)
		require.Equal(t, "This lease begins on 1 May.", text)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ai.ExtractText(ai.DocumentTXT, []byte("   short  \n"))
		require.Error(t, err)
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		require.Contains(t, err.Error(), "too short to analyze")
	})

	t.Run("docx paragraphs", func(t *testing.T) {
		data := buildDOCX(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Tenancy</w:t></w:r><w:r><w:t xml:space="preserve"> Agreement</w:t></w:r></w:p>
<w:p><w:r><w:t>Rent is due monthly.</w:t></w:r></w:p>
</w:body>
</w:document>`)

		text, err := ai.ExtractText(ai.DocumentDOCX, data)
		require.NoError(t, err)
		require.Equal(t, "Tenancy Agreement\nRent is due monthly.\n", text)
	})

	t.Run("docx without document part", func(t *testing.T) {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		_, err := w.Create("other.xml")
		require.NoError(t, err)
		require.NoError(t, w.Close())

		_, err = ai.ExtractText(ai.DocumentDOCX, buf.Bytes())
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("unreadable pdf", func(t *testing.T) {
		_, err := ai.ExtractText(ai.DocumentPDF, []byte("definitely not a pdf document"))
		require.Error(t, err)
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		require.Contains(t, err.Error(), "Failed to read PDF")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ai.ExtractText(ai.DocumentType("rtf"), []byte("some rich text document"))
		require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", ai.MaxPromptChars+50)
	require.Len(t, []rune(ai.Truncate(long)), ai.MaxPromptChars)
	require.Equal(t, "short", ai.Truncate("short"))

	prompt := ai.SummaryPrompt(long)
	require.Contains(t, prompt, "Executive Summary")
	require.Less(t, len([]rune(prompt)), ai.MaxPromptChars+400)
}
