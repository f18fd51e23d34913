package location

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in descriptions is dropped; goldmark escapes it unless WithUnsafe is set.
var descriptionEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

func renderDescription(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := descriptionEngine.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return buf.String()
}
