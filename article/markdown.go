package article

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Markdown converts a resolved payload to markdown. Relative links and
// images are made absolute against sourceLink.
func Markdown(payload, sourceLink string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", nil
	}
	var opts []converter.ConvertOptionFunc
	if sourceLink != "" {
		opts = append(opts, converter.WithDomain(sourceLink))
	}
	out, err := mdConverter.ConvertString(payload, opts...)
	if err != nil {
		return "", fmt.Errorf("article: markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
