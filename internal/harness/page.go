package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RenderShell builds the document a session navigates to before running
// render scripts. The body starts empty; each execution appends its own
// container element. The import map must carry at least one entry, or
// the runtime specifiers in synthesized scripts would not resolve.
func RenderShell(title string, imports ImportMap, headHTML string) (string, error) {
	if len(imports.Imports) == 0 {
		return "", fmt.Errorf("missing import map entries")
	}

	if title == "" {
		title = "Heimdall Harness"
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("    ", "  ")
	if err := enc.Encode(imports); err != nil {
		return "", err
	}
	mapJSON := strings.TrimRight(buf.String(), "\n")

	// The map is embedded in a script element, so a literal </script>
	// inside a target would end the element early.
	escapedMap := strings.ReplaceAll(mapJSON, "</", "<\\/")

	head := `<meta charset="UTF-8" /><meta name="viewport" content="width=device-width, initial-scale=1.0" />`
	head += fmt.Sprintf("<title>%s</title>", title)
	if headHTML != "" {
		head += headHTML
	}

	doc := fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    %s
    <script type="importmap">
    %s
    </script>
  </head>
  <body></body>
</html>
`, head, escapedMap)

	return doc, nil
}
