package gameindex

import (
	"fmt"
	"html"
)

// Page holds the fixed text of the index page.
type Page struct {
	Lang       string
	Title      string // <title>
	Heading    string // <h1>
	Stylesheet string // href of the stylesheet. not generated here.
	Footer     string // copyright line
}

var DefaultPage = Page{
	Lang:       "es",
	Title:      "AI4Devs Retro Games",
	Heading:    "AI4Devs Retro Games",
	Stylesheet: "styles.css",
	Footer:     "© GG, MIT License",
}

// Render the index page for games, in the order given.
// The output depends only on its inputs, so rendering the same games twice gives the same bytes.
func Render(p Page, games []Game) []byte {
	esc := html.EscapeString
	b := make([]byte, 0, 512+64*len(games))
	b = fmt.Appendf(b, `<!DOCTYPE html>
<html lang="%s">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <link rel="stylesheet" href="%s">
</head>
<body>
  <h1>%s</h1>
  <ul>
`, esc(p.Lang), esc(p.Title), esc(p.Stylesheet), esc(p.Heading))
	for _, g := range games {
		b = fmt.Appendf(b, "    <li><a href=\"%s\">%s</a></li>\n", esc(g.Href()), esc(g.DisplayName()))
	}
	b = fmt.Appendf(b, `  </ul>
  <footer>
    <p>%s</p>
  </footer>
</body>
</html>
`, esc(p.Footer))
	return b
}
