package mail

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #55c57a; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #55c57a; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>{{.Heading}}</h1></div>
		<div class="content">
			<p>Hi {{.FirstName}},</p>
			{{range .Lines}}<p>{{.}}</p>
			{{end}}{{if .URL}}<p style="text-align: center;"><a href="{{.URL}}" class="button">{{.Action}}</a></p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">{{.URL}}</p>{{end}}
		</div>
		<div class="footer"><p>Natours - Exciting tours for adventurous people</p></div>
	</div>
</body>
</html>
`

const layoutText = `Hi {{.FirstName}},
{{range .Lines}}
{{.}}
{{end}}{{if .URL}}
{{.Action}}: {{.URL}}
{{end}}
---
Natours - Exciting tours for adventurous people
`

var (
	htmlLayout = htmltemplate.Must(htmltemplate.New("html").Parse(layoutHTML))
	textLayout = texttemplate.Must(texttemplate.New("text").Parse(layoutText))
)

type templateData struct {
	Heading   string
	FirstName string
	Lines     []string
	Action    string
	URL       string
}
