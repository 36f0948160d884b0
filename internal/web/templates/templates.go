// Package templates renders the HTML pages and fragments for the cleaning
// UI. Components are built on the templ runtime so handlers can compose and
// render them with a request context.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// HomeParams carries the upload limits shown on the landing page.
type HomeParams struct {
	MaxFileSizeMB int64
	MaxFiles      int
}

// Home renders the upload page.
func Home(params HomeParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHead(w, "QR Data Cleaner"); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, homeBody, params.MaxFiles, params.MaxFileSizeMB)
		if err != nil {
			return err
		}
		return writeFoot(w)
	})
}

// ErrorAlert renders an inline error fragment for HTMX swaps.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><strong>%s</strong> <span class="alert-action">%s</span> <span class="alert-code">(%s)</span></div>`,
			templ.EscapeString(message),
			templ.EscapeString(action),
			templ.EscapeString(code),
		)
		return err
	})
}

func writeHead(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
`, templ.EscapeString(title))
	return err
}

func writeFoot(w io.Writer) error {
	_, err := io.WriteString(w, `<script src="/static/app.js"></script>
</body>
</html>
`)
	return err
}

// homeBody is the upload page markup. Verbs: max files, max file size MB.
const homeBody = `<header class="topbar">
<h1>QR Data Cleaner</h1>
<a class="btn btn-ghost" href="/api/template" download>Download template</a>
</header>
<main class="container">
<section class="card" id="upload-card">
<h2>Clean spreadsheets</h2>
<p class="hint">Upload .xlsx, .xls, or .csv files. Up to %d files, %d&nbsp;MB each.</p>
<form id="clean-form">
<fieldset class="mode-select">
<label><input type="radio" name="mode" value="single" checked> Single file</label>
<label><input type="radio" name="mode" value="merge"> Merge files</label>
</fieldset>
<label class="dropzone" id="dropzone">
<input type="file" id="file-input" name="files" accept=".xlsx,.xls,.csv" multiple>
<span id="dropzone-label">Drop files here or click to browse</span>
</label>
<ul class="file-list" id="file-list"></ul>
<div class="actions">
<button type="submit" class="btn btn-primary" id="clean-btn">Clean</button>
<button type="button" class="btn" id="preview-btn">Preview</button>
<button type="button" class="btn btn-danger hidden" id="cancel-btn">Cancel</button>
</div>
</form>
<div id="alerts"></div>
</section>
<section class="card hidden" id="progress-card">
<h2>Progress</h2>
<div class="progress-track"><div class="progress-fill" id="progress-fill"></div></div>
<p class="progress-text" id="progress-text"></p>
</section>
<section class="card hidden" id="preview-card">
<h2>Preview</h2>
<div id="preview-summary"></div>
<div class="table-wrap"><table id="preview-table"></table></div>
</section>
<section class="card hidden" id="result-card">
<h2>Result</h2>
<div id="result-summary"></div>
<div class="actions">
<a class="btn btn-primary" id="download-link" download>Download workbook</a>
<a class="btn" id="log-link" download>Download change log</a>
</div>
<h3>Change log</h3>
<ul class="change-log" id="change-log"></ul>
</section>
</main>
`
