package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/time-travel-tic-tac-toe/internal/app"
	"github.com/jaminalder/time-travel-tic-tac-toe/internal/domain"
)

type templates struct {
	game  *template.Template
	panel *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.square{width:3em;height:3em;font-size:1.4em}
.square.is-highlight{background:#ffe066}
.game{display:flex;gap:2em}
</style>
</head><body>{{template "content" .}}</body></html>`))
	// panel lives in the same set so the game page can include it
	template.Must(base.New("panel").Parse(panelTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="game" hx-target="#game" hx-swap="outerHTML">{{template "panel" .}}</div>
</div>`))
	// Standalone panel template used for fragment rendering
	panel := template.Must(template.New("panel_only").Parse(panelTemplate))
	return &templates{game: game, panel: panel, index: index}
}

func renderTemplate(t *template.Template, data any) []byte {
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.Bytes()
}

const panelTemplate = `
<div id="game" class="game">
  <div class="game-board">
    {{range .Rows}}
    <div class="board-row">
      {{range .}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#game" hx-swap="outerHTML" method="post" style="display:inline">
        <input type="hidden" name="i" value="{{.Index}}">
        <button type="submit" class="square{{if .Highlight}} is-highlight{{end}}"{{if .Disabled}} disabled{{end}}>{{.Symbol}}</button>
      </form>
      {{end}}
    </div>
    {{end}}
  </div>
  <div class="game-info">
    {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
    <div class="status">{{.Status}}</div>
    <ol>
      {{range .Moves}}
      <li>
        <form hx-post="/game/{{$.ID}}/jump" hx-target="#game" hx-swap="outerHTML" method="post">
          <input type="hidden" name="step" value="{{.Step}}">
          <button type="submit">{{if .Current}}<strong>{{.Label}}</strong>{{else}}{{.Label}}{{end}}</button>
        </form>
      </li>
      {{end}}
    </ol>
    <form hx-post="/game/{{.ID}}/sort" hx-target="#game" hx-swap="outerHTML" method="post">
      <button type="submit">{{if .SortAscending}}Sort descending{{else}}Sort ascending{{end}}</button>
    </form>
  </div>
</div>
`

type cellView struct {
	Index     int
	Symbol    string
	Highlight bool
	Disabled  bool
}

// panelData is the template-facing form of a session's view model.
type panelData struct {
	ID            string
	Rows          [3][3]cellView
	Status        string
	Moves         []domain.MoveEntry
	SortAscending bool
	Error         string
}

func newPanelData(s app.Session, errMsg string) panelData {
	vm := s.View()
	data := panelData{
		ID:            s.ID,
		Status:        vm.Status,
		Moves:         vm.Moves,
		SortAscending: vm.SortAscending,
		Error:         errMsg,
	}
	over := vm.Outcome.Over()
	for i, c := range vm.Board {
		data.Rows[i/3][i%3] = cellView{
			Index:     i,
			Symbol:    c.String(),
			Highlight: vm.Highlight[i],
			Disabled:  over || c != domain.Empty,
		}
	}
	return data
}
