package main

import (
	"econdash/internal/catalog"
	"econdash/internal/dashboard"
)

type pageData struct {
	View      dashboard.View
	Countries []catalog.Country
}

const tmplPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Economic Indicators</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:'JetBrains Mono',monospace,sans-serif;background:#0d1117;color:#c9d1d9;font-size:13px;line-height:1.5}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center;flex-wrap:wrap}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px;margin-right:8px}
main{padding:16px;max-width:1100px;margin:0 auto}
form{display:flex;gap:8px;margin-left:auto;align-items:center}
select,button{background:#21262d;color:#c9d1d9;border:1px solid #30363d;border-radius:4px;padding:4px 10px;font:inherit}
button{cursor:pointer}
select:disabled,button:disabled{opacity:.5;cursor:wait}
.status{color:#8b949e;font-size:12px;margin:8px 0}
.error{color:#f87171;font-size:12px;margin:8px 0}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin:16px 0}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:160px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
.card .asof{font-size:10px;color:#8b949e}
table{width:100%;border-collapse:collapse;font-size:12px;margin:16px 0}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase;letter-spacing:.05em}
td{padding:5px 10px;border-bottom:1px solid #21262d}
tr:hover td{background:#161b22}
.charts{display:grid;grid-template-columns:repeat(auto-fit,minmax(320px,1fr));gap:12px}
.charts img{width:100%;background:#fff;border:1px solid #30363d;border-radius:6px}
</style>
</head>
<body>
<nav>
	<span class="brand">Economic Indicators</span>
	<form action="/load" method="get">
		<select name="country" {{if .View.Loading}}disabled{{end}}>
			{{range .Countries}}<option value="{{.Code}}" {{if eq .Code $.View.Country}}selected{{end}}>{{.Name}}</option>{{end}}
		</select>
		<button type="submit" {{if .View.Loading}}disabled{{end}}>Reload</button>
	</form>
</nav>
<main>
	{{with .View.Status}}<div class="status">{{.}}</div>{{end}}
	{{with .View.Error}}<div class="error">{{.}}</div>{{end}}

	<div class="cards">
		{{range .View.KPIs}}
		<div class="card">
			<div class="val">{{.Value}}</div>
			<div class="lbl">{{.Label}}</div>
			<div class="asof">as of {{.AsOf}}</div>
		</div>
		{{end}}
	</div>

	{{if .View.Rows}}
	<table>
		<thead><tr><th>Indicator</th><th>Latest year</th><th>Latest value</th></tr></thead>
		<tbody>
			{{range .View.Rows}}<tr><td>{{.Label}}</td><td>{{.Year}}</td><td>{{.Value}}</td></tr>{{end}}
		</tbody>
	</table>
	{{end}}

	<div class="charts">
		{{range .View.Charts}}<img src="/charts/{{.}}.png?s={{$.View.Session}}" alt="{{.}}">{{end}}
	</div>
</main>
<script>
// Re-render when the server pushes a new view.
(function(){
	var proto = location.protocol === "https:" ? "wss://" : "ws://";
	var ws = new WebSocket(proto + location.host + "/ws");
	ws.onmessage = function(ev){
		var env = JSON.parse(ev.data);
		if (env.type === "view" && !env.view.loading) location.reload();
	};
})();
</script>
</body>
</html>
`
