package main

import (
	"fmt"
	"strings"
)

func dashboardHTML(slots int) string {
	var sb strings.Builder
	for i := 1; i <= slots; i++ {
		fmt.Fprintf(&sb, `  <section class="card" id="card%d">
    <canvas id="chart%d" height="90"></canvas>
    <div class="cap" id="marketCap%d"></div>
    <p class="text" id="specificText%d"></p>
  </section>
`, i, i, i, i)
	}
	return strings.Replace(dashboardPage, "{{SLOTS}}", sb.String(), 1)
}

const dashboardPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>flippening</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
  <script src="https://cdn.jsdelivr.net/npm/chartjs-plugin-annotation@3"></script>
  <style>
    body { font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Arial; background:#0c0c0f; color:#eaeaea; margin:0; }
    header { display:flex; justify-content:space-between; align-items:center; padding:12px 16px; border-bottom:1px solid #1c1f25; background:#0d0d12; gap:12px; flex-wrap:wrap; }
    .pill { padding:6px 10px; border-radius:999px; background:#2a2f3a; font-size:12px; }
    main { max-width: 900px; margin: 16px auto; padding: 0 16px; }
    .card { border:1px solid #1c1f25; border-radius:10px; padding:12px; margin-bottom:16px; background:#0d0d12; }
    .card.hidden { display:none; }
    .cap { margin-top:8px; font-variant-numeric: tabular-nums; }
    .text { color:#cbd5e1; }
    .muted { color:#8a8f98; }
    .diag { color:#fca5a5; }
  </style>
</head>
<body>
<header>
  <div><b>flippening</b> <span class="muted">market cap comparison</span></div>
  <div class="pill" id="status">loading…</div>
</header>
<main>
  <div class="diag" id="diag"></div>
{{SLOTS}}</main>
<script>
const charts = {};

function draw(cv) {
  const canvas = document.getElementById(cv.canvas_id);
  if (!canvas) {
    console.error("Canvas element with ID '" + cv.canvas_id + "' not found.");
    return;
  }
  if (charts[cv.canvas_id]) {
    charts[cv.canvas_id].destroy();
  }
  charts[cv.canvas_id] = new Chart(canvas.getContext('2d'), {
    type: 'bar',
    data: {
      labels: ['Market Cap'],
      datasets: [
        { label: cv.reference_label + ' Market Cap', data: [cv.reference_share], backgroundColor: 'rgba(255, 0, 0, 1)', stack: 'stack1' },
        { data: [cv.remainder], backgroundColor: 'rgba(100, 100, 100, 0.5)', stack: 'stack1' }
      ]
    },
    options: {
      indexAxis: 'y',
      scales: { x: { stacked: true, beginAtZero: true, max: 100 }, y: { display: false } },
      plugins: {
        legend: { display: false },
        title: { display: true, text: cv.title, font: { size: 16 }, color: 'white' },
        annotation: { annotations: { labelAnnotation: {
          type: 'label', xValue: 50, yValue: 0, content: cv.annotation,
          borderRadius: 4, color: 'white', textAlign: 'center', font: { size: 20, weight: 'bold' }
        } } }
      }
    }
  });
  const cap = document.getElementById(cv.market_cap_id);
  if (cap) cap.textContent = cv.summary;
  const txt = document.getElementById(cv.text_id);
  if (txt) txt.textContent = cv.text;
  const card = document.getElementById('card' + cv.slot);
  if (card) card.classList.remove('hidden');
}

async function compareMarketCaps() {
  const status = document.getElementById('status');
  const diag = document.getElementById('diag');
  document.querySelectorAll('.card').forEach(c => c.classList.add('hidden'));
  try {
    const resp = await fetch('/api/compare', {cache: 'no-store'});
    const data = await resp.json();
    if (!resp.ok) {
      status.textContent = 'error';
      diag.textContent = data.error || ('HTTP ' + resp.status);
      return;
    }
    (data.charts || []).forEach(draw);
    diag.textContent = (data.diagnostics || []).map(d => d.label + ': ' + d.reason).join(' | ');
    status.textContent = 'run ' + data.run.run_id.slice(0, 8) + ' · ' + (data.charts || []).length + ' charts';
  } catch (e) {
    status.textContent = 'error';
    diag.textContent = '' + e;
  }
}

document.addEventListener('DOMContentLoaded', compareMarketCaps);
</script>
</body>
</html>`
