package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleWindowsChart renders a line chart of peak sample magnitude per
// rendered window for one receiver, a debugging-only endpoint (no
// auth) in the same spirit as the teacher's handleTrafficChart.
// Query params:
//   - receiver (required)
func (ws *WebServer) handleWindowsChart(w http.ResponseWriter, r *http.Request) {
	receiver := r.URL.Query().Get("receiver")
	if receiver == "" {
		ws.writeJSONError(w, http.StatusBadRequest, "missing 'receiver' parameter")
		return
	}
	if ws.stats == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no stats available")
		return
	}

	points := ws.stats.History(receiver)
	if len(points) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no windows recorded for receiver %q", receiver))
		return
	}

	x := make([]string, len(points))
	y := make([]opts.LineData, len(points))
	for i, p := range points {
		x[i] = fmt.Sprintf("%d", p.Index)
		y[i] = opts.LineData{Value: p.Peak}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "FERS Receiver Windows", Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Peak Window Magnitude", Subtitle: fmt.Sprintf("receiver=%s windows=%d", receiver, len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "window"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "peak magnitude"}),
	)
	line.SetXAxis(x).AddSeries("peak", y)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleDashboard renders a minimal HTML page linking to the debug
// chart, mirroring the teacher's handleLidarDebugDashboard.
func (ws *WebServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	doc := `<!DOCTYPE html>
<html><head><title>FERS Monitor</title></head>
<body>
<h1>FERS Monitor</h1>
<p><a href="/api/status">/api/status</a> — run status JSON</p>
<p><a href="/debug/windows?receiver=">/debug/windows?receiver=NAME</a> — peak magnitude chart for a receiver</p>
</body></html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}
