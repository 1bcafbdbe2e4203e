package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/physync/ecs"
)

// EventTotals counts the change events one component type produced during a run.
type EventTotals struct {
	Type     string
	Inserted int
	Modified int
	Removed  int
}

type Report struct {
	// Configuration
	Duration time.Duration
	Frames   int
	Entities int
	Workers  int
	Churn    int
	Seed     int64

	// Results
	TotalUpdates  int64
	TotalTime     time.Duration
	UpdateTime    Stats
	Events        []EventTotals
	Bodies        int
	Transforms    int
	DebugLines    int
	Systems       []ecs.SystemStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `# Transform Sync Stress Report

## Configuration
- **Run Limit:** {{if .Frames}}{{.Frames}} frames{{else}}{{.Duration}}{{end}}
- **Initial Entities:** {{.Entities}}
- **Workers:** {{.Workers}}
- **Churn per Frame:** {{.Churn}}
- **Seed:** {{.Seed}}

## Performance
- **Frames:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Frame Time:** avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}

## Change Events
| Component | Inserted | Modified | Removed |
|---|---|---|---|
{{- range .Events}}
| {{.Type}} | {{.Inserted}} | {{.Modified}} | {{.Removed}} |
{{- end}}

## Final State
- **Transforms:** {{.Transforms}}
- **Simulated Bodies:** {{.Bodies}}
- **Debug Lines Drawn:** {{.DebugLines}}

## Systems
| System | Runs | Avg | Max |
|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory (bytes)
- Heap Alloc: {{.MemStatsStart.HeapAlloc}} -> {{.MemStatsEnd.HeapAlloc}} (delta {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}})
- Total Alloc: {{.MemStatsStart.TotalAlloc}} -> {{.MemStatsEnd.TotalAlloc}} (delta {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}})
- Num GC: {{.MemStatsStart.NumGC}} -> {{.MemStatsEnd.NumGC}} (delta {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}})
- GC Pause Total: {{ns .MemStatsEnd.PauseTotalNs}}
`

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}).Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
