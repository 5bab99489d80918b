package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"honnef.co/go/tracelayout/scenario"
	"honnef.co/go/tracelayout/timeline"
	"honnef.co/go/tracelayout/trace"
)

type report struct {
	File      string         `yaml:"file"`
	Provider  string         `yaml:"provider"`
	TotalTime time.Duration  `yaml:"totalTime"`
	Levels    int            `yaml:"levels"`
	Groups    []groupReport  `yaml:"groups,omitempty"`
	Entries   []entryReport  `yaml:"entries"`
	Markers   []markerReport `yaml:"markers,omitempty"`
	Flows     []flowReport   `yaml:"flows,omitempty"`
}

type groupReport struct {
	Title      string `yaml:"title"`
	StartLevel int    `yaml:"startLevel"`
}

type entryReport struct {
	Index    int           `yaml:"index"`
	Level    int           `yaml:"level"`
	Kind     string        `yaml:"kind"`
	Start    time.Duration `yaml:"start"`
	Duration time.Duration `yaml:"duration"`
	Title    string        `yaml:"title"`
	Color    string        `yaml:"color"`
}

type markerReport struct {
	Title string        `yaml:"title"`
	Start time.Duration `yaml:"start"`
	Tall  bool          `yaml:"tall,omitempty"`
}

type flowReport struct {
	Start      time.Duration  `yaml:"start"`
	StartLevel int            `yaml:"startLevel"`
	End        *time.Duration `yaml:"end,omitempty"`
	EndLevel   *int           `yaml:"endLevel,omitempty"`
}

func newLayoutCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout [files...]",
		Short: "Lay out scenario files",
		Long: `Lay out each scenario file and print its entries, groups, markers and flows.
Files ending in .sz are decompressed with snappy.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.layout(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
	flags := cmd.Flags()
	flags.Bool("network", false, "lay out network requests instead of threads")
	flags.Bool("collapsible", false, "use collapsible groups instead of header rows")
	flags.Bool("show-all", false, "disable the default event filters")
	flags.Bool("flows", false, "collect flows between events")
	flags.Bool("gpu", false, "include the GPU group")
	flags.Bool("blackbox", false, "collapse blackboxed script frames")
	flags.StringSlice("blackbox-pattern", nil, "regular expression of blackboxed script URLs")
	flags.StringSlice("visible", nil, "only lay out events with these names")
	flags.Duration("window-start", 0, "start of the visible window of the network layout")
	flags.Duration("window-end", 0, "end of the visible window of the network layout")
	flags.String("format", "table", "output format (table or yaml)")
	flags.Bool("metrics", false, "print layout metrics")
	flags.Int("jobs", runtime.GOMAXPROCS(0), "number of scenarios to lay out concurrently")
	return cmd
}

func (a *app) config() timeline.Config {
	return timeline.Config{
		ShowAllEvents:     a.v.GetBool("show-all"),
		FlowEvents:        a.v.GetBool("flows"),
		Blackboxing:       a.v.GetBool("blackbox"),
		CollapsibleGroups: a.v.GetBool("collapsible"),
		GPUTimeline:       a.v.GetBool("gpu"),
		VisibleEvents:     a.v.GetStringSlice("visible"),
		BlackboxPatterns:  a.v.GetStringSlice("blackbox-pattern"),
		Logger:            a.log,
	}
}

func (a *app) layout(ctx context.Context, w io.Writer, files []string) error {
	format := a.v.GetString("format")
	if format != "table" && format != "yaml" {
		return fmt.Errorf("unknown output format %q", format)
	}

	reg := prometheus.NewRegistry()
	cfg := a.config()
	cfg.Metrics = timeline.NewMetrics(reg)

	reports := make([]*report, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.v.GetInt("jobs"), 1))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := scenario.Load(path)
			if err != nil {
				return err
			}
			r, err := a.layoutScenario(m, cfg)
			if err != nil {
				return fmt.Errorf("couldn't lay out %s: %w", path, err)
			}
			r.File = path
			reports[i] = r
			a.log.WithFields(logrus.Fields{
				"file":    path,
				"entries": len(r.Entries),
			}).Info("laid out scenario")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	switch format {
	case "table":
		for _, r := range reports {
			if err := writeTable(w, r); err != nil {
				return err
			}
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("couldn't encode layout: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		panic("unreachable")
	}

	if a.v.GetBool("metrics") {
		return writeMetrics(w, reg)
	}
	return nil
}

func (a *app) layoutScenario(m *trace.Model, cfg timeline.Config) (*report, error) {
	var (
		p    timeline.DataProvider
		name string
	)
	if a.v.GetBool("network") {
		np := timeline.NewNetworkProvider(m, cfg)
		start, end := a.v.GetDuration("window-start"), a.v.GetDuration("window-end")
		if end > start {
			np.SetWindowTimes(m.Min.Add(start), m.Min.Add(end))
		}
		p, name = np, "network"
	} else {
		tp, err := timeline.NewThreadProvider(m, cfg)
		if err != nil {
			return nil, err
		}
		p, name = tp, "thread"
	}
	return newReport(p, name), nil
}

func newReport(p timeline.DataProvider, provider string) *report {
	l := p.BuildLayout()
	origin := p.MinimumBoundary()
	r := &report{
		Provider:  provider,
		TotalTime: p.TotalTime(),
		Levels:    p.MaxStackDepth(),
	}
	for _, g := range l.Groups {
		r.Groups = append(r.Groups, groupReport{Title: g.Title, StartLevel: g.StartLevel})
	}
	for i := 0; i < l.Entries.Len(); i++ {
		e := l.Entries.At(i)
		r.Entries = append(r.Entries, entryReport{
			Index:    i,
			Level:    e.Level,
			Kind:     e.Kind.String(),
			Start:    e.Start.Sub(origin),
			Duration: e.Duration,
			Title:    p.EntryTitle(i),
			Color:    p.EntryColor(i).HTML(),
		})
	}
	for i := range l.Markers {
		m := &l.Markers[i]
		r.Markers = append(r.Markers, markerReport{Title: m.Title(), Start: m.Offset, Tall: m.Style.Tall})
	}
	for _, f := range l.Flows {
		fr := flowReport{Start: f.Start.Time.Sub(origin), StartLevel: f.Start.Level}
		if end, ok := f.End.Get(); ok {
			d := end.Time.Sub(origin)
			fr.End = &d
			fr.EndLevel = &end.Level
		}
		r.Flows = append(r.Flows, fr)
	}
	return r
}

func writeTable(w io.Writer, r *report) error {
	fmt.Fprintf(w, "%s (%s): %d entries on %d levels, %s\n", r.File, r.Provider, len(r.Entries), r.Levels, r.TotalTime)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(r.Groups) != 0 {
		fmt.Fprintf(tw, "GROUP\tLEVEL\n")
		for _, g := range r.Groups {
			fmt.Fprintf(tw, "%s\t%d\n", g.Title, g.StartLevel)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintf(tw, "INDEX\tLEVEL\tKIND\tSTART\tDURATION\tCOLOR\tTITLE\n")
	for _, e := range r.Entries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n", e.Index, e.Level, e.Kind, e.Start, e.Duration, e.Color, e.Title)
	}

	if len(r.Markers) != 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "MARKER\tTALL\n")
		for _, m := range r.Markers {
			fmt.Fprintf(tw, "%s\t%t\n", m.Title, m.Tall)
		}
	}

	if len(r.Flows) != 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "FLOW START\tLEVEL\tEND\tLEVEL\n")
		for _, f := range r.Flows {
			if f.End == nil {
				fmt.Fprintf(tw, "%s\t%d\t-\t-\n", f.Start, f.StartLevel)
			} else {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", f.Start, f.StartLevel, *f.End, *f.EndLevel)
			}
		}
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("couldn't gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
