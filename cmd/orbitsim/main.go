package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/gui"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/optim"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/raster"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

const (
	secPerDay = 86400.0
	// A body farther than escapeFactor times the initial system extent
	// counts as escaped for the stability metric.
	escapeFactor = 10.0
)

// overrides are persistent flags that replace the matching config field
// when set on the command line or through ORBITSIM_* variables.
var overrides = []string{"dt", "fps", "trail-length", "parallel", "fade", "softening"}

type app struct {
	v   *viper.Viper
	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "2-D orbital mechanics visualizer",
		Long:          "orbitsim integrates a small gravitational system and draws each body with its orbit trail.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.initLogger(cmd)
		},
		RunE: a.runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (.yaml, .yml or .toml)")
	pf.String("preset", "", "preset system (see `orbitsim presets`)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.Float64("dt", config.DefaultDt, "seconds per tick")
	pf.Int("fps", config.DefaultFPS, "frames per second")
	pf.Int("trail-length", raster.DefaultTrailLength, "trail points kept per body")
	pf.Bool("parallel", false, "compute forces on all cores")
	pf.Bool("fade", false, "fade trails into the background")
	pf.Float64("softening", 0, "gravitational softening length in meters")
	for _, name := range append([]string{"config", "preset", "verbose"}, overrides...) {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	a.v.SetEnvPrefix("ORBITSIM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal view",
		RunE:  a.runLive,
	}
	liveCmd.Flags().Bool("pick", false, "choose a preset from a menu first")
	liveCmd.Flags().Bool("no-watch", false, "do not reload the config file on change")
	rootCmd.Flags().AddFlagSet(liveCmd.Flags())

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open a graphical window",
		RunE:  a.runWindow,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and print final state",
		RunE:  a.runHeadless,
	}
	runCmd.Flags().Int("ticks", 365, "ticks to simulate")
	runCmd.Flags().String("plot", "", "plot this body's distance from the first body")
	runCmd.Flags().Bool("json", false, "print JSON instead of a table")
	runCmd.Flags().Bool("periods", false, "estimate each body's orbital period around the first body")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "record an animated GIF",
		RunE:  a.runRender,
	}
	renderCmd.Flags().Int("frames", 365, "frames to record")
	renderCmd.Flags().Int("stride", 1, "ticks per recorded frame")
	renderCmd.Flags().Float64("scale", 0.5, "image size relative to the configured viewport")
	renderCmd.Flags().StringP("output", "o", "orbitsim.gif", "output file")

	svgCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "write orbit trails as SVG",
		RunE:  a.runSVG,
	}
	svgCmd.Flags().Int("ticks", 365, "ticks to simulate")
	svgCmd.Flags().StringP("output", "o", "orbitsim.svg", "output file")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid-search dt and softening for the smallest drift",
		RunE:  a.runSweep,
	}
	sweepCmd.Flags().Float64Slice("dts", []float64{3600, 21600, 43200, 86400}, "dt values to try")
	sweepCmd.Flags().Float64Slice("softenings", []float64{0}, "softening lengths to try")
	sweepCmd.Flags().Int("ticks", 365, "ticks per trial")
	sweepCmd.Flags().String("metric", "energy_drift", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset systems",
		RunE:  a.listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective config to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.initConfig,
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	rootCmd.AddCommand(liveCmd, windowCmd, runCmd, renderCmd, svgCmd, sweepCmd, presetsCmd, configCmd)
	return rootCmd
}

func (a *app) initLogger(cmd *cobra.Command) {
	level := slog.LevelInfo
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the run configuration: a config file or a preset
// (not both), else the inner system, then flag and environment overrides.
func (a *app) loadConfig() (*config.Config, error) {
	path, preset := a.v.GetString("config"), a.v.GetString("preset")

	var cfg *config.Config
	switch {
	case path != "" && preset != "":
		return nil, errors.New("--config and --preset are mutually exclusive")
	case path != "":
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	case preset != "":
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	default:
		cfg = config.DefaultConfig()
	}

	if a.v.IsSet("dt") {
		cfg.Dt = a.v.GetFloat64("dt")
	}
	if a.v.IsSet("fps") {
		cfg.FPS = a.v.GetInt("fps")
	}
	if a.v.IsSet("trail-length") {
		cfg.TrailLength = a.v.GetInt("trail-length")
	}
	if a.v.IsSet("parallel") {
		cfg.Parallel = a.v.GetBool("parallel")
	}
	if a.v.IsSet("fade") {
		cfg.FadeTrails = a.v.GetBool("fade")
	}
	if a.v.IsSet("softening") {
		cfg.Softening = a.v.GetFloat64("softening")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a.log.Debug("config loaded", "path", path, "preset", preset, "bodies", len(cfg.Bodies), "dt", cfg.Dt, "fps", cfg.FPS)
	return cfg, nil
}

func (a *app) runLive(cmd *cobra.Command, _ []string) error {
	if pick, _ := cmd.Flags().GetBool("pick"); pick {
		_, err := tea.NewProgram(viz.NewPicker(), tea.WithAltScreen()).Run()
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	var w *viz.ConfigWatcher
	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if path := a.v.GetString("config"); path != "" && !noWatch {
		if w, err = viz.NewConfigWatcher(path); err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		a.log.Debug("watching config", "path", w.Path)
	}

	m, err := viz.NewModel(cfg, w)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (a *app) runWindow(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	// raylib paces the frames itself.
	fps := cfg.FPS
	cfg.FPS = 0
	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	win := gui.Open(cfg.Width, cfg.Height, fps, "orbitsim")
	defer win.Close()
	win.HUD = func() string { return fmt.Sprintf("day %.0f", s.Time()/secPerDay) }

	res, err := s.Run(ctx, win)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if res != nil {
		a.log.Info("window closed", "frames", res.Frames, "days", res.Time/secPerDay)
	}
	return err
}

type bodyState struct {
	Name     string  `json:"name"`
	X        float64 `json:"x_au"`
	Y        float64 `json:"y_au"`
	Distance float64 `json:"distance_au"`
	Speed    float64 `json:"speed_kms"`
	Period   float64 `json:"period_days,omitempty"`
}

type runReport struct {
	Ticks   int                `json:"ticks"`
	Time    float64            `json:"time_s"`
	Metrics map[string]float64 `json:"metrics"`
	Bodies  []bodyState        `json:"bodies"`
}

func (a *app) runHeadless(cmd *cobra.Command, _ []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	plot, _ := cmd.Flags().GetString("plot")
	asJSON, _ := cmd.Flags().GetBool("json")
	periods, _ := cmd.Flags().GetBool("periods")

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	s.AddMetric(metrics.NewEnergyDrift(s.Gravity()))
	s.AddMetric(metrics.NewMomentumDrift(s.Gravity()))
	s.AddMetric(metrics.NewStability(escapeFactor * physics.MaxDistance(s.Bodies())))

	var radius *metrics.OrbitRadius
	center := s.Bodies()[0].Name
	if plot != "" {
		if _, ok := s.Body(plot); !ok {
			return fmt.Errorf("no body named %q", plot)
		}
		if plot == center {
			return fmt.Errorf("cannot plot %q against itself", plot)
		}
		radius = metrics.NewOrbitRadius(plot, center)
		s.AddMetric(radius)
	}

	// x offset of every body from the center, one sample per tick
	var xs [][]float64
	if periods {
		xs = make([][]float64, len(s.Bodies()))
		s.AddObserver(sim.ObserverFunc(func(bodies []*physics.Body, _ int, _ float64) {
			for i, b := range bodies[1:] {
				xs[i+1] = append(xs[i+1], b.Position.X()-bodies[0].Position.X())
			}
		}))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := s.RunTicks(ctx, ticks)
	if err != nil {
		return err
	}
	a.log.Info("run finished", "ticks", res.Ticks, "days", res.Time/secPerDay, "elapsed", time.Since(start))

	out := cmd.OutOrStdout()
	report := runReport{Ticks: res.Ticks, Time: res.Time, Metrics: res.Metrics}
	for i, b := range s.Bodies() {
		st := bodyState{
			Name:     b.Name,
			X:        b.Position.X() / physics.AU,
			Y:        b.Position.Y() / physics.AU,
			Distance: b.Distance() / physics.AU,
			Speed:    b.Speed() / 1000,
		}
		if periods && i > 0 {
			p, err := analysis.Period(xs[i], s.Dt())
			if err != nil {
				a.log.Warn("no period estimate", "body", b.Name, "err", err)
			} else {
				st.Period = p / secPerDay
			}
		}
		report.Bodies = append(report.Bodies, st)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "%d ticks, %.1f days\n\n", report.Ticks, report.Time/secPerDay)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if periods {
		fmt.Fprintln(w, "BODY\tX (AU)\tY (AU)\tR (AU)\tV (km/s)\tPERIOD (days)")
	} else {
		fmt.Fprintln(w, "BODY\tX (AU)\tY (AU)\tR (AU)\tV (km/s)")
	}
	for _, b := range report.Bodies {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.3f", b.Name, b.X, b.Y, b.Distance, b.Speed)
		switch {
		case !periods:
		case b.Period > 0:
			fmt.Fprintf(w, "\t%.1f", b.Period)
		default:
			fmt.Fprint(w, "\t-")
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range sortedKeys(report.Metrics) {
		fmt.Fprintf(w, "%s\t%.3e\n", name, report.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if radius != nil && len(radius.Distances()) > 1 {
		graph := asciigraph.Plot(radius.Distances(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Precision(4),
			asciigraph.Caption(fmt.Sprintf("%s distance from %s (AU)", plot, center)),
		)
		fmt.Fprintln(out)
		fmt.Fprintln(out, graph)
	}
	return nil
}

func (a *app) runRender(cmd *cobra.Command, _ []string) error {
	frames, _ := cmd.Flags().GetInt("frames")
	stride, _ := cmd.Flags().GetInt("stride")
	scale, _ := cmd.Flags().GetFloat64("scale")
	output, _ := cmd.Flags().GetString("output")
	if frames <= 0 || stride <= 0 || !(scale > 0) {
		return errors.New("--frames, --stride and --scale must be positive")
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	fps := cfg.FPS
	cfg.FPS = 0
	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	w, h := max(1, int(float64(cfg.Width)*scale)), max(1, int(float64(cfg.Height)*scale))
	s.SetProjection(raster.NewProjection(cfg.Projection().Scale*scale, w, h))
	s.SetRadiusScale(scale)

	rec, err := export.NewGIFRecorder(w, h, fps)
	if err != nil {
		return err
	}
	rec.MaxFrames = frames
	rec.Stride = stride

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if _, err := s.Run(ctx, rec); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err := rec.Save(output); err != nil {
		return err
	}
	a.log.Info("wrote gif", "path", output, "frames", rec.Frames(), "size", fmt.Sprintf("%dx%d", w, h))
	return nil
}

func (a *app) runSVG(cmd *cobra.Command, _ []string) error {
	ticks, _ := cmd.Flags().GetInt("ticks")
	output, _ := cmd.Flags().GetString("output")
	if ticks < 0 {
		return errors.New("--ticks must not be negative")
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	// Keep the whole run in the trails.
	cfg.TrailLength = max(cfg.TrailLength, ticks+1)
	cfg.FPS = 0
	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}

	surf := raster.NewImageSurface(cfg.Width, cfg.Height)
	s.Draw(surf)
	for i := 0; i < ticks; i++ {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		if err := s.Frame(surf); err != nil {
			return err
		}
	}

	svg := export.OrbitsToSVG(s.Bodies(), cfg.Width, cfg.Height, cfg.BackgroundColor(), 1)
	if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
		return err
	}
	a.log.Info("wrote svg", "path", output, "ticks", ticks)
	return nil
}

// runSweep runs the configured system once per (dt, softening) pair over
// the same simulated span, so trials with a smaller dt take more ticks.
func (a *app) runSweep(cmd *cobra.Command, _ []string) error {
	dts, _ := cmd.Flags().GetFloat64Slice("dts")
	softenings, _ := cmd.Flags().GetFloat64Slice("softenings")
	ticks, _ := cmd.Flags().GetInt("ticks")
	metric, _ := cmd.Flags().GetString("metric")

	base, err := a.loadConfig()
	if err != nil {
		return err
	}
	span := float64(ticks) * base.Dt

	grid, err := optim.NewGridSearch([]string{"dt", "softening"}, [][]float64{dts, softenings})
	if err != nil {
		return err
	}

	run := func(ctx context.Context, p optim.Point) (map[string]float64, error) {
		cfg, err := a.loadConfig()
		if err != nil {
			return nil, err
		}
		cfg.Dt, cfg.Softening = p["dt"], p["softening"]
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		s, err := sim.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		s.AddMetric(metrics.NewEnergyDrift(s.Gravity()))
		s.AddMetric(metrics.NewMomentumDrift(s.Gravity()))

		n := int(math.Round(span / cfg.Dt))
		res, err := s.RunTicks(ctx, n)
		if err != nil {
			return nil, err
		}
		a.log.Debug("trial finished", "dt", cfg.Dt, "softening", cfg.Softening, "ticks", n)
		return res.Metrics, nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	trials, best, err := grid.Search(ctx, run, metric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d trials over %.1f days\n\n", len(trials), span/secPerDay)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT (s)\tSOFTENING (m)\tENERGY_DRIFT\tMOMENTUM_DRIFT")
	for _, t := range trials {
		if t.Err != nil {
			fmt.Fprintf(w, "%g\t%g\terror: %v\t\n", t.Params["dt"], t.Params["softening"], t.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%g\t%.3e\t%.3e\n", t.Params["dt"], t.Params["softening"], t.Metrics["energy_drift"], t.Metrics["momentum_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		return errors.New("every trial failed")
	}
	fmt.Fprintf(out, "\nbest %s: dt=%g softening=%g (%.3e)\n", metric, best.Params["dt"], best.Params["softening"], best.Metrics[metric])
	return nil
}

func (a *app) listPresets(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(config.GetPreset(name).Bodies), config.DescribePreset(name))
	}
	return w.Flush()
}

func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	path := "orbitsim.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	a.log.Info("wrote config", "path", path, "bodies", len(cfg.Bodies))
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
