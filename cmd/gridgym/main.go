package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gridgym/internal/adapter/render/terminal"
	"gridgym/internal/adapter/report/echarts"
	"gridgym/internal/adapter/report/heatmap"
	"gridgym/internal/app/rollout"
	"gridgym/internal/domain/engine"
	"gridgym/internal/domain/envs"
	"gridgym/internal/domain/pov"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gridgym",
		Short:         "Grid world environments for reinforcement learning experiments",
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(newEnvsCmd(), newShowCmd(), newRolloutCmd())
	return rootCmd
}

func newEnvsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "envs",
		Short: "List the built-in environments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeEnvs(cmd.OutOrStdout())
		},
	}
}

func writeEnvs(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMIN\tMAX\tDESCRIPTION")
	for _, info := range envs.Describe() {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%d\t%s\n", info.Name, info.Width, info.Height, info.MinSteps, info.MaxSteps, info.Description)
	}
	return tw.Flush()
}

type envFlags struct {
	env    string
	pov    string
	task   int
	render string
}

func (f *envFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.env, "env", "empty", "environment name")
	cmd.Flags().StringVar(&f.pov, "pov", "global", "point of view, e.g. global, local_2, forward_3_1")
	cmd.Flags().IntVar(&f.task, "task", 0, "multitask objective (1 or 2)")
}

func (f envFlags) factory() rollout.Factory {
	return func() (*engine.Engine, error) {
		env, err := envs.Lookup(f.env, envs.Options{
			Task:   f.task,
			Render: engine.RenderSettings{RenderMode: f.render},
		})
		if err != nil {
			return nil, err
		}
		p, err := pov.Parse(f.pov, env.Settings.Width, env.Settings.Height)
		if err != nil {
			return nil, err
		}
		return engine.New(env, p)
	}
}

func newShowCmd() *cobra.Command {
	var (
		ef     envFlags
		seed   uint64
		colors bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Reset an environment and print its first frame",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ef.render = engine.RenderANSI
			eng, err := ef.factory()()
			if err != nil {
				return err
			}
			defer eng.Close()
			_, info := eng.Reset(engine.Seed(seed))
			fmt.Fprint(cmd.OutOrStdout(), terminal.Frame(eng, colors))
			fmt.Fprintf(cmd.OutOrStdout(), "agent at (%d,%d) facing %s\n", info.Position.X, info.Position.Y, info.Facing)
			return nil
		},
	}
	ef.register(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "reset seed")
	cmd.Flags().BoolVar(&colors, "color", true, "colored output")
	return cmd
}

type rolloutFlags struct {
	envFlags
	episodes int
	horizon  int
	seed     uint64
	policies string
	chart    string
	heatmap  string
}

func newRolloutCmd() *cobra.Command {
	var f rolloutFlags
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Run policies on an environment and report returns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runRollout(ctx, cmd.OutOrStdout(), f)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&f.episodes, "episodes", 100, "episodes per policy")
	cmd.Flags().IntVar(&f.horizon, "horizon", 0, "step cap per episode, 0 uses the environment limit")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed of the first episode")
	cmd.Flags().StringVar(&f.policies, "policy", "random", "comma separated policies (random, bonus)")
	cmd.Flags().StringVar(&f.chart, "chart", "", "write an HTML returns chart to this path")
	cmd.Flags().StringVar(&f.heatmap, "heatmap", "", "write a PNG visit heatmap of the first policy to this path")
	return cmd
}

func runRollout(ctx context.Context, out io.Writer, f rolloutFlags) error {
	var runners []rollout.Runner
	for _, name := range strings.Split(f.policies, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, err := rollout.NewPolicy(name, f.seed)
		if err != nil {
			return err
		}
		runners = append(runners, rollout.Runner{
			New:    f.factory(),
			Policy: p,
			Config: rollout.Config{Episodes: f.episodes, Horizon: f.horizon, Seed: f.seed},
		})
	}
	if len(runners) == 0 {
		return fmt.Errorf("%w: no policy given", rollout.ErrInvalidConfig)
	}

	reports, err := rollout.RunAll(ctx, runners)
	if err != nil {
		return err
	}
	writeSummaries(out, reports)

	if f.chart != "" {
		if err := writeFile(f.chart, func(w io.Writer) error {
			return echarts.Returns(w, fmt.Sprintf("%s returns", f.env), reports...)
		}); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}
	if f.heatmap != "" {
		if err := writeFile(f.heatmap, func(w io.Writer) error {
			return heatmap.Write(w, fmt.Sprintf("%s visits (%s)", f.env, reports[0].Policy), reports[0].Visits)
		}); err != nil {
			return fmt.Errorf("write heatmap: %w", err)
		}
	}
	return nil
}

func writeSummaries(w io.Writer, reports []rollout.Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tENV\tEPISODES\tMEAN\tSTD\tMAX\tSTEPS\tSOLVED\tHARMED")
	for _, r := range reports {
		s := r.Summary
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.1f\t%.2f\t%.2f\n",
			r.Policy, r.Env, s.Episodes, s.MeanReturn, s.StdReturn, s.MaxReturn, s.MeanSteps, s.SuccessRate, s.HarmRate)
	}
	_ = tw.Flush()
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
