package safetype

import (
	"fmt"
	"io"

	"github.com/safetype/safetype/internal/engine"
	"github.com/safetype/safetype/internal/git"
	"github.com/safetype/safetype/internal/report"
	"github.com/safetype/safetype/internal/types"
	"github.com/safetype/safetype/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanFlags are the flags that select and filter scan targets. They are
// shared by scan and baseline update.
type scanFlags struct {
	staged          bool
	history         int
	include         string
	exclude         string
	maxBytes        int64
	enable          string
	disable         string
	defaultExcludes bool
	baseline        string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.staged, "staged", false, "scan staged changes")
	cmd.Flags().IntVar(&f.history, "history", 0, "scan files changed in the last N commits (0=off)")
	cmd.Flags().StringVar(&f.include, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&f.maxBytes, "max-bytes", 0, "skip files larger than this (default 1 MiB)")
	cmd.Flags().StringVar(&f.enable, "enable", "", "only run these rules (comma-separated IDs)")
	cmd.Flags().StringVar(&f.disable, "disable", "", "disable these rules (comma-separated IDs)")
	cmd.Flags().BoolVar(&f.defaultExcludes, "default-excludes", true, "apply built-in exclude list (node_modules, dist, lockfiles, etc.)")
	cmd.Flags().StringVar(&f.baseline, "baseline", "", "baseline file (default "+report.DefaultBaselineFile+")")
}

// engineConfig merges flags with config files, CLI first.
func (f *scanFlags) engineConfig(cmd *cobra.Command, g *globalFlags, s *settings) engine.Config {
	l, gl := s.local, s.global
	return engine.Config{
		Root:            s.root,
		Paths:           s.paths,
		Stdin:           cmd.InOrStdin(),
		IncludeGlobs:    pickString(f.include, l.Include, gl.Include),
		ExcludeGlobs:    pickString(f.exclude, l.Exclude, gl.Exclude),
		DefaultExcludes: pickToggle(f.defaultExcludes, cmd.Flags().Changed("default-excludes"), l.DefaultExcludes, gl.DefaultExcludes),
		MaxBytes:        pickInt64(f.maxBytes, l.MaxBytes, gl.MaxBytes),
		ScanStaged:      f.staged,
		HistoryCommits:  f.history,
		Threads:         pickInt(g.threads, l.Threads, gl.Threads),
		Catalog:         s.catalog,
		EnableRules:     pickString(f.enable, l.Enable, gl.Enable),
		DisableRules:    pickString(f.disable, l.Disable, gl.Disable),
		MinConfidence:   pickFloat(g.minConfidence, l.MinConfidence, gl.MinConfidence),
		Logger:          s.log,
	}
}

func (f *scanFlags) baselinePath(s *settings) string {
	p := pickString(f.baseline, s.local.Baseline, s.global.Baseline)
	if p == "" {
		p = report.DefaultBaselineFile
	}
	return s.resolvePath(p)
}

func newScanCmd(g *globalFlags) *cobra.Command {
	var (
		sf          scanFlags
		flagText    bool
		flagContext bool
		flagNoBase  bool
	)
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files, directories or stdin (-) for secrets",
		Long: "Scan walks the given paths (default: the current directory) and reports every rule match.\n" +
			"Files named explicitly are always scanned; files found by walking honour globs,\n" +
			".safetypeignore and the default exclude list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, g, &sf, args, scanOutput{text: flagText, context: flagContext, noBaseline: flagNoBase})
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().BoolVar(&flagContext, "context", false, "show surrounding text under each finding")
	cmd.Flags().BoolVar(&flagNoBase, "no-baseline", false, "report every finding, ignoring the baseline")
	return cmd
}

type scanOutput struct {
	text       bool
	context    bool
	noBaseline bool
}

func runScan(cmd *cobra.Command, g *globalFlags, sf *scanFlags, args []string, out scanOutput) error {
	s, err := loadSettings(cmd, g, args)
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()

	failOn, err := report.ParseFailOn(pickString(g.failOn, s.local.FailOn, s.global.FailOn))
	if err != nil {
		return err
	}
	cfg := sf.engineConfig(cmd, g, s)
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	machine := g.json || g.sarif

	if !machine {
		if !pickBool(g.noUpdateCheck, s.local.NoUpdateCheck, s.global.NoUpdateCheck) {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				_, _ = fmt.Fprintf(stderr, "(new version available: v%s)  run 'safetype update' to upgrade\n", latest)
			}
		}
		if isTerminal(stderr) {
			progressed := 0
			cfg.Progress = func() {
				progressed++
				if progressed%10 == 0 {
					_, _ = fmt.Fprintf(stderr, "\rScanned %d files", progressed)
				}
			}
		}
	}

	res, err := engine.ScanFiles(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if cfg.Progress != nil && res.FilesScanned >= 10 {
		_, _ = fmt.Fprintln(stderr)
	}

	findings := res.Findings
	if !out.noBaseline {
		base, err := report.LoadBaseline(sf.baselinePath(s))
		if err != nil {
			s.log.Warn("baseline unreadable; reporting all findings", zap.Error(err))
		}
		findings = report.FilterNewFindings(res.Findings, base)
	}
	if findings == nil {
		findings = []types.Finding{}
	}

	if err := writeFindings(stdout, cmd, g, s, findings, res, out); err != nil {
		return err
	}
	if report.ShouldFail(findings, failOn) {
		return errFindings
	}
	return nil
}

func writeFindings(w io.Writer, cmd *cobra.Command, g *globalFlags, s *settings, findings []types.Finding, res engine.Result, out scanOutput) error {
	switch {
	case g.sarif:
		repo, commit, branch := git.RepoMetadata(cmd.Context(), s.root)
		if err := report.WriteSARIFWithOptions(w, findings, report.SARIFOptions{
			ToolVersion: version,
			Rules:       s.catalog.Rules(),
			Repo:        repo,
			Commit:      commit,
			Branch:      branch,
		}); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case g.json:
		return report.WriteJSON(w, findings)
	default:
		opts := report.PrintOptions{
			NoColor:      s.noColor(cmd, g),
			Duration:     res.Duration,
			FilesScanned: res.FilesScanned,
			ShowContext:  out.context,
			Baselined:    len(res.Findings) - len(findings),
		}
		if out.text {
			report.PrintText(w, findings, opts)
		} else {
			report.PrintTable(w, findings, opts)
		}
	}
	return nil
}
