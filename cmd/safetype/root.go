package safetype

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	json          bool
	sarif         bool
	threads       int
	failOn        string
	noColor       bool
	minConfidence float64
	verbose       bool
	logLevel      string
	noUpdateCheck bool
}

// exitError carries a process exit status without a message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// errFindings reports that findings reached the fail-on threshold.
var errFindings = &exitError{code: 1}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "safetype",
		Short:         "Find secrets in text before they leak",
		Long:          "SafeType scans files, stdin and git staged changes or history for credentials such as API keys, private keys, JWTs and email addresses.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&g.json, "json", false, "emit JSON")
	pf.BoolVar(&g.sarif, "sarif", false, "emit SARIF 2.1.0")
	pf.IntVar(&g.threads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	pf.StringVar(&g.failOn, "fail-on", "", "fail on low|medium|high|none (default medium)")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colorized output")
	pf.Float64Var(&g.minConfidence, "min-confidence", 0.0, "only show findings with confidence >= value (0-1)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log skipped files and scan statistics")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.BoolVar(&g.noUpdateCheck, "no-update-check", false, "disable update check")

	root.AddCommand(
		newScanCmd(g),
		newBaselineCmd(g),
		newRulesCmd(g),
		newTestRuleCmd(g),
		newDiagnosticsCmd(g),
		newDemoCmd(g),
		newIgnoreCmd(g),
		newConfigCmd(),
		newCompletionCmd(root),
		newVersionCmd(),
		newUpdateCmd(),
	)
	return root
}

// execute runs the CLI with the given arguments and streams and returns the
// process exit status: 0 ok, 1 findings at or above fail-on, 2 error.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "error:", err)
	return 2
}

// Execute runs the SafeType CLI. It should be called by the main package.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
