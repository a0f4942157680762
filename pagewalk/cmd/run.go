package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pagewalk/datarecording"
	"github.com/sarchlab/pagewalk/driver"
	"github.com/sarchlab/pagewalk/monitoring"
	"github.com/sarchlab/pagewalk/tracing"
	"github.com/sarchlab/pagewalk/walker"
)

var runCmd = &cobra.Command{
	Use:   "run [input-file]",
	Short: "Run a translation session.",
	Long: `Run loads a session description from the input file, or from ` +
		`the standard input if no file is given, and prints one line per ` +
		`query: the physical address in decimal, or "fault".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("trace-csv", "",
		"record all the walks in a CSV file with the given name")
	runCmd.Flags().String("trace-db", "",
		"record all the walks in a SQLite database with the given name")
	runCmd.Flags().Bool("log-walks", false,
		"log every step of every walk to the standard error")
	runCmd.Flags().Bool("monitor", false,
		"serve the session state over HTTP while it runs")
	runCmd.Flags().Int("monitor-port", 0,
		"port for the monitoring server, random if not given")
	runCmd.Flags().Bool("open-browser", false,
		"open the monitoring server in a browser")
}

func runSession(cmd *cobra.Command, args []string) error {
	input, err := openInput(args)
	if err != nil {
		return err
	}

	session, err := driver.LoadSession(input)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	flush := attachObservers(cmd, session)
	defer flush()

	return session.Run(os.Stdout)
}

func openInput(args []string) (io.Reader, error) {
	if len(args) == 0 {
		return os.Stdin, nil
	}

	file, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	return file, nil
}

// attachObservers wires the requested logging, tracing, and monitoring to
// the session's walker. It returns a function that flushes the trace
// writers.
func attachObservers(cmd *cobra.Command, session *driver.Session) func() {
	if logWalks, _ := cmd.Flags().GetBool("log-walks"); logWalks {
		logger := log.New(os.Stderr, "", 0)
		session.Walker.AcceptHook(walker.NewWalkLogger(logger))
	}

	var tracers []tracing.Tracer
	flushers := []func(){}

	if path := stringFlagOrEnv(cmd, "trace-csv", "PAGEWALK_TRACE_CSV"); path != "" {
		csvWriter := tracing.NewCSVTraceWriter(path)
		csvWriter.Init()
		tracers = append(tracers, csvWriter)
		flushers = append(flushers, csvWriter.Flush)
	}

	if path := stringFlagOrEnv(cmd, "trace-db", "PAGEWALK_TRACE_DB"); path != "" {
		recorder := datarecording.New(path)
		dbWriter := tracing.NewDBTraceWriter(recorder)
		tracers = append(tracers, dbWriter)
		flushers = append(flushers, dbWriter.Flush)
	}

	if len(tracers) > 0 {
		tracing.CollectWalks(session.Walker, tracers...)
	}

	if monitor, _ := cmd.Flags().GetBool("monitor"); monitor {
		startMonitor(cmd, session)
	}

	return func() {
		for _, flush := range flushers {
			flush()
		}
	}
}

func startMonitor(cmd *cobra.Command, session *driver.Session) {
	m := monitoring.NewMonitor()
	m.RegisterWalker(session.Walker)
	m.RegisterStorage(session.Storage)

	if port, _ := cmd.Flags().GetInt("monitor-port"); port != 0 {
		m.WithPortNumber(port)
	}

	if open, _ := cmd.Flags().GetBool("open-browser"); open {
		m.WithBrowserOpening()
	}

	m.StartServer()
}
