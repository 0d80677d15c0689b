package cmd

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpcloud/tail"
	"github.com/lifeisriding/slimductor/cli"
	"github.com/lifeisriding/slimductor/logging"
	"github.com/lifeisriding/slimductor/pkg/paths"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the diagnostics log",
		Long: `Prints the end of the newest diagnostics log file. Hook invocations are
silent, so this is where failed registrations and evictions show up.`,
		Example: `# Last 50 lines
slimductor logs

# Follow while hooks fire
slimductor logs -f`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)

			path, err := findLogFile(logging.LoadConfig())
			if err != nil {
				return err
			}
			logger.WithField("log_file", path).Debug("Reading log file")

			offset, err := lastLinesOffset(path, lines)
			if err != nil {
				return fmt.Errorf("could not read log file %s: %w", path, err)
			}

			t, err := tail.TailFile(path, tail.Config{
				Follow:    follow,
				ReOpen:    follow,
				MustExist: true,
				Location:  &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
				Logger:    stdlog.New(io.Discard, "", 0),
			})
			if err != nil {
				return fmt.Errorf("could not tail log file %s: %w", path, err)
			}
			defer t.Cleanup()
			defer t.Stop()

			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			for {
				select {
				case line, ok := <-t.Lines:
					if !ok {
						return nil
					}
					if line.Err != nil {
						return line.Err
					}
					fmt.Fprintln(out, line.Text)
				case <-ctx.Done():
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show from the end (0 for all)")
	return cmd
}

// findLogFile returns the configured log file or the newest file in the
// log directory.
func findLogFile(logCfg logging.Config) (string, error) {
	if logCfg.File.Path != "" {
		return logging.LogFilePath(logCfg, cli.LoggerComponent), nil
	}
	return findLatestLogFile(paths.LogDir())
}

// findLatestLogFile finds the most recently modified .log file in a directory.
func findLatestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latest os.FileInfo
	var latestPath string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == nil || info.ModTime().After(latest.ModTime()) {
			latest = info
			latestPath = filepath.Join(dir, entry.Name())
		}
	}

	if latest == nil {
		return "", fmt.Errorf("no log files found in %s", dir)
	}
	return latestPath, nil
}

// lastLinesOffset returns the byte offset where the last n lines of path
// begin. n <= 0 means the whole file.
func lastLinesOffset(path string, n int) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	end := len(data)
	if end > 0 && data[end-1] == '\n' {
		end--
	}
	count := 0
	for i := end - 1; i >= 0; i-- {
		if data[i] == '\n' {
			count++
			if count == n {
				return int64(i + 1), nil
			}
		}
	}
	return 0, nil
}
