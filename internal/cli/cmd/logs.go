package cmd

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/config"
	"github.com/bnema/buildsel/internal/logging"
)

var (
	logsFollow   bool
	logsLines    int
	logsClearAll bool
)

const defaultLogsLines = 50

var logsCmd = &cobra.Command{
	Use:   "logs [file]",
	Short: "View console logs",
	Long: `View the log file written by the interactive console.

Without arguments, shows the tail of the current log file.
With a file name (or partial match), shows a rotated backup instead.

Examples:
  buildsel logs               # Last 50 lines of the current log
  buildsel logs -f            # Follow the current log in real-time
  buildsel logs --list        # List the current log and its backups
  buildsel logs 2025-01-02    # View a rotated backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

var logsList bool

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", defaultLogsLines, "number of lines to show")
	logsCmd.Flags().BoolVarP(&logsList, "list", "l", false, "list log files")
}

// LogFile holds metadata about one log file.
type LogFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	Current bool
}

// Compressed reports whether the backup was gzipped by the rotator.
func (f LogFile) Compressed() bool {
	return strings.HasSuffix(f.Name, ".gz")
}

func runLogs(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	out := cmd.OutOrStdout()
	logDir := getLogDir(app.Config)

	if logsList {
		return listLogFiles(out, logDir, app.Theme)
	}

	var file *LogFile
	var err error
	if len(args) == 0 {
		file, err = currentLogFile(logDir)
	} else {
		file, err = findLogFile(logDir, args[0])
	}
	if err != nil {
		return err
	}

	if logsFollow {
		if file.Compressed() {
			return fmt.Errorf("cannot follow compressed backup %s", file.Name)
		}
		return tailLog(out, file.Path, app.Theme)
	}
	return showLog(out, *file, logsLines, app.Theme)
}

// getLogDir returns the configured log directory, or the XDG default.
func getLogDir(cfg *config.Config) string {
	if cfg != nil && cfg.Logging.LogDir != "" {
		return cfg.Logging.LogDir
	}
	logDir, err := config.GetLogDir()
	if err != nil {
		// Fallback to XDG default
		stateDir := os.Getenv("XDG_STATE_HOME")
		if stateDir == "" {
			home, _ := os.UserHomeDir()
			stateDir = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(stateDir, "buildsel", "logs")
	}
	return logDir
}

// getLogFiles returns the current log and its backups, newest first.
func getLogFiles(logDir string) ([]LogFile, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var files []LogFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		current := name == logging.DefaultLogFileName
		if !current && !strings.HasPrefix(name, logging.DefaultLogFileName+".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, LogFile{
			Name:    name,
			Path:    filepath.Join(logDir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Current: current,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Current != files[j].Current {
			return files[i].Current
		}
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

func currentLogFile(logDir string) (*LogFile, error) {
	files, err := getLogFiles(logDir)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].Current {
			return &files[i], nil
		}
	}
	return nil, fmt.Errorf("no log file in %s (run 'buildsel console' with logging.enable_file_log)", logDir)
}

// findLogFile finds a log file by partial name match.
func findLogFile(logDir, query string) (*LogFile, error) {
	files, err := getLogFiles(logDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no log files found")
	}

	q := strings.ToLower(strings.TrimSpace(query))
	for i := range files {
		if strings.EqualFold(files[i].Name, q) {
			return &files[i], nil
		}
	}

	var matches []LogFile
	for i := range files {
		if strings.Contains(strings.ToLower(files[i].Name), q) {
			matches = append(matches, files[i])
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no log file matching '%s' found", query)
	case 1:
		return &matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for i := range matches {
			names = append(names, matches[i].Name)
		}
		return nil, fmt.Errorf("multiple log files match '%s': %s", query, strings.Join(names, ", "))
	}
}

func listLogFiles(out io.Writer, logDir string, theme *styles.Theme) error {
	files, err := getLogFiles(logDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, theme.Subtle.Render("No log files found. Run 'buildsel console' to create logs."))
		return nil
	}

	fmt.Fprintln(out, theme.Title.Render("Log files (newest first):"))
	fmt.Fprintln(out)
	for _, f := range files {
		status := ""
		if f.Current {
			status = theme.SuccessStyle.Render("current")
		}
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			theme.Highlight.Render(f.Name),
			theme.Subtle.Render(f.ModTime.Format("2006-01-02 15:04:05")),
			status,
			theme.Subtle.Render(fmt.Sprintf("(%s)", formatSize(f.Size))),
		)
	}
	return nil
}

// showLog displays the last N lines of a log file, transparently reading gzipped backups.
func showLog(out io.Writer, f LogFile, lines int, theme *styles.Theme) (retErr error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close log file: %w", closeErr)
		}
	}()

	var r io.Reader = file
	if f.Compressed() {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("open compressed log: %w", err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	// Keep only the last N lines in memory.
	var tail []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tail = append(tail, scanner.Text())
		if lines > 0 && len(tail) > lines {
			tail = tail[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	for _, line := range tail {
		fmt.Fprintln(out, colorizeLogLine(line, theme))
	}
	return nil
}

// tailLog follows a log file in real-time.
func tailLog(out io.Writer, logPath string, theme *styles.Theme) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Seek to end
	_, _ = file.Seek(0, io.SeekEnd)

	fmt.Fprintln(out, theme.Subtle.Render("Following logs... (Ctrl+C to stop)"))
	fmt.Fprintln(out)

	reader := bufio.NewReader(file)
	pending := ""
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// No full line yet; keep partial data.
				pending += chunk
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return fmt.Errorf("read log file: %w", err)
		}

		pending += chunk
		for {
			idx := strings.IndexByte(pending, '\n')
			if idx == -1 {
				break
			}
			line := pending[:idx]
			pending = pending[idx+1:]
			fmt.Fprintln(out, colorizeLogLine(line, theme))
		}
	}
}

// logEntry represents a parsed JSON log entry.
type logEntry struct {
	Level     string `json:"level"`
	Time      string `json:"time"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Error     string `json:"error"`
}

// colorizeLogLine adds color based on log level.
func colorizeLogLine(line string, theme *styles.Theme) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err == nil {
		return formatJSONLogLine(entry, theme)
	}

	// Fallback to pattern matching for non-JSON logs
	switch {
	case containsAny(line, "ERR", "ERROR"):
		return theme.ErrorStyle.Render(line)
	case containsAny(line, "WRN", "WARN"):
		return theme.WarningStyle.Render(line)
	case containsAny(line, "DBG", "DEBUG"):
		return theme.Subtle.Render(line)
	default:
		return line
	}
}

// formatJSONLogLine formats a parsed JSON log entry with colors.
func formatJSONLogLine(entry logEntry, theme *styles.Theme) string {
	timeStr := ""
	if entry.Time != "" {
		if t, err := time.Parse(time.RFC3339, entry.Time); err == nil {
			timeStr = t.Format("15:04:05")
		} else {
			timeStr = entry.Time
		}
	}

	var levelStr string
	switch entry.Level {
	case "error":
		levelStr = theme.ErrorStyle.Render("ERR")
	case "warn":
		levelStr = theme.WarningStyle.Render("WRN")
	case "info":
		levelStr = theme.Highlight.Render("INF")
	case "debug":
		levelStr = theme.Subtle.Render("DBG")
	case "trace":
		levelStr = theme.Subtle.Render("TRC")
	default:
		levelStr = entry.Level
	}

	msg := entry.Message
	if entry.Component != "" {
		msg = theme.Subtle.Render("["+entry.Component+"]") + " " + msg
	}
	if entry.Error != "" {
		msg += " " + theme.ErrorStyle.Render(entry.Error)
	}
	return fmt.Sprintf("%s %s %s", theme.Subtle.Render(timeStr), levelStr, msg)
}

// containsAny checks if s contains any of the substrings.
func containsAny(s string, substrs ...string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// logsClearCmd clears old rotated logs.
var logsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear old log backups",
	Long: `Remove rotated log backups.

By default, removes backups older than logging.max_age days (default 7).
Use --all to remove every backup. The current log file is never removed.`,
	RunE: runLogsClear,
}

func init() {
	logsCmd.AddCommand(logsClearCmd)
	logsClearCmd.Flags().BoolVar(&logsClearAll, "all", false, "remove all backups")
}

func runLogsClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	out := cmd.OutOrStdout()

	maxAge := 7
	if app.Config != nil && app.Config.Logging.MaxAge > 0 {
		maxAge = app.Config.Logging.MaxAge
	}

	removed, err := clearLogBackups(out, getLogDir(app.Config), time.Now().AddDate(0, 0, -maxAge), logsClearAll, app.Theme)
	if err != nil {
		return err
	}
	if removed == 0 {
		fmt.Fprintln(out, app.Theme.Subtle.Render(fmt.Sprintf("No backups older than %d days", maxAge)))
		return nil
	}
	fmt.Fprintf(out, "\n%s\n", app.Theme.SuccessStyle.Render(fmt.Sprintf("Cleared %d backup(s)", removed)))
	return nil
}

func clearLogBackups(out io.Writer, logDir string, cutoff time.Time, all bool, theme *styles.Theme) (int, error) {
	files, err := getLogFiles(logDir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		if f.Current || (!all && !f.ModTime.Before(cutoff)) {
			continue
		}
		if err := os.Remove(f.Path); err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", theme.ErrorStyle.Render(styles.IconX), f.Name, err)
			continue
		}
		fmt.Fprintf(out, "%s %s (%s)\n", theme.SuccessStyle.Render(styles.IconCheck), f.Name, formatSize(f.Size))
		removed++
	}
	return removed, nil
}
