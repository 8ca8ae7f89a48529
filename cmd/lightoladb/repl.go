package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/cabewaldrop/lightoladb/internal/database"
)

const banner = `
  _ _       _     _        _       ____  ____
 | (_) __ _| |__ | |_ ___ | | __ _|  _ \| __ )
 | | |/ _' | '_ \| __/ _ \| |/ _' | | | |  _ \
 | | | (_| | | | | || (_) | | (_| | |_| | |_) |
 |_|_|\__, |_| |_|\__\___/|_|\__,_|____/|____/
      |___/

  In-memory columnar SQL - Version %s
  Type '.help' for usage hints or '.quit' to exit.
`

// dotCommands are special commands starting with '.'
var dotCommands = map[string]string{
	".help":   "Show this help message",
	".quit":   "Exit the program",
	".exit":   "Exit the program (alias for .quit)",
	".tables": "List all tables",
	".schema": "Show schema for all tables or a specific table",
	".clear":  "Clear the screen",
}

var sqlKeywords = []string{
	"CREATE TABLE", "DROP TABLE", "INSERT INTO", "SELECT", "FROM", "VALUES",
	"WHERE", "GROUP BY", "ORDER BY", "LIMIT", "SHOW TABLES", "DESCRIBE", "EXPLAIN",
	"COUNT(", "SUM(", "AVG(", "MIN(", "MAX(", "ENGINE = Memory", "Nullable(",
}

func newREPLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(a, cmd.OutOrStdout())
		},
	}
}

// shell is the line-oriented state of the REPL, independent of the terminal.
type shell struct {
	db  *database.Database
	out io.Writer
	buf strings.Builder
}

// prompt returns the primary prompt, or the continuation prompt while a
// statement is incomplete.
func (s *shell) prompt() string {
	if s.buf.Len() == 0 {
		return "lightoladb> "
	}
	return "        ...> "
}

// reset drops a partially typed statement.
func (s *shell) reset() { s.buf.Reset() }

// feed handles one input line. It returns false when the user asked to quit.
func (s *shell) feed(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}

	if s.buf.Len() == 0 {
		if strings.HasPrefix(trimmed, ".") {
			return s.dotCommand(trimmed)
		}
		switch strings.ToLower(strings.TrimSuffix(trimmed, ";")) {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Goodbye!")
			return false
		}
	}

	// Accumulate until the statement ends with a semicolon.
	s.buf.WriteString(line)
	input := strings.TrimSpace(s.buf.String())
	if !strings.HasSuffix(input, ";") {
		s.buf.WriteString("\n")
		return true
	}
	s.buf.Reset()

	fmt.Fprintln(s.out, s.db.Query(input).String())
	return true
}

// dotCommand processes special dot commands.
func (s *shell) dotCommand(cmd string) bool {
	parts := strings.Fields(cmd)

	switch parts[0] {
	case ".help":
		names := make([]string, 0, len(dotCommands))
		for name := range dotCommands {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(s.out, "\nAvailable commands:")
		for _, name := range names {
			fmt.Fprintf(s.out, "  %-12s %s\n", name, dotCommands[name])
		}
		fmt.Fprintln(s.out, "\nSQL Commands (end each with ';'):")
		fmt.Fprintln(s.out, "  CREATE TABLE name (col Type, ...) [ENGINE = Memory]")
		fmt.Fprintln(s.out, "  DROP TABLE [IF EXISTS] name")
		fmt.Fprintln(s.out, "  INSERT INTO table [(columns)] VALUES (values), ...")
		fmt.Fprintln(s.out, "  SELECT cols | AGG(col) [AS alias] FROM table [LIMIT n]")
		fmt.Fprintln(s.out, "  SHOW TABLES | DESCRIBE table | EXPLAIN SELECT ...")
		fmt.Fprintln(s.out)

	case ".quit", ".exit":
		fmt.Fprintln(s.out, "Goodbye!")
		return false

	case ".tables":
		tables := s.db.Tables()
		if len(tables) == 0 {
			fmt.Fprintln(s.out, "No tables found.")
			break
		}
		fmt.Fprintln(s.out, "Tables:")
		for _, name := range tables {
			fmt.Fprintf(s.out, "  %s\n", name)
		}

	case ".schema":
		names := parts[1:]
		if len(names) == 0 {
			names = s.db.Tables()
		}
		for _, name := range names {
			s.showTableSchema(name)
		}

	case ".clear":
		// ANSI escape code to clear screen
		fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(s.out, "Type '.help' for available commands.")
	}
	return true
}

// showTableSchema prints a table as the CREATE TABLE that would rebuild it.
func (s *shell) showTableSchema(name string) {
	info, err := s.db.Table(name)
	if err != nil {
		fmt.Fprintf(s.out, "Table '%s' not found.\n", name)
		return
	}

	fmt.Fprintf(s.out, "CREATE TABLE %s (\n", name)
	for i, col := range info.Columns {
		comma := ","
		if i == len(info.Columns)-1 {
			comma = ""
		}
		fmt.Fprintf(s.out, "  %s %s%s\n", col.Name, col.Type, comma)
	}
	fmt.Fprintf(s.out, ") ENGINE = %s; -- %d rows\n", info.Engine, info.Rows)
}

// complete offers dot commands and SQL keywords for the word being typed.
func complete(line string) []string {
	start := strings.LastIndexAny(line, " (,") + 1
	prefix, word := line[:start], strings.ToUpper(line[start:])
	if word == "" {
		return nil
	}

	var out []string
	if start == 0 && strings.HasPrefix(word, ".") {
		for name := range dotCommands {
			if strings.HasPrefix(strings.ToUpper(name), word) {
				out = append(out, name)
			}
		}
	}
	for _, kw := range sqlKeywords {
		if strings.HasPrefix(kw, word) {
			out = append(out, prefix+kw)
		}
	}
	sort.Strings(out)
	return out
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lightoladb_history")
}

// runREPL implements the Read-Eval-Print Loop.
func runREPL(a *app, out io.Writer) error {
	db, err := a.openDatabase()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, banner, version)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	line.SetCompleter(complete)

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	sh := &shell{db: db, out: out}
	for {
		input, err := line.Prompt(sh.prompt())
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			sh.reset()
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		case err != nil:
			return fmt.Errorf("error reading input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !sh.feed(input) {
			return nil
		}
	}
}
