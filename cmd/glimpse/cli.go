package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"glimpse/internal/classify"
	"glimpse/internal/config"
	"glimpse/internal/errors"
	"glimpse/internal/store"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *store.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "glimpse",
		Usage:   "On-screen context store and caret resolver",
		Version: Version,
		Commands: []*cli.Command{
			classifyCmd(),
			ingestCmd(st),
			retrieveCmd(st, cfg),
			recentCmd(st, cfg),
			inspectCmd(st),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// classifyOutput is the classify command result.
type classifyOutput struct {
	Text       string `json:"text"`
	Category   string `json:"category"`
	Importance string `json:"importance"`
}

// classifyCmd creates the classify command.
func classifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Classify a text string (argument or stdin)",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if text == "" && stdinHasData() {
				var err error
				text, err = readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}
			if text == "" {
				return outputError(errors.NewInvalidRequest("text is required (argument or stdin)"))
			}

			res := classify.Classify(text)
			return outputJSON(classifyOutput{
				Text:       text,
				Category:   string(res.Category),
				Importance: res.Importance.String(),
			})
		},
	}
}

// ingestOutput is the ingest command result.
type ingestOutput struct {
	LinesRead int `json:"lines_read"`
	Stored    int `json:"stored"`
}

// ingestCmd creates the ingest command. Each stdin line becomes one observed
// text block attributed to the given app/window.
func ingestCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Ingest text blocks from stdin, one per line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "app", Aliases: []string{"a"}, Value: "cli", Usage: "Source application name"},
			&cli.StringFlag{Name: "window", Aliases: []string{"w"}, Value: "stdin", Usage: "Source window title"},
			&cli.StringFlag{Name: "url", Usage: "Source URL, if any"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("text must be piped via stdin"))
			}

			out := ingestOutput{}
			before := st.Len()
			now := time.Now()
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				out.LinesRead++
				st.Ingest(store.TextBlock{
					Text:   line,
					App:    c.String("app"),
					Window: c.String("window"),
					URL:    c.String("url"),
					Time:   now,
				})
			}
			if err := scanner.Err(); err != nil {
				return outputError(errors.NewInternal(err))
			}

			st.Flush()
			out.Stored = st.Len() - before
			return outputJSON(out)
		},
	}
}

// retrieveOutput is the retrieve command result.
type retrieveOutput struct {
	Query   string   `json:"query"`
	Results []string `json:"results"`
}

// retrieveCmd creates the retrieve command.
func retrieveCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "retrieve",
		Usage:     "Retrieve stored content ranked against a query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 10, Usage: "Maximum results"},
			&cli.StringFlag{Name: "floor", Aliases: []string{"f"}, Usage: "Importance floor: critical|high|medium|low|noise"},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return outputError(errors.NewInvalidRequest("query is required"))
			}

			floorName := c.String("floor")
			if floorName == "" {
				floorName = cfg.MinImportance
			}
			floor := classify.ParseImportance(floorName)

			results := st.Retrieve(query, floor, c.Int("limit"))
			return outputJSON(retrieveOutput{Query: query, Results: results})
		},
	}
}

// recentOutput is the recent command result. Results are ordered oldest to
// newest, the most recently seen entry last.
type recentOutput struct {
	Results []string `json:"results"`
}

// recentCmd creates the recent command.
func recentCmd(st *store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List the most recently observed content",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum results (defaults to the bundle history cap)"},
		},
		Action: func(c *cli.Context) error {
			limit := c.Int("limit")
			if limit <= 0 {
				limit = cfg.MaxHistoryLines
			}
			return outputJSON(recentOutput{Results: st.Recent(limit)})
		},
	}
}

// inspectOutput is the inspect command result.
type inspectOutput struct {
	Records []store.Record `json:"records"`
	Audits  int            `json:"audits"`
}

// inspectCmd creates the inspect command: a full journal dump. Malformed
// lines are skipped, matching replay semantics.
func inspectCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Dump every decodable journal record",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "audit-only", Usage: "Show only audit records"},
		},
		Action: func(c *cli.Context) error {
			auditOnly := c.Bool("audit-only")
			out := inspectOutput{Records: []store.Record{}}
			err := st.Journal().Replay(func(rec store.Record) {
				audit := rec.App == store.AuditApp
				if audit {
					out.Audits++
				}
				if auditOnly && !audit {
					return
				}
				out.Records = append(out.Records, rec)
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if gErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", gErr.Code, gErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
