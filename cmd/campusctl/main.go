package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"campus_srv/internal/render"
	"campus_srv/internal/report"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDriver string
	flagDSN    string
	flagRole   string
	flagParams []string
	flagOut    string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "campusctl",
		Short:        "Run school reports from the command line",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagDriver, "driver", "sqlite3", "database driver (sqlite3 or postgres)")
	root.PersistentFlags().StringVar(&flagDSN, "dsn", "./campus.db", "database DSN")
	root.PersistentFlags().StringVar(&flagRole, "role", report.RoleAdmin, "caller role")

	root.AddCommand(listCmd(), runCmd())
	return root
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List report templates visible to the role",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := report.NewBuiltinRegistry()
			for _, t := range registry.ListForRole(flagRole) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-12s %s\n", t.ID, t.Category, t.Description)
			}
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <template-id>",
		Short: "Execute a report template and write CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(flagParams)
			if err != nil {
				return err
			}

			db, err := sql.Open(flagDriver, flagDSN)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			logger := logrus.New()
			logger.SetLevel(logrus.WarnLevel)

			driver := flagDriver
			if driver == "sqlite3" {
				driver = "sqlite"
			}
			engine := report.NewEngine(report.NewBuiltinRegistry(), report.NewSQLStore(db, driver), logger)

			res, err := engine.ExecuteReport(context.Background(), report.Request{
				TemplateID: args[0],
				Params:     params,
				Role:       flagRole,
				Mode:       report.ModeStreamed,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flagOut != "" {
				f, err := os.Create(flagOut)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return render.WriteCSV(out, res)
		},
	}

	cmd.Flags().StringArrayVar(&flagParams, "param", nil, "report parameter as name=value (repeatable)")
	cmd.Flags().StringVar(&flagOut, "out", "", "output file (default stdout)")
	return cmd
}

// parseParams turns repeated name=value flags into the parameter map.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", pair)
		}
		params[name] = value
	}
	return params, nil
}
