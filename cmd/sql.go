package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/config"
	"github.com/pable/go-hoops-stats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the SQLite database",
	Long: `Run an arbitrary SQL query against the SQLite database and print results as a table.
Only available with the sqlite backend.

Schema overview:
  players(id, name, number, position, height, weight, birthdate, stats JSON)
  games(id, name, date, game_type, result, team_stats JSON, player_stats JSON)

Stat columns are JSON; use SQLite's JSON functions to reach into them:
  SELECT name, json_extract(team_stats, '$.PTS') FROM games ORDER BY date`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	if cfg.Backend != config.BackendSQLite {
		return fmt.Errorf("sql needs the sqlite backend, current backend is %q", cfg.Backend)
	}
	query := strings.Join(args, " ")
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
