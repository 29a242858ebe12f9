package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/coordinator"
	"github.com/pable/go-hoops-stats/internal/model"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.json[.zst]>",
	Short: "Load an exported snapshot into the configured backend",
	Long: `Add every player and game from a snapshot written by 'hoopstats export'. Records get
new ids in the target backend; game lines are re-recorded against the new ids so team
totals and player histories are rebuilt.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	snap, err := readSnapshot(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := importSnapshot(cmd.Context(), a.Coordinator, snap); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d players and %d games\n", len(snap.Players), len(snap.Games))
	return nil
}

// importSnapshot adds snap's records to c, remapping ids, then records each game's lines.
func importSnapshot(ctx context.Context, c *coordinator.Coordinator, snap snapshot) error {
	playerIDs := make(map[int64]int64, len(snap.Players))
	for _, p := range snap.Players {
		id, err := c.AddPlayer(ctx, model.Player{
			Name:      p.Name,
			Number:    p.Number,
			Position:  p.Position,
			Height:    p.Height,
			Weight:    p.Weight,
			Birthdate: p.Birthdate,
		})
		if err != nil {
			return fmt.Errorf("import player %d: %w", p.ID, err)
		}
		playerIDs[p.ID] = id
	}

	for _, g := range snap.Games {
		id, err := c.AddGame(ctx, model.Game{Name: g.Name, Date: g.Date, Type: g.Type, Result: g.Result})
		if err != nil {
			return fmt.Errorf("import game %d: %w", g.ID, err)
		}
		if len(g.PlayerStats) == 0 {
			continue
		}
		inputs := make([]coordinator.StatInput, 0, len(g.PlayerStats))
		for _, l := range g.PlayerStats {
			pid, ok := playerIDs[l.PlayerID]
			if !ok {
				return fmt.Errorf("import game %d: line for unknown player %d", g.ID, l.PlayerID)
			}
			inputs = append(inputs, coordinator.StatInput{PlayerID: pid, Raw: l.StatEntry.Raw()})
		}
		if err := c.RecordGameStats(ctx, id, inputs); err != nil {
			return fmt.Errorf("import game %d lines: %w", g.ID, err)
		}
	}
	return nil
}
