package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/coordinator"
	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/report"
)

var recordCmd = &cobra.Command{
	Use:   "record <game-id> <file.json|->",
	Short: "Record a game's box score from a JSON file",
	Long: `Record per-player stat lines for a game. The file holds a JSON array of lines,
each carrying the player's id and any stat fields:

  [{"playerId": 1, "MIN": 36, "FGM": 9, "FGA": 17, "PTS": 24}, ...]

Recording a game again replaces its lines, its team totals and the matching entries in
every player's history. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	gameID, err := parseID("game", args[0])
	if err != nil {
		return err
	}
	inputs, err := readStatFile(args[1])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RecordGameStats(cmd.Context(), gameID, inputs); err != nil {
		return fmt.Errorf("record game %d: %w", gameID, err)
	}
	g, err := a.Game(gameID)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Recorded %d line(s) for game %d\n", len(inputs), gameID)
	report.PrintGameSummary(os.Stdout, g)
	report.PrintBoxScore(os.Stdout, g, playerNames(a))
	return nil
}

// readStatFile decodes a JSON array of stat lines from path, or stdin for "-".
func readStatFile(path string) ([]coordinator.StatInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return statInputs(data)
}

func statInputs(data []byte) ([]coordinator.StatInput, error) {
	lines, err := model.DecodeLines(data)
	if err != nil {
		return nil, err
	}
	ids, err := model.TakePlayerIDs(lines)
	if err != nil {
		return nil, err
	}
	inputs := make([]coordinator.StatInput, len(lines))
	for i, raw := range lines {
		inputs[i] = coordinator.StatInput{PlayerID: ids[i], Raw: raw}
	}
	return inputs, nil
}
