package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/report"
)

var gameFlags struct {
	name, date, kind, result string
}

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Manage games and inspect box scores",
}

var gameAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a game with no recorded stats",
	Args:  cobra.NoArgs,
	RunE:  runGameAdd,
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all games",
	Args:  cobra.NoArgs,
	RunE:  runGameList,
}

var gameShowCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show a game's box score",
	Args:  cobra.ExactArgs(1),
	RunE:  runGameShow,
}

var gameUpdateCmd = &cobra.Command{
	Use:   "update <game-id>",
	Short: "Change a game's name, date, type or result",
	Args:  cobra.ExactArgs(1),
	RunE:  runGameUpdate,
}

var gameRemoveCmd = &cobra.Command{
	Use:   "remove <game-id>",
	Short: "Remove a game and its entries from player histories",
	Args:  cobra.ExactArgs(1),
	RunE:  runGameRemove,
}

var gameRecomputeCmd = &cobra.Command{
	Use:   "recompute <game-id>",
	Short: "Rebuild a game's team totals from its player lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runGameRecompute,
}

func init() {
	for _, c := range []*cobra.Command{gameAddCmd, gameUpdateCmd} {
		addGameFlags(c.Flags())
	}
	gameCmd.AddCommand(gameAddCmd, gameListCmd, gameShowCmd, gameUpdateCmd, gameRemoveCmd, gameRecomputeCmd)
}

func addGameFlags(fs *pflag.FlagSet) {
	fs.StringVar(&gameFlags.name, "name", "", "game label, e.g. \"vs Clippers\"")
	fs.StringVar(&gameFlags.date, "date", "", "game date (YYYY-MM-DD)")
	fs.StringVar(&gameFlags.kind, "type", "", "game type, e.g. League or Friendly")
	fs.StringVar(&gameFlags.result, "result", "", "result, e.g. W 98-91")
}

func runGameAdd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.AddGame(cmd.Context(), model.Game{
		Name:   gameFlags.name,
		Date:   gameFlags.date,
		Type:   gameFlags.kind,
		Result: gameFlags.result,
	})
	if err != nil {
		return fmt.Errorf("add game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Added game %d: %s\n", id, gameFlags.name)
	return nil
}

func runGameList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	games := a.Games()
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games yet. Run 'hoopstats game add --name <label>' to add one.")
		return nil
	}
	report.PrintGames(os.Stdout, games)
	return nil
}

func runGameShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("game", args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.Game(id)
	if err != nil {
		return err
	}
	report.PrintGameSummary(os.Stdout, g)
	report.PrintBoxScore(os.Stdout, g, playerNames(a))
	return nil
}

func runGameUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID("game", args[0])
	if err != nil {
		return err
	}
	patch := model.GamePatch{}
	fs := cmd.Flags()
	setIfChanged(fs, "name", &patch.Name, gameFlags.name)
	setIfChanged(fs, "date", &patch.Date, gameFlags.date)
	setIfChanged(fs, "type", &patch.Type, gameFlags.kind)
	setIfChanged(fs, "result", &patch.Result, gameFlags.result)
	if patch.Empty() {
		return fmt.Errorf("nothing to update: pass at least one attribute flag")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.UpdateGame(cmd.Context(), id, patch); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Updated game %d\n", id)
	return nil
}

func runGameRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID("game", args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RemoveGame(cmd.Context(), id); err != nil {
		return fmt.Errorf("remove game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Removed game %d\n", id)
	return nil
}

func runGameRecompute(cmd *cobra.Command, args []string) error {
	id, err := parseID("game", args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	stale, err := a.RecomputeTeamStats(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("recompute game: %w", err)
	}
	if stale {
		fmt.Fprintf(os.Stdout, "Game %d: team totals rebuilt\n", id)
	} else {
		fmt.Fprintf(os.Stdout, "Game %d: team totals already match the player lines\n", id)
	}
	return nil
}
