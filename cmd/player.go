package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-hoops-stats/internal/guard"
	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/report"
	"github.com/pable/go-hoops-stats/internal/store"
)

// player attribute flags, shared by add and update.
var playerFlags struct {
	name, number, position, height, weight, birthdate string
}

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage the roster and inspect player histories",
}

var playerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a player to the roster",
	Args:  cobra.NoArgs,
	RunE:  runPlayerAdd,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the roster with per-game averages",
	Args:  cobra.NoArgs,
	RunE:  runPlayerList,
}

var playerShowCmd = &cobra.Command{
	Use:   "show <player-id>",
	Short: "Show a player's game history and averages",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerShow,
}

var playerUpdateCmd = &cobra.Command{
	Use:   "update <player-id>",
	Short: "Change a player's roster attributes",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerUpdate,
}

var playerRemoveCmd = &cobra.Command{
	Use:   "remove <player-id>",
	Short: "Remove a player and their lines from every game",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerRemove,
}

func init() {
	for _, c := range []*cobra.Command{playerAddCmd, playerUpdateCmd} {
		addPlayerFlags(c.Flags())
	}
	playerCmd.AddCommand(playerAddCmd, playerListCmd, playerShowCmd, playerUpdateCmd, playerRemoveCmd)
}

func addPlayerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&playerFlags.name, "name", "", "player name")
	fs.StringVar(&playerFlags.number, "number", "", "jersey number")
	fs.StringVar(&playerFlags.position, "position", "", "position (PG, SG, SF, PF, C)")
	fs.StringVar(&playerFlags.height, "height", "", "height")
	fs.StringVar(&playerFlags.weight, "weight", "", "weight")
	fs.StringVar(&playerFlags.birthdate, "birthdate", "", "birthdate (YYYY-MM-DD)")
}

func runPlayerAdd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.AddPlayer(cmd.Context(), model.Player{
		Name:      playerFlags.name,
		Number:    playerFlags.number,
		Position:  playerFlags.position,
		Height:    playerFlags.height,
		Weight:    playerFlags.weight,
		Birthdate: playerFlags.birthdate,
	})
	if err != nil {
		return fmt.Errorf("add player: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Added player %d: %s\n", id, playerFlags.name)
	return nil
}

func runPlayerList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	players := a.Players()
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players yet. Run 'hoopstats player add --name <name>' to add one.")
		return nil
	}
	report.PrintRoster(os.Stdout, players)
	return nil
}

func runPlayerShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := guard.CheckPlayer(cmd.Context(), a.Store().Players, args[0])
	if err != nil {
		if store.IsNotFound(err) {
			return fmt.Errorf("player %q not found; run 'hoopstats player list'", args[0])
		}
		return err
	}
	p, err := a.Player(id)
	if err != nil {
		return err
	}
	avg, err := a.PlayerAverage(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nPlayer %d: %s", p.ID, p.Name)
	if p.Number != "" {
		fmt.Fprintf(os.Stdout, "  #%s", p.Number)
	}
	if p.Position != "" {
		fmt.Fprintf(os.Stdout, "  %s", p.Position)
	}
	fmt.Fprint(os.Stdout, "\n\n")
	report.PrintHistory(os.Stdout, p, gameIndex(a))
	fmt.Fprintln(os.Stdout)
	report.PrintAverages(os.Stdout, avg)
	return nil
}

func runPlayerUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID("player", args[0])
	if err != nil {
		return err
	}
	patch := model.PlayerPatch{}
	fs := cmd.Flags()
	setIfChanged(fs, "name", &patch.Name, playerFlags.name)
	setIfChanged(fs, "number", &patch.Number, playerFlags.number)
	setIfChanged(fs, "position", &patch.Position, playerFlags.position)
	setIfChanged(fs, "height", &patch.Height, playerFlags.height)
	setIfChanged(fs, "weight", &patch.Weight, playerFlags.weight)
	setIfChanged(fs, "birthdate", &patch.Birthdate, playerFlags.birthdate)
	if patch.Empty() {
		return fmt.Errorf("nothing to update: pass at least one attribute flag")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.UpdatePlayer(cmd.Context(), id, patch); err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Updated player %d\n", id)
	return nil
}

func runPlayerRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID("player", args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.RemovePlayer(cmd.Context(), id); err != nil {
		return fmt.Errorf("remove player: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Removed player %d\n", id)
	return nil
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}

func setIfChanged(fs *pflag.FlagSet, name string, dst **string, val string) {
	if fs.Changed(name) {
		v := val
		*dst = &v
	}
}
