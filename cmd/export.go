package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/model"
)

var exportOut string

// snapshot is the export file format. Player histories are carried for readers of the file;
// import rebuilds them from the game lines.
type snapshot struct {
	ExportedAt string         `json:"exportedAt"`
	Players    []model.Player `json:"players"`
	Games      []model.Game   `json:"games"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every player and game as a JSON snapshot",
	Long: `Write all players and games to a JSON snapshot. Paths ending in .zst are
zstd-compressed. The snapshot can be loaded into another backend with 'hoopstats import'.

Example:
  hoopstats export --out season.json.zst
  hoopstats --backend redis import season.json.zst`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := snapshot{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Players:    a.Players(),
		Games:      a.Games(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := writeSnapshot(exportOut, data); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d players, %d games)\n", exportOut, len(out.Players), len(out.Games))
	return nil
}

func writeSnapshot(path string, data []byte) error {
	if !strings.HasSuffix(path, ".zst") {
		return os.WriteFile(path, data, 0644)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

func readSnapshot(path string) (snapshot, error) {
	var snap snapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return snap, err
		}
		defer dec.Close()
		r = dec
	}
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
