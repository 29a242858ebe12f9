package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/aggregator"
	"github.com/pable/go-hoops-stats/internal/guard"
	"github.com/pable/go-hoops-stats/internal/model"
)

const analyzeSystemPrompt = `You are a basketball performance analyst. You are given structured box-score
data for one player from a stats tool and a question from a coach or the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on what the player can actually improve.
- Avoid generic basketball advice unless it directly explains a pattern in the data.

Stat glossary:
- MIN: minutes played. PTS: points.
- FGM/FGA: field goals made/attempted. threePM/threePA: three-pointers. FTM/FTA: free throws.
- OREB/DREB: offensive/defensive rebounds; REB is their sum.
- AST: assists. STL: steals. BLK: blocks. TOV: turnovers. PF: personal fouls.
- "info" strings carry the game label (GAME), result (GR) and game type (GT).
- averages are per game over the games in "history", rounded to one decimal.
- shooting percentages are derived from the averaged made/attempted pairs.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeLast   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <player-id> <question>",
	Short: "AI-powered grounded analysis of a player (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().IntVar(&analyzeLast, "last", 0, "only use the N most recent games")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := guard.CheckPlayer(cmd.Context(), a.Store().Players, args[0])
	if err != nil {
		return fmt.Errorf("find player %q: %w", args[0], err)
	}
	p, err := a.Player(id)
	if err != nil {
		return err
	}
	history := p.Stats
	if analyzeLast > 0 && len(history) > analyzeLast {
		history = history[len(history)-analyzeLast:]
	}
	if len(history) == 0 {
		return fmt.Errorf("no games recorded for player %d", id)
	}

	contextJSON, err := buildPlayerContext(p, history, gameIndex(a))
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = cfg.AnthropicKey
	}
	return callAnthropic(cmd.Context(), os.Stdout, apiKey, analysisRequest(analyzeModel, contextJSON, args[1]))
}

// buildPlayerContext serialises a player's history, averages and shooting into compact JSON.
func buildPlayerContext(p model.Player, history []model.StatEntry, games map[int64]model.Game) (string, error) {
	type gameEntry struct {
		Game   string          `json:"game"`
		Date   string          `json:"date,omitempty"`
		Result string          `json:"result,omitempty"`
		Line   model.StatEntry `json:"line"`
	}
	entries := make([]gameEntry, 0, len(history))
	for _, s := range history {
		g := games[s.GameID]
		entries = append(entries, gameEntry{Game: g.Name, Date: g.Date, Result: g.Result, Line: s})
	}

	avg := aggregator.Average(history)
	doc := map[string]any{
		"subject":      "player",
		"player":       p.Name,
		"position":     p.Position,
		"games_played": avg.GamesPlayed,
		"averages":     avg,
		"shooting":     aggregator.ShootingOf(avg.Values),
		"history":      entries,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// analysisRequest builds the grounded question: the system prompt plus the data and the
// question in one user turn.
func analysisRequest(modelID, dataJSON, question string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: analyzeSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question))),
		},
	}
}

// callAnthropic streams the answer to params into w.
func callAnthropic(ctx context.Context, w io.Writer, apiKey string, params anthropic.MessageNewParams) error {
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	fmt.Fprintf(w, "\n─── Analysis (%s) ───\n", params.Model)
	stream := client.Messages.NewStreaming(ctx, params)
	defer stream.Close()
	for stream.Next() {
		evt := stream.Current()
		if evt.Type != "content_block_delta" {
			continue
		}
		if delta := evt.AsContentBlockDelta(); delta.Delta.Type == "text_delta" {
			fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
		}
	}
	fmt.Fprintln(w)

	if err := stream.Err(); err != nil {
		if strings.Contains(err.Error(), "401") {
			return fmt.Errorf("analyze: authentication failed, check the API key: %w", err)
		}
		return fmt.Errorf("analyze: stream: %w", err)
	}
	return nil
}
