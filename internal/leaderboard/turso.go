package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vovakirdan/retro-snake/internal/config"
)

// TursoClient talks to a libSQL database over its HTTP execute endpoint.
type TursoClient struct {
	url    string
	token  string
	limit  int
	client *http.Client
}

// NewTursoClient creates a client from the leaderboard config.
// Returns ErrNotConfigured when no URL is set.
func NewTursoClient(cfg config.LeaderboardConfig) (*TursoClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNotConfigured
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &TursoClient{
		url:    strings.TrimRight(cfg.URL, "/"),
		token:  cfg.Token,
		limit:  limit,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type statement struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params,omitempty"`
}

type executeRequest struct {
	Statements []statement `json:"statements"`
}

type executeResult struct {
	Columns  []string          `json:"columns"`
	Rows     []json.RawMessage `json:"rows"`
	RowCount int               `json:"rowCount"`
}

type executeResponse struct {
	Results []executeResult `json:"results"`
	Error   string          `json:"error"`
}

// FetchTopScores reads the best scores from the remote table.
func (c *TursoClient) FetchTopScores(ctx context.Context) ([]Entry, error) {
	resp, err := c.execute(ctx, statement{
		SQL: "SELECT name, score FROM highscores ORDER BY score DESC LIMIT " + strconv.Itoa(c.limit),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	res := resp.Results[0]
	entries := make([]Entry, 0, len(res.Rows))
	for i, raw := range res.Rows {
		e, err := decodeRow(raw, res.Columns)
		if err != nil {
			return nil, fmt.Errorf("leaderboard: row %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SubmitScore inserts a score into the remote table.
func (c *TursoClient) SubmitScore(ctx context.Context, name string, score int) (bool, error) {
	resp, err := c.execute(ctx, statement{
		SQL:    "INSERT INTO highscores (name, score) VALUES (?, ?)",
		Params: []any{name, score},
	})
	if err != nil {
		return false, err
	}
	return len(resp.Results) > 0 && resp.Results[0].RowCount > 0, nil
}

func (c *TursoClient) execute(ctx context.Context, stmts ...statement) (*executeResponse, error) {
	body, err := json.Marshal(executeRequest{Statements: stmts})
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("leaderboard: remote returned %s: %s", httpResp.Status, strings.TrimSpace(string(msg)))
	}

	var resp executeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("leaderboard: cannot decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("leaderboard: remote error: %s", resp.Error)
	}
	return &resp, nil
}

// decodeRow accepts rows as objects keyed by column or as positional arrays.
func decodeRow(raw json.RawMessage, columns []string) (Entry, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return entryFrom(obj["name"], obj["score"])
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return Entry{}, fmt.Errorf("unexpected row %s", raw)
	}
	nameIdx, scoreIdx := 0, 1
	for i, col := range columns {
		switch col {
		case "name":
			nameIdx = i
		case "score":
			scoreIdx = i
		}
	}
	if nameIdx >= len(arr) || scoreIdx >= len(arr) {
		return Entry{}, fmt.Errorf("short row %s", raw)
	}
	return entryFrom(arr[nameIdx], arr[scoreIdx])
}

func entryFrom(nameRaw, scoreRaw json.RawMessage) (Entry, error) {
	name, err := scalar(nameRaw)
	if err != nil {
		return Entry{}, fmt.Errorf("name: %w", err)
	}
	s, err := scalar(scoreRaw)
	if err != nil {
		return Entry{}, fmt.Errorf("score: %w", err)
	}
	score, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("score %q: %w", s, err)
	}
	return Entry{Name: name, Score: int(score)}, nil
}

// scalar unwraps plain JSON values and typed {"type","value"} cells.
func scalar(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var typed struct {
		Value json.RawMessage `json:"value"`
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &typed); err != nil {
			return "", err
		}
		return scalar(typed.Value)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("unexpected value %s", raw)
	}
	return n.String(), nil
}
