package claudecli

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"bookgraph/internal/ports"
)

// Assistant implements ports.Retranscriber using Claude Code CLI
type Assistant struct {
	model string
}

// Option configures the Assistant
type Option func(*Assistant)

// WithModel sets the Claude model to use
func WithModel(model string) Option {
	return func(a *Assistant) {
		a.model = model
	}
}

// NewAssistant creates a new Claude CLI assistant
func NewAssistant(opts ...Option) *Assistant {
	a := &Assistant{
		model: "haiku", // Default to haiku for speed
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ensure Assistant implements Retranscriber
var _ ports.Retranscriber = (*Assistant)(nil)

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	CostUSD      float64 `json:"cost_usd"`
	DurationMS   int     `json:"duration_ms"`
	DurationAPI  int     `json:"duration_api_ms"`
	IsError      bool    `json:"is_error"`
	NumTurns     int     `json:"num_turns"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// proposalJSON represents the expected JSON format from Claude's response
type proposalJSON struct {
	SectionID string `json:"sectionID"`
	Text      string `json:"text"`
	Reasoning string `json:"reasoning"`
}

// Retranscribe asks Claude to repair the OCR text of flagged sections
func (a *Assistant) Retranscribe(reqs []ports.RetranscribeRequest) ([]ports.RetranscribeResult, error) {
	prompt := buildRetranscribePrompt(reqs)

	// Call claude CLI with JSON output
	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", a.model,
	}

	cmd := exec.Command("claude", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("claude CLI error: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("claude CLI error: %w", err)
	}

	// Parse the claude CLI JSON response
	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse claude response: %w", err)
	}

	if response.IsError {
		return nil, fmt.Errorf("claude returned an error: %s", response.Result)
	}

	return parseProposals(response.Result)
}

func buildRetranscribePrompt(reqs []ports.RetranscribeRequest) string {
	var list strings.Builder
	for i, r := range reqs {
		list.WriteString(fmt.Sprintf("\n### Section %d: id %s (flagged: %s)\n", i+1, r.SectionID, r.Problem))
		if r.RawText != "" {
			list.WriteString(fmt.Sprintf("Current OCR text:\n%s\n", r.RawText))
		} else {
			list.WriteString("(No text recovered by OCR)\n")
		}
	}

	return fmt.Sprintf(`You are repairing OCR output from a scanned interactive gamebook.

These numbered sections were flagged by graph validation:
%s

For EACH section, propose a corrected transcription. Common OCR faults:
- letters misread as digits inside section references (I57 means 157, 2O3 means 203)
- "turn to" garbled as "tum to" or "tur n to"
- dropped line fragments leaving a section without its closing reference

Return ONLY a JSON array (no markdown, no code blocks):
[
  {"sectionID": "157", "text": "Corrected section text...", "reasoning": "Brief explanation"}
]`, list.String())
}

// parseProposals extracts the proposals JSON array from Claude's response
func parseProposals(result string) ([]ports.RetranscribeResult, error) {
	result = strings.TrimSpace(result)

	// Try to extract JSON from markdown code blocks if present
	codeBlockRe := regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")
	if matches := codeBlockRe.FindStringSubmatch(result); len(matches) > 1 {
		result = strings.TrimSpace(matches[1])
	}

	// Find JSON array in the text (handles surrounding text)
	jsonStartIdx := strings.Index(result, "[")
	jsonEndIdx := strings.LastIndex(result, "]")
	if jsonStartIdx == -1 || jsonEndIdx == -1 || jsonEndIdx <= jsonStartIdx {
		return nil, fmt.Errorf("no valid JSON array found in response")
	}

	jsonStr := result[jsonStartIdx : jsonEndIdx+1]

	var raws []proposalJSON
	if err := json.Unmarshal([]byte(jsonStr), &raws); err != nil {
		return nil, fmt.Errorf("failed to parse proposals JSON: %w (json: %s)", err, jsonStr)
	}

	// Convert to ports.RetranscribeResult, validate each has required fields
	var proposals []ports.RetranscribeResult
	for _, raw := range raws {
		if raw.SectionID == "" || raw.Text == "" {
			continue // Skip invalid entries
		}
		proposals = append(proposals, ports.RetranscribeResult{
			SectionID: raw.SectionID,
			Text:      raw.Text,
			Reasoning: raw.Reasoning,
		})
	}

	if len(proposals) == 0 {
		return nil, fmt.Errorf("no valid proposals found in response")
	}

	return proposals, nil
}

// IsAvailable checks if the claude CLI is installed and accessible
func (a *Assistant) IsAvailable() bool {
	_, err := exec.LookPath("claude")
	return err == nil
}
