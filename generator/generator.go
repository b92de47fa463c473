// Package generator builds the answer prompt and cleans the model output.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/snowretail/cortex-assistant/llm"
)

// DefaultPersona is used when neither config nor caller supplies one.
const DefaultPersona = "You are a helpful assistant for a retail company. Answer questions for employees using internal documentation."

// Generator produces the final assistant answer from an assembled context
// block and the user's question.
type Generator struct {
	Provider llm.Provider
	Persona  string
	Model    string
}

func New(provider llm.Provider, persona, model string) *Generator {
	if persona == "" {
		persona = DefaultPersona
	}
	return &Generator{Provider: provider, Persona: persona, Model: model}
}

// GenerateOptions override per-turn generation settings.
type GenerateOptions struct {
	Persona string
	Model   string
}

// Generate runs the completion for the given context block and question and
// returns the cleaned answer text.
func (g *Generator) Generate(ctx context.Context, contextBlock, question string, opts GenerateOptions) (string, error) {
	persona := g.Persona
	if opts.Persona != "" {
		persona = opts.Persona
	}
	model := g.Model
	if opts.Model != "" {
		model = opts.Model
	}
	prompt := BuildPrompt(persona, contextBlock, question)
	raw, err := g.Provider.GenerateCompletion(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	return CleanResponse(raw), nil
}

// BuildPrompt assembles the sections in a fixed order: persona, grounding
// instructions, retrieved context, question, and a closing reasoning cue.
// Single quotes in interpolated text are doubled so the prompt survives
// platforms that treat the whole prompt as a quoted literal.
func BuildPrompt(persona, contextBlock, question string) string {
	var b strings.Builder
	b.WriteString(escapeQuotes(persona))
	b.WriteString("\n\n")
	b.WriteString("Prioritize the provided context when answering. If the context does not contain enough information to answer, say so and direct the employee to contact their support desk instead of guessing. Respond as if speaking directly to the employee.")
	b.WriteString("\n\nContext:\n")
	b.WriteString(escapeQuotes(contextBlock))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(escapeQuotes(question))
	b.WriteString("\n\nThink through the answer step by step before responding.")
	return b.String()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// CleanResponse undoes the escaping layers a completion backend can leave
// on the raw text. The order matters: wrapping quotes first, then control
// sequences, then escaped quotes, and doubled backslashes last so earlier
// steps still see their backslash markers.
func CleanResponse(raw string) string {
	s := raw
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, "'")
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

// FormatSources renders the source list appended to an answer shown to the
// user, one title per line.
func FormatSources(titles []string) string {
	if len(titles) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Sources:")
	for _, t := range titles {
		b.WriteString(fmt.Sprintf("\n- %s", t))
	}
	return b.String()
}
