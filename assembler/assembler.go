// Package assembler turns retrieved passages into the context block that
// the answer prompt embeds.
package assembler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/snowretail/cortex-assistant/common/logger"
	"github.com/snowretail/cortex-assistant/schema"
)

// NoContextSentinel is the exact context block used when retrieval returns
// nothing. Downstream prompt text tells the model to fall back to general
// knowledge when it sees this value.
const NoContextSentinel = "No relevant documents were found."

// passageSeparator keeps individual passages visually distinct inside the
// prompt without resembling document content.
const passageSeparator = "\n\n---\n\n"

// Assembler formats passages into a single context block, trimming from the
// tail when the block would exceed the token budget.
type Assembler struct {
	MaxTokens int
	Encoding  string

	once sync.Once
	enc  *tiktoken.Tiktoken
}

func New(maxTokens int, encoding string) *Assembler {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &Assembler{MaxTokens: maxTokens, Encoding: encoding}
}

// Assemble renders passages into one block and reports which passages made
// it in. Empty input yields the sentinel and no passages.
func (a *Assembler) Assemble(passages []schema.Passage) (string, []schema.Passage) {
	if len(passages) == 0 {
		return NoContextSentinel, nil
	}
	blocks := make([]string, 0, len(passages))
	used := make([]schema.Passage, 0, len(passages))
	total := 0
	for _, p := range passages {
		block := formatPassage(p)
		cost := a.countTokens(block)
		if a.MaxTokens > 0 && len(used) > 0 && total+cost > a.MaxTokens {
			logger.Debugf("context budget reached, dropping %d of %d passages", len(passages)-len(used), len(passages))
			break
		}
		blocks = append(blocks, block)
		used = append(used, p)
		total += cost
	}
	return strings.Join(blocks, passageSeparator), used
}

func formatPassage(p schema.Passage) string {
	return fmt.Sprintf("Title: %s\nType: %s\nDepartment: %s\nContent: %s",
		p.Title, p.DocumentType, p.Department, p.Content)
}

func (a *Assembler) countTokens(text string) int {
	a.once.Do(func() {
		enc, err := tiktoken.GetEncoding(a.Encoding)
		if err != nil {
			logger.Warnf("token encoding %q unavailable, using byte estimate: %v", a.Encoding, err)
			return
		}
		a.enc = enc
	})
	if a.enc != nil {
		return len(a.enc.Encode(text, nil, nil))
	}
	// rough estimate when the encoding files cannot be loaded
	return len([]rune(text)) / 4
}
