package prompt

import (
	"fmt"

	"github.com/bryanwahyu/textlens/internal/domain/analysis"
)

const analysisTemplate = `You are an expert writing assistant with deep knowledge of literary analysis and editing.
Your task is to carefully examine the given text and identify the %s.

Guidelines for your response:
- Provide a clear, insightful analysis in only 1-2 lines.
- Keep your response concise, objective, and comprehensive.
- Do not include unnecessary details, disclaimers, or formatting beyond plain text.

Here is the text to analyze:
%s`

// Analysis builds the instruction for one area. The text is embedded verbatim.
func Analysis(text string, area analysis.Area) string {
	return fmt.Sprintf(analysisTemplate, area, text)
}
