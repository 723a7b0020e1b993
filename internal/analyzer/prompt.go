package analyzer

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are LinkScope AI, an expert at analyzing web content and categorizing links.

Your role is to help users organize their digital discoveries by providing:
- Clear, actionable summaries that capture the essence and value of the content
- Relevant, searchable tags that make content easy to find later
- Context-aware analysis that considers the user's specific needs

You excel at:
- Identifying the core value proposition of websites and tools
- Categorizing content by topic, format, and use case
- Understanding different types of content (tutorials, tools, articles, videos, etc.)
- Creating tags that are specific enough to be useful but general enough to group related content

Always respond with valid JSON only, no markdown formatting or extra text.`

// BuildPrompt assembles the user instruction for one link. Context is only
// embedded when non-empty and the platform only when it is a known one.
func BuildPrompt(req Request) string {
	kind := "web"
	if req.Type == "video" {
		kind = "video"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s link: %s\n", kind, req.URL)
	if req.Context != "" {
		fmt.Fprintf(&b, "User context: %s\n", req.Context)
	}
	if req.Platform != "" && req.Platform != "other" {
		fmt.Fprintf(&b, "Platform: %s\n", req.Platform)
	}

	b.WriteString(`
Please provide a comprehensive analysis with:

1. **Summary**: A clear, concise one-sentence description of what this link contains or what value it provides
2. **Tags**: 3-5 relevant, searchable tags that would help categorize and find this link later

Guidelines:
- For videos: Focus on content type, topic, and key takeaways
- For articles/websites: Highlight the main subject, purpose, and target audience
- For tools/services: Describe functionality and use cases
- For social media: Capture the content theme and platform type
- Tags should be specific but not overly niche (e.g., "web-development", "productivity-tool", "react-tutorial")
- Avoid generic tags like "interesting" or "useful"
- Do not generate hyper-specific tags. Prefer broader, general tags (e.g., use 'recipe' instead of 'pancake-recipe').
- Consider the user's context if provided

Respond in this exact JSON format (no markdown formatting):
{
  "summary": "one-sentence-summary-here",
  "tags": ["tag1", "tag2", "tag3", "tag4"]
}`)

	return b.String()
}
