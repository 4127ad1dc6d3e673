package pipeline

import (
	"encoding/json"
	"strings"
)

const routerSystemPrompt = "You are a routing classifier for a search system.\n" +
	"Decide whether the question requires live or recent web information.\n" +
	"\n" +
	"Return ONLY one word:\n" +
	"- web: if up-to-date, rankings, news, prices, comparisons, or real-world info is needed\n" +
	"- direct: if it can be answered from general knowledge\n" +
	"\n" +
	"No explanations. No punctuation."

const directSystemPrompt = "Give a clear, correct, brief answer.\n" +
	"If unsure, say so."

const summarizerSystemPrompt = "You are a helpful assistant that writes short, accurate summaries.\n" +
	"Guidelines:\n" +
	"- Be factual and neutral; avoid marketing language.\n" +
	"- 5-8 sentences; no lists unless absolutely necessary.\n" +
	"- Do NOT invent facts; ONLY summarize the provided text.\n" +
	"- Keep it readable for beginners."

const composerSystemPrompt = "Concisely answer questions using the provided page summaries.\n" +
	"Rules:\n" +
	"- Be accurate and neutral.\n" +
	"- 5-8 sentences at most (if possible).\n" +
	"- Use only the provided summaries; do not invent new facts."

func buildSummarizeUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Summarize the following content in simple language.\n")
	b.WriteString("Focus on key facts and drop everything unnecessary.\n")
	b.WriteString("TEXT:\n")
	b.WriteString(text)
	return b.String()
}

func buildComposeUserPrompt(query string, summaries []PageSummary) string {
	serialized, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		// Summaries are plain strings; this cannot realistically fail.
		serialized = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\nSummaries:\n")
	b.Write(serialized)
	return b.String()
}
