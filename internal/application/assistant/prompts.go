package assistant

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/turtacn/H2Siting/internal/domain/chat"
	"github.com/turtacn/H2Siting/internal/infrastructure/search/searxng"
)

const (
	maxSearchResults   = 5
	snippetLength      = 200
	noResultsText      = "No relevant search results were found."
	summaryInputLength = 4000
)

const subqueryTemplate = `Based on the following user query, generate a list of 3-5 concise search queries to find relevant information. Respond with a JSON array of strings only. User query: {{.}}`

const finalTemplate = `You are a helpful assistant. You have access to the following search results:

{{.SearchResults}}

Based on this information and the following conversation history, answer the user's latest query. Conversation History: {{history .History}}
User's latest query: {{.Query}}`

const reportTemplate = `Generate a comprehensive green hydrogen production feasibility report based on the following analysis:

Location: {{.Location}}
Overall Feasibility: {{.Feasibility}}
Recommended Technology: {{.RecommendedTechnology}}

Suitability Scores:
- Solar Electrolysis: {{.SuitabilityScores.SolarElectrolysis}}
- Wind Electrolysis: {{.SuitabilityScores.WindElectrolysis}}
- Thermal with CCS: {{.SuitabilityScores.ThermalWithCCS}}

Regional Advantages:
{{bullets .RegionalAdvantages}}

Please provide a detailed analysis including:
1. Executive summary with key findings
2. Detailed technology comparison and recommendations
3. Economic viability assessment with potential ROI
4. Infrastructure requirements and estimated costs
5. Environmental impact analysis
6. Implementation timeline (short, medium, long-term)
7. Risk assessment and mitigation strategies
8. Specific recommendations for this location

Format the response using markdown with clear section headings.`

const questionTemplate = `
        Based on the previous hydrogen production feasibility analysis for {{or .Location "this location"}}:
        - Overall Feasibility: {{or .Feasibility "N/A"}}
        - Recommended Technology: {{or .RecommendedTechnology "N/A"}}
        - Regional Advantages: {{join .RegionalAdvantages ", "}}
        
        Please answer the following question: {{.Question}}
        `

const summaryTemplate = `
        Summarize this conversation about hydrogen production feasibility analysis.
        Focus on key decisions, questions asked, and recommendations made.
        Keep the summary under 200 words.
        
        Conversation:
        {{.}}  # Limit input length
        `

var funcMap = template.FuncMap{
	"join": strings.Join,
	"bullets": func(items []string) string {
		lines := make([]string, len(items))
		for i, it := range items {
			lines[i] = "- " + it
		}
		return strings.Join(lines, "\n")
	},
	"history": func(turns []chat.Turn) string {
		parts := make([]string, len(turns))
		for i, t := range turns {
			parts[i] = fmt.Sprintf("%s: %s", t.Role, t.Content)
		}
		return strings.Join(parts, " ")
	},
}

var (
	subqueryPrompt = template.Must(template.New("subquery").Funcs(funcMap).Parse(subqueryTemplate))
	finalPrompt    = template.Must(template.New("final").Funcs(funcMap).Parse(finalTemplate))
	reportPrompt   = template.Must(template.New("report").Funcs(funcMap).Parse(reportTemplate))
	questionPrompt = template.Must(template.New("question").Funcs(funcMap).Parse(questionTemplate))
	summaryPrompt  = template.Must(template.New("summary").Funcs(funcMap).Parse(summaryTemplate))
)

func render(t *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("assistant: render %s: %v", t.Name(), err))
	}
	return buf.String()
}

type finalData struct {
	SearchResults string
	History       []chat.Turn
	Query         string
}

type questionData struct {
	ReportData
	Question string
}

// formatResults renders the first results for the final prompt.
func formatResults(results []searxng.Result) string {
	if len(results) == 0 {
		return noResultsText
	}
	var sb strings.Builder
	sb.WriteString("Search Results:\n\n")
	for i, r := range results {
		if i == maxSearchResults {
			break
		}
		fmt.Fprintf(&sb, "Result %d: Title: %s\nURL: %s\nContent: %s...\n\n", i+1, r.Title, r.URL, headRunes(r.Content, snippetLength))
	}
	return sb.String()
}

// formatConversation renders messages as "Role: content" lines for summarising.
func formatConversation(msgs []*chat.Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = capitalize(string(m.Role)) + ": " + headRunes(m.Content, snippetLength)
	}
	return headRunes(strings.Join(lines, "\n"), summaryInputLength)
}

func headRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

//Personal.AI order the ending
