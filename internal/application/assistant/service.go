// Package assistant provides the LLM-backed question answering service:
// web-search augmented responses, feasibility reports, follow-up questions
// and conversation summaries.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/H2Siting/internal/application/events"
	"github.com/turtacn/H2Siting/internal/application/history"
	"github.com/turtacn/H2Siting/internal/domain/chat"
	"github.com/turtacn/H2Siting/internal/infrastructure/llm/openrouter"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/internal/infrastructure/search/searxng"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// StatusSuccess is the status reported with every completed request.
const StatusSuccess = "success"

const defaultSearchConcurrency = 5

var arrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

// Service defines the interface for assistant operations.
type Service interface {
	// Respond answers the last turn, optionally grounding it in web search.
	// LLM failures degrade to an apology string rather than an error.
	Respond(ctx context.Context, turns []chat.Turn, websearch bool) (string, error)
	GenerateReport(ctx context.Context, data *ReportData) (*ReportResult, error)
	AskQuestion(ctx context.Context, input *QuestionInput) (*AnswerResult, error)
	Chat(ctx context.Context, input *ChatInput) (*ChatResult, error)
	// Summarize returns nil for short or unreadable conversations.
	Summarize(ctx context.Context, sessionID int64) *string
}

// Scalar is a JSON string or number kept in its literal form, so that
// "82%" and 82 both reach the prompt as written.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	*s = Scalar(b)
	return nil
}

// SuitabilityScores are the per-technology scores shown in a report.
type SuitabilityScores struct {
	SolarElectrolysis Scalar `json:"solar_electrolysis"`
	WindElectrolysis  Scalar `json:"wind_electrolysis"`
	ThermalWithCCS    Scalar `json:"thermal_with_ccs"`
}

// ReportData is an analysis result as the front end submits it.
type ReportData struct {
	Location              string             `json:"location"`
	Latitude              *float64           `json:"latitude,omitempty"`
	Longitude             *float64           `json:"longitude,omitempty"`
	Feasibility           Scalar             `json:"feasibility"`
	RecommendedTechnology string             `json:"recommended_technology"`
	SuitabilityScores     *SuitabilityScores `json:"suitability_scores"`
	RegionalAdvantages    []string           `json:"regional_advantages"`
	SessionID             *int64             `json:"session_id,omitempty"`
}

func (d *ReportData) validate() error {
	missing := ""
	switch {
	case d == nil:
		missing = "location"
	case d.Location == "":
		missing = "location"
	case d.Feasibility == "":
		missing = "feasibility"
	case d.RecommendedTechnology == "":
		missing = "recommended_technology"
	case d.SuitabilityScores == nil:
		missing = "suitability_scores"
	case d.RegionalAdvantages == nil:
		missing = "regional_advantages"
	}
	if missing != "" {
		return errors.New(errors.ErrCodeReportIncomplete, "missing report field: "+missing)
	}
	return nil
}

// ReportResult is the outcome of GenerateReport.
type ReportResult struct {
	Status    string `json:"status"`
	Report    string `json:"report"`
	SessionID *int64 `json:"session_id"`
}

// QuestionInput is a follow-up question about a report.
type QuestionInput struct {
	Question   string      `json:"question"`
	ReportData *ReportData `json:"report_data"`
	SessionID  *int64      `json:"session_id"`
}

// AnswerResult is the outcome of AskQuestion.
type AnswerResult struct {
	Status    string `json:"status"`
	Answer    string `json:"answer"`
	SessionID *int64 `json:"session_id"`
}

// ChatInput is a free-form conversation turn.
type ChatInput struct {
	Messages  []chat.Turn `json:"messages"`
	Websearch bool        `json:"websearch"`
	SessionID *int64      `json:"session_id"`
}

// ChatResult is the outcome of Chat.
type ChatResult struct {
	Status    string `json:"status"`
	Response  string `json:"response"`
	SessionID *int64 `json:"session_id"`
}

// LLM completes a single user prompt.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ReportArchiver keeps a copy of each generated report.
type ReportArchiver interface {
	Archive(ctx context.Context, sessionID int64, markdown string) (string, error)
}

// Dependencies groups the collaborators of the assistant service. Search,
// Archive and Publisher are optional.
type Dependencies struct {
	LLM               LLM
	Search            searxng.Searcher
	History           history.Service
	Archive           ReportArchiver
	Publisher         events.Publisher
	SearchConcurrency int
}

type serviceImpl struct {
	llm         LLM
	search      searxng.Searcher
	history     history.Service
	archive     ReportArchiver
	publisher   events.Publisher
	concurrency int
	logger      logging.Logger
}

// NewService creates a new assistant service.
func NewService(deps Dependencies, logger logging.Logger) Service {
	s := &serviceImpl{
		llm:         deps.LLM,
		search:      deps.Search,
		history:     deps.History,
		archive:     deps.Archive,
		publisher:   deps.Publisher,
		concurrency: deps.SearchConcurrency,
		logger:      logger,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultSearchConcurrency
	}
	return s
}

func (s *serviceImpl) Respond(ctx context.Context, turns []chat.Turn, websearch bool) (string, error) {
	if len(turns) == 0 {
		return "", errors.InvalidParam("at least one message is required")
	}
	query := turns[len(turns)-1].Content

	results := ""
	if websearch {
		subqueries, err := s.subqueries(ctx, query)
		if err != nil {
			return "", err
		}
		results = formatResults(s.searchAll(ctx, subqueries))
	}

	prompt := render(finalPrompt, finalData{SearchResults: results, History: turns, Query: query})
	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, openrouter.ErrMissingAPIKey) {
			return "", unexpected(err)
		}
		s.logger.Error("final response failed", logging.Err(err))
		return fmt.Sprintf("Oops, I ran into a problem generating the final response: %s", describe(err)), nil
	}
	return answer, nil
}

// subqueries asks the model for search queries, falling back to the query
// itself when the reply holds no JSON array of strings.
func (s *serviceImpl) subqueries(ctx context.Context, query string) ([]string, error) {
	reply, err := s.llm.Complete(ctx, render(subqueryPrompt, query))
	if err != nil {
		if errors.Is(err, openrouter.ErrMissingAPIKey) {
			return nil, unexpected(err)
		}
		s.logger.Warn("failed to generate subqueries", logging.Err(err))
		return []string{query}, nil
	}
	match := arrayPattern.FindString(reply)
	if match == "" {
		return []string{query}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(match), &out); err != nil {
		s.logger.Warn("subquery reply is not a string array", logging.Err(err))
		return []string{query}, nil
	}
	return out, nil
}

// searchAll runs every query concurrently and concatenates the results in
// query order. A failed query contributes nothing.
func (s *serviceImpl) searchAll(ctx context.Context, queries []string) []searxng.Result {
	if s.search == nil || len(queries) == 0 {
		return nil
	}
	perQuery := make([][]searxng.Result, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			res, err := s.search.Search(gctx, q)
			if err != nil {
				s.logger.Warn("couldn't fetch results from SearXNG", logging.String("query", q), logging.Err(err))
				return nil
			}
			perQuery[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var all []searxng.Result
	for _, res := range perQuery {
		all = append(all, res...)
	}
	return all
}

func (s *serviceImpl) GenerateReport(ctx context.Context, data *ReportData) (*ReportResult, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	prompt := render(reportPrompt, data)
	report, err := s.Respond(ctx, []chat.Turn{{Role: chat.RoleUser, Content: prompt}}, true)
	if err != nil {
		return nil, err
	}

	feasibility := chat.ParseFeasibility(string(data.Feasibility))
	tech := data.RecommendedTechnology
	sessionID := s.history.SaveSession(ctx, &history.SessionData{
		SessionID:             data.SessionID,
		Location:              data.Location,
		Latitude:              data.Latitude,
		Longitude:             data.Longitude,
		Feasibility:           feasibility,
		RecommendedTechnology: &tech,
	})
	if sessionID != nil {
		s.history.SaveMessage(ctx, *sessionID, chat.RoleUser, prompt, false)
		s.history.SaveMessage(ctx, *sessionID, chat.RoleAssistant, report, true)
		s.announceReport(ctx, *sessionID, data, feasibility, report)
	}

	return &ReportResult{Status: StatusSuccess, Report: report, SessionID: sessionID}, nil
}

func (s *serviceImpl) announceReport(ctx context.Context, sessionID int64, data *ReportData, feasibility *float64, report string) {
	key := ""
	if s.archive != nil {
		var err error
		if key, err = s.archive.Archive(ctx, sessionID, report); err != nil {
			s.logger.Warn("failed to archive report", logging.Int64("session_id", sessionID), logging.Err(err))
		}
	}
	evt := events.NewReportGeneratedEvent(sessionID, data.Location, feasibility, data.RecommendedTechnology, key)
	if err := s.publisher.PublishEvent(ctx, evt); err != nil {
		s.logger.Warn("failed to publish report event", logging.Int64("session_id", sessionID), logging.Err(err))
	}
}

func (s *serviceImpl) AskQuestion(ctx context.Context, input *QuestionInput) (*AnswerResult, error) {
	if input == nil || input.Question == "" {
		return nil, errors.InvalidParam("missing field: question")
	}
	data := questionData{Question: input.Question}
	if input.ReportData != nil {
		data.ReportData = *input.ReportData
	}
	answer, err := s.Respond(ctx, []chat.Turn{{Role: chat.RoleUser, Content: render(questionPrompt, data)}}, true)
	if err != nil {
		return nil, err
	}
	if id := input.SessionID; id != nil && *id != 0 {
		s.history.SaveMessage(ctx, *id, chat.RoleUser, input.Question, false)
		s.history.SaveMessage(ctx, *id, chat.RoleAssistant, answer, false)
	}
	return &AnswerResult{Status: StatusSuccess, Answer: answer, SessionID: input.SessionID}, nil
}

// Chat answers free-form messages. With a session, recent stored turns and a
// summary of long conversations are placed ahead of the new messages.
func (s *serviceImpl) Chat(ctx context.Context, input *ChatInput) (*ChatResult, error) {
	if input == nil || len(input.Messages) == 0 {
		return nil, errors.InvalidParam("at least one message is required")
	}
	turns := input.Messages
	id := input.SessionID
	if id != nil && *id != 0 {
		var prior []chat.Turn
		if summary := s.Summarize(ctx, *id); summary != nil {
			prior = append(prior, chat.Turn{Role: chat.RoleSystem, Content: "Conversation summary: " + *summary})
		}
		prior = append(prior, s.history.RecentHistory(ctx, *id, chat.DefaultHistoryWindow)...)
		turns = append(prior, turns...)
	}

	answer, err := s.Respond(ctx, turns, input.Websearch)
	if err != nil {
		return nil, err
	}
	if id != nil && *id != 0 {
		s.history.SaveMessage(ctx, *id, chat.RoleUser, input.Messages[len(input.Messages)-1].Content, false)
		s.history.SaveMessage(ctx, *id, chat.RoleAssistant, answer, false)
	}
	return &ChatResult{Status: StatusSuccess, Response: answer, SessionID: id}, nil
}

func (s *serviceImpl) Summarize(ctx context.Context, sessionID int64) *string {
	msgs := s.history.Messages(ctx, sessionID)
	if len(msgs) <= chat.SummaryThreshold {
		return nil
	}
	prompt := render(summaryPrompt, formatConversation(msgs))
	summary, err := s.Respond(ctx, []chat.Turn{{Role: chat.RoleUser, Content: prompt}}, false)
	if err != nil {
		s.logger.Warn("error summarizing conversation", logging.Int64("session_id", sessionID), logging.Err(err))
		return nil
	}
	return &summary
}

// unexpected reports a failure that stops the request entirely.
func unexpected(err error) *errors.AppError {
	return errors.New(errors.ErrCodeLLMFailed, "An unexpected error occurred: "+describe(err)).WithCause(err)
}

// describe renders err without the code prefix AppError.Error adds.
func describe(err error) string {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		return err.Error()
	}
	msg := ae.Message
	if ae.Detail != "" {
		msg += ": " + ae.Detail
	}
	if ae.Cause != nil {
		msg += ": " + describe(ae.Cause)
	}
	return msg
}

//Personal.AI order the ending
