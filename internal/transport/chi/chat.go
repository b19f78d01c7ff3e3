package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/event"
	"github.com/kailas-cloud/archsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
	agenticuc "github.com/kailas-cloud/archsearch/internal/usecase/agentic"
	traditionaluc "github.com/kailas-cloud/archsearch/internal/usecase/traditional"
)

type categoriesPayload struct {
	Categories []string `json:"categories"`
	Tier       string   `json:"tier"`
}

type filterPayload struct {
	Filter string `json:"filter,omitempty"`
}

type documentsPayload struct {
	Documents  []result.Document `json:"documents"`
	TotalCount int64             `json:"total_count"`
}

type referencesPayload struct {
	Response   string            `json:"response"`
	References []agent.Reference `json:"references"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type donePayload struct {
	SearchType      string  `json:"search_type"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	ResultCount     int     `json:"result_count"`
	Activities      int     `json:"activities,omitempty"`
	HasAnswer       bool    `json:"has_answer"`
}

func (s *Server) streamTraditional(w http.ResponseWriter, r *http.Request, query string) {
	sse := newSSEWriter(w)
	res, err := s.traditional.Run(r.Context(), query, progressSink(sse))
	if err != nil {
		s.streamError(r, sse, err)
		return
	}

	sse.send(eventCategories, categoriesPayload{Categories: res.Categories.Sorted(), Tier: string(res.Tier)})
	sse.send(eventFilter, filterPayload{Filter: res.Filter})
	sse.send(eventResults, documentsPayload{Documents: res.Documents, TotalCount: res.TotalCount})
	if res.HasAnswer() {
		sse.send(eventAnswer, answerPayload{Answer: res.Answer})
	}
	annotate(r.Context(),
		zap.String("tier", string(res.Tier)),
		zap.Int("results", res.ResultCount()),
		zap.Bool("answered", res.HasAnswer()),
	)
	sse.send(eventDone, donePayload{
		SearchType:      traditionaluc.SearchType,
		ExecutionTimeMs: float64(res.ExecutionTime.Microseconds()) / 1000,
		ResultCount:     res.ResultCount(),
		HasAnswer:       res.HasAnswer(),
	})
	s.logStreamErr(r, sse)
}

func (s *Server) streamAgentic(w http.ResponseWriter, r *http.Request, query string) {
	sse := newSSEWriter(w)
	res, err := s.agentic.Run(r.Context(), query, progressSink(sse))
	if err != nil {
		s.streamError(r, sse, err)
		return
	}

	for _, a := range res.Activities {
		sse.send(eventActivity, a)
	}
	refs := res.References
	if refs == nil {
		refs = []agent.Reference{}
	}
	sse.send(eventResults, referencesPayload{Response: res.Response, References: refs})
	if res.HasAnswer() {
		sse.send(eventAnswer, answerPayload{Answer: res.Answer})
	}
	annotate(r.Context(),
		zap.Int("results", res.ResultCount()),
		zap.Int("activities", len(res.Activities)),
		zap.Bool("answered", res.HasAnswer()),
	)
	sse.send(eventDone, donePayload{
		SearchType:      agenticuc.SearchType,
		ExecutionTimeMs: float64(res.ExecutionTime.Microseconds()) / 1000,
		ResultCount:     res.ResultCount(),
		Activities:      len(res.Activities),
		HasAnswer:       res.HasAnswer(),
	})
	s.logStreamErr(r, sse)
}

func progressSink(sse *sseWriter) event.Sink {
	return event.SinkFunc(func(e event.Event) {
		sse.send(eventStep, e)
	})
}

func (s *Server) streamError(r *http.Request, sse *sseWriter, err error) {
	logpkg.FromContext(r.Context()).Warn("chat run failed", zap.Error(err))
	annotate(r.Context(), zap.NamedError("run_error", err))
	code, msg := classify(err)
	sse.send(eventError, ErrorResponse{Code: code, Message: msg})
}

func (s *Server) logStreamErr(r *http.Request, sse *sseWriter) {
	if sse.err != nil {
		logpkg.FromContext(r.Context()).Debug("chat stream interrupted", zap.Error(sse.err))
	}
}
