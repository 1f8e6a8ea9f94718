// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/cratedig/internal/app/finder"
	"github.com/osa030/cratedig/internal/domain/track"
)

const (
	// ProducerServiceName is the fully-qualified name of the ProducerService.
	ProducerServiceName = "cratedig.v1.ProducerService"

	// ProducerServiceSuggestProcedure is the path of the Suggest RPC.
	ProducerServiceSuggestProcedure = "/cratedig.v1.ProducerService/Suggest"
	// ProducerServiceSearchProcedure is the path of the Search RPC.
	ProducerServiceSearchProcedure = "/cratedig.v1.ProducerService/Search"
)

// Searcher runs suggestions and producer searches.
type Searcher interface {
	Suggest(ctx context.Context, raw string) ([]track.Track, error)
	Run(ctx context.Context, raw string, progress chan<- finder.Event) *finder.Result
}

// MessageSource maps message codes to user-facing text.
type MessageSource interface {
	GetMessage(code string) string
}

// ProducerService implements the ProducerService RPC.
type ProducerService struct {
	searcher Searcher
	messages MessageSource
}

// NewProducerService creates a new ProducerService.
func NewProducerService(searcher Searcher, messages MessageSource) *ProducerService {
	return &ProducerService{
		searcher: searcher,
		messages: messages,
	}
}

// NewProducerServiceHandler builds an HTTP handler serving the service, and
// returns the path to mount it on. The JSON codec is always registered.
func NewProducerServiceHandler(svc *ProducerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ProducerServiceSuggestProcedure, connect.NewUnaryHandler(
		ProducerServiceSuggestProcedure,
		svc.Suggest,
		opts...,
	))
	mux.Handle(ProducerServiceSearchProcedure, connect.NewServerStreamHandler(
		ProducerServiceSearchProcedure,
		svc.Search,
		opts...,
	))
	return "/" + ProducerServiceName + "/", mux
}

// Suggest handles suggestion requests.
func (s *ProducerService) Suggest(
	ctx context.Context,
	req *connect.Request[SuggestRequest],
) (*connect.Response[SuggestResponse], error) {
	tracks, err := s.searcher.Suggest(ctx, req.Msg.Query)
	if err != nil {
		zlog.Warn().Err(err).Str("query", req.Msg.Query).Msg("suggest failed")
		return nil, connect.NewError(connect.CodeUnavailable, errors.New(s.messages.GetMessage(string(finder.OutcomeCatalogError))))
	}

	labels := finder.Labels(tracks)
	suggestions := make([]Suggestion, 0, len(tracks))
	for i := range tracks {
		suggestions = append(suggestions, Suggestion{
			Label: labels[i],
			Track: toTrackInfo(&tracks[i]),
		})
	}
	return connect.NewResponse(&SuggestResponse{Suggestions: suggestions}), nil
}

// Search streams the progress of a producer search. The final message has
// Type EventFinished and carries the outcome code and its message. Search
// outcomes are never RPC errors.
func (s *ProducerService) Search(
	ctx context.Context,
	req *connect.Request[SearchRequest],
	stream *connect.ServerStream[SearchEvent],
) error {
	if strings.TrimSpace(req.Msg.Query) == "" {
		return connect.NewError(connect.CodeInvalidArgument, errors.New(s.messages.GetMessage(string(finder.OutcomeInvalidQuery))))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := make(chan finder.Event)
	done := make(chan *finder.Result, 1)
	go func() {
		done <- s.searcher.Run(ctx, req.Msg.Query, progress)
		close(progress)
	}()

	var sendErr error
	for ev := range progress {
		if sendErr != nil {
			continue
		}
		if err := stream.Send(toSearchEvent(ev, s.messages)); err != nil {
			sendErr = err
			cancel()
		}
	}
	res := <-done
	if sendErr != nil {
		return sendErr
	}

	return stream.Send(&SearchEvent{
		RunID:     res.RunID,
		Type:      EventFinished,
		Outcome:   string(res.Outcome),
		Message:   s.messages.GetMessage(string(res.Outcome)),
		ElapsedMs: res.Elapsed.Milliseconds(),
	})
}

// ProducerClient is a client for the ProducerService.
type ProducerClient struct {
	suggest *connect.Client[SuggestRequest, SuggestResponse]
	search  *connect.Client[SearchRequest, SearchEvent]
}

// NewProducerClient creates a client for the service at baseURL.
func NewProducerClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ProducerClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &ProducerClient{
		suggest: connect.NewClient[SuggestRequest, SuggestResponse](
			httpClient,
			baseURL+ProducerServiceSuggestProcedure,
			opts...,
		),
		search: connect.NewClient[SearchRequest, SearchEvent](
			httpClient,
			baseURL+ProducerServiceSearchProcedure,
			opts...,
		),
	}
}

// Suggest calls cratedig.v1.ProducerService.Suggest.
func (c *ProducerClient) Suggest(ctx context.Context, req *connect.Request[SuggestRequest]) (*connect.Response[SuggestResponse], error) {
	return c.suggest.CallUnary(ctx, req)
}

// Search calls cratedig.v1.ProducerService.Search.
func (c *ProducerClient) Search(ctx context.Context, req *connect.Request[SearchRequest]) (*connect.ServerStreamForClient[SearchEvent], error) {
	return c.search.CallServerStream(ctx, req)
}
