package awslambda

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/instrument"
	"github.com/aalemi-dev/reqscope/tracing"
)

// Handler is an API Gateway HTTP API (payload v2) function.
type Handler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// Wrap instruments fn with w. The request is always finalized before the
// wrapped function returns, whatever w's finalize mode: the invocation
// returning is the last moment the instance is guaranteed to run.
func Wrap(w *instrument.Wrapper, fn Handler) Handler {
	if fn == nil {
		panic(instrument.ErrNilHandler)
	}
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse, err error) {
		ctx, t := w.Begin(ctx, RequestInfo(req, w.Config().TraceHeader))
		tagInvocation(ctx, t, req)

		defer func() {
			if v := recover(); v != nil {
				t.Fail(instrument.AsError(v))
				t.Finalize(http.StatusInternalServerError)
				panic(v)
			}
		}()

		t.Running()
		resp, err = fn(ctx, req)

		status := resp.StatusCode
		if err != nil {
			t.Fail(err)
			status = http.StatusInternalServerError
		} else {
			t.Succeed()
		}
		t.Finalize(status)
		return resp, err
	}
}

// RequestInfo describes req for instrument.Wrapper.Begin. traceHeader is
// matched case-insensitively since API Gateway lowercases header names.
func RequestInfo(req events.APIGatewayV2HTTPRequest, traceHeader string) instrument.RequestInfo {
	path := req.RawPath
	if path == "" {
		path = req.RequestContext.HTTP.Path
	}
	method := req.RequestContext.HTTP.Method

	headers := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		headers.Set(k, v)
	}

	return instrument.RequestInfo{
		Method:      method,
		Path:        path,
		Params:      req.PathParameters,
		TraceHeader: header(req.Headers, traceHeader),
		Linkage:     tracing.ExtractW3C(headers),
		Snapshot: &event.Request{
			Method:      method,
			URL:         "https://" + req.RequestContext.DomainName + path,
			QueryString: req.RawQueryString,
			Headers:     instrument.SnapshotHeaders(headers),
		},
	}
}

func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func tagInvocation(ctx context.Context, t *instrument.Tracker, req events.APIGatewayV2HTTPRequest) {
	sc := t.Scope()
	if id := req.RequestContext.RequestID; id != "" {
		sc.SetTag("apigateway.request_id", id)
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		sc.SetTag("faas.execution", lc.AwsRequestID)
	}
	if lambdacontext.FunctionName != "" {
		sc.SetTag("faas.name", lambdacontext.FunctionName)
	}
}
