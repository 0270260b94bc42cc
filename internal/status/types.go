package status

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// A single request to find the state of one service on a status page
type StatusQuery struct {
	TargetServiceName string
	SourceURL         string
}

func (query StatusQuery) Validate() error {
	if strings.TrimSpace(query.TargetServiceName) == "" {
		return errors.New("target service name is empty")
	}
	parsed, err := url.Parse(query.SourceURL)
	if err != nil {
		return fmt.Errorf("source url %q is not valid: %w", query.SourceURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("source url %q is not an http(s) url", query.SourceURL)
	}
	return nil
}

type ResultKind int

const (
	ResultFound ResultKind = iota
	ResultNotListed
	ResultIndeterminate
	ResultFailure
)

var resultKindNames = map[ResultKind]string{
	ResultFound:         "found",
	ResultNotListed:     "not_listed",
	ResultIndeterminate: "indeterminate",
	ResultFailure:       "failure",
}

func (kind ResultKind) String() string {
	if name, ok := resultKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("ResultKind(%d)", int(kind))
}

type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureTimeout
	FailureRenderEngineUnavailable
	FailureNetworkError
)

var failureKindNames = map[FailureKind]string{
	FailureUnknown:                 "unknown",
	FailureTimeout:                 "timeout",
	FailureRenderEngineUnavailable: "render_engine_unavailable",
	FailureNetworkError:            "network_error",
}

func (kind FailureKind) String() string {
	if name, ok := failureKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("FailureKind(%d)", int(kind))
}

// Outcome of a status query. Kind tells which of the other
// fields carry meaning:
//   - ResultFound: StatusText
//   - ResultNotListed: TargetServiceName
//   - ResultIndeterminate: nothing
//   - ResultFailure: Failure and Detail
type StatusResult struct {
	Kind              ResultKind
	StatusText        string
	TargetServiceName string
	Failure           FailureKind
	Detail            string
}

func Found(statusText string) StatusResult {
	return StatusResult{Kind: ResultFound, StatusText: statusText}
}

func NotListed(targetServiceName string) StatusResult {
	return StatusResult{Kind: ResultNotListed, TargetServiceName: targetServiceName}
}

func Indeterminate() StatusResult {
	return StatusResult{Kind: ResultIndeterminate}
}

func Failure(kind FailureKind, detail string) StatusResult {
	return StatusResult{Kind: ResultFailure, Failure: kind, Detail: detail}
}

func (result StatusResult) String() string {
	switch result.Kind {
	case ResultFound:
		return fmt.Sprintf("found(%q)", result.StatusText)
	case ResultNotListed:
		return fmt.Sprintf("not_listed(%q)", result.TargetServiceName)
	case ResultFailure:
		return fmt.Sprintf("failure(%s: %s)", result.Failure, result.Detail)
	default:
		return result.Kind.String()
	}
}
