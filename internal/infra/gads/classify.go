package gads

import (
	"context"
	"errors"
	"net"
	"strings"

	"google.golang.org/grpc/codes"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// docsBaseURL anchors error documentation references. The anchor is the
// kebab-cased error category.
const docsBaseURL = "https://developers.google.com/google-ads/api/reference/rpc/v20/errors"

// categoryKinds is the closed vendor table mapping GoogleAdsFailure error
// categories onto the failure taxonomy. Vendor API changes only ever touch
// this table. Categories not listed classify as validation when they carry
// a field location and unknown otherwise.
var categoryKinds = map[string]domain.FailureKind{
	"quotaError":    domain.FailureRateLimited,
	"internalError": domain.FailureTransient,

	"authenticationError": domain.FailureAuth,
	"authorizationError":  domain.FailureAuth,
	"accessInvitationError": domain.FailureAuth,

	"requestError":             domain.FailureValidation,
	"queryError":               domain.FailureValidation,
	"fieldError":               domain.FailureValidation,
	"fieldMaskError":           domain.FailureValidation,
	"mutateError":              domain.FailureValidation,
	"rangeError":               domain.FailureValidation,
	"dateError":                domain.FailureValidation,
	"dateRangeError":           domain.FailureValidation,
	"distinctError":            domain.FailureValidation,
	"idError":                  domain.FailureValidation,
	"notEmptyError":            domain.FailureValidation,
	"nullError":                domain.FailureValidation,
	"operatorError":            domain.FailureValidation,
	"sizeLimitError":           domain.FailureValidation,
	"collectionSizeError":      domain.FailureValidation,
	"stringFormatError":        domain.FailureValidation,
	"stringLengthError":        domain.FailureValidation,
	"urlFieldError":            domain.FailureValidation,
	"enumError":                domain.FailureValidation,
	"resourceCountLimitExceededError": domain.FailureValidation,
	"newResourceCreationError": domain.FailureValidation,
	"campaignError":            domain.FailureValidation,
	"campaignBudgetError":      domain.FailureValidation,
	"adGroupError":             domain.FailureValidation,
	"adError":                  domain.FailureValidation,
	"assetError":               domain.FailureValidation,
	"criterionError":           domain.FailureValidation,
	"biddingError":             domain.FailureValidation,
	"settingError":             domain.FailureValidation,
	"operationAccessDeniedError": domain.FailureAuth,

	// Concurrent modification and database hiccups resolve on their own.
	"databaseError": domain.FailureTransient,
}

// internalErrorCodes narrows internalError values: everything here is safe
// to retry, matching the vendor's published retryable set.
var internalErrorCodes = map[string]bool{
	"INTERNAL_ERROR":    true,
	"TRANSIENT_ERROR":   true,
	"DEADLINE_EXCEEDED": true,
	"ERROR":             true,
}

// Classify maps a raw remote failure into the closed taxonomy. It is a pure
// function: a given error value always yields the same ClassifiedFailure.
//
// Policy, first match wins:
//  1. network/transport failure → transient, retryable
//  2. rate-limit / quota → rate_limited, retryable, with the server's wait hint
//  3. authentication/authorization → auth, not retryable
//  4. field-level validation → validation, not retryable, with field path
//     and documentation reference
//  5. anything unrecognized → unknown, not retryable (an unknown failure
//     after a mutate may mean the mutation partially applied)
func Classify(err error) *domain.ClassifiedFailure {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	if isTransportError(err) {
		return &domain.ClassifiedFailure{
			Kind:      domain.FailureTransient,
			Retryable: true,
			Message:   err.Error(),
		}
	}

	return &domain.ClassifiedFailure{
		Kind:    domain.FailureUnknown,
		Message: err.Error(),
	}
}

func classifyAPIError(apiErr *APIError) *domain.ClassifiedFailure {
	if apiErr.Failure != nil && len(apiErr.Failure.Errors) > 0 {
		if cf := classifyFailurePayload(apiErr); cf != nil {
			return cf
		}
	}

	cf := &domain.ClassifiedFailure{
		Message:   apiErr.Message,
		RequestID: apiErr.RequestID,
	}
	switch {
	case apiErr.Status == codes.ResourceExhausted || apiErr.HTTPStatus == 429:
		cf.Kind = domain.FailureRateLimited
		cf.Retryable = true
		cf.SuggestedWait = apiErr.RetryAfter
	case apiErr.Status == codes.Unavailable,
		apiErr.Status == codes.DeadlineExceeded,
		apiErr.Status == codes.Internal,
		apiErr.HTTPStatus >= 500:
		cf.Kind = domain.FailureTransient
		cf.Retryable = true
	case apiErr.Status == codes.Unauthenticated,
		apiErr.Status == codes.PermissionDenied,
		apiErr.HTTPStatus == 401,
		apiErr.HTTPStatus == 403:
		cf.Kind = domain.FailureAuth
	case apiErr.Status == codes.InvalidArgument,
		apiErr.Status == codes.FailedPrecondition,
		apiErr.HTTPStatus == 400:
		cf.Kind = domain.FailureValidation
	default:
		cf.Kind = domain.FailureUnknown
	}
	return cf
}

// classifyFailurePayload picks the dominant error of a GoogleAdsFailure.
// Rate limits beat transient beats auth beats validation, mirroring the
// call-level policy order for payloads that mix categories.
func classifyFailurePayload(apiErr *APIError) *domain.ClassifiedFailure {
	order := []domain.FailureKind{
		domain.FailureRateLimited,
		domain.FailureTransient,
		domain.FailureAuth,
		domain.FailureValidation,
		domain.FailureUnknown,
	}
	classified := make([]*domain.ClassifiedFailure, 0, len(apiErr.Failure.Errors))
	for _, e := range apiErr.Failure.Errors {
		classified = append(classified, ClassifyItem(e, requestID(apiErr)))
	}
	for _, kind := range order {
		for _, cf := range classified {
			if cf.Kind == kind {
				if cf.Kind == domain.FailureRateLimited && cf.SuggestedWait == 0 {
					cf.SuggestedWait = apiErr.RetryAfter
				}
				return cf
			}
		}
	}
	return nil
}

// ClassifyItem classifies one GoogleAdsFailure error independently, as the
// batch aggregator does for per-item partial failures.
func ClassifyItem(e AdsError, reqID string) *domain.ClassifiedFailure {
	category := e.Category()
	kind, known := categoryKinds[category]
	if !known {
		if e.FieldPath() != "" {
			kind = domain.FailureValidation
		} else {
			kind = domain.FailureUnknown
		}
	}
	if category == "internalError" && !internalErrorCodes[e.Code()] {
		kind = domain.FailureUnknown
	}

	cf := &domain.ClassifiedFailure{
		Kind:      kind,
		Message:   e.Message,
		FieldPath: e.FieldPath(),
		RequestID: reqID,
	}
	if cf.Message == "" {
		cf.Message = e.Type()
	}
	if category != "" {
		cf.DocsURL = DocsURL(category)
	}
	switch kind {
	case domain.FailureTransient:
		cf.Retryable = true
	case domain.FailureRateLimited:
		cf.Retryable = true
		cf.SuggestedWait = e.SuggestedWait()
	}
	return cf
}

// DocsURL returns the vendor documentation reference for an error category,
// e.g. "quotaError" → …/errors#quota-error.
func DocsURL(category string) string {
	if category == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range category {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return docsBaseURL + "#" + b.String()
}

func requestID(apiErr *APIError) string {
	if apiErr.RequestID != "" {
		return apiErr.RequestID
	}
	if apiErr.Failure != nil {
		return apiErr.Failure.RequestID
	}
	return ""
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection reset",
		"connection refused",
		"broken pipe",
		"timeout",
		"eof",
		"no such host",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
