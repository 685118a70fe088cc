package mcpserver

const serverInstructions = `This server manages Google Ads accounts: reporting (GAQL queries),
campaign and budget management, ad groups, ads, keywords, and assets.
Customer IDs are 10 digits; dashes are accepted and stripped. Monetary
amounts are in micros: 1000000 micros = one unit of account currency.
All create operations produce PAUSED resources so nothing spends before
a human reviews it. Batch keyword tools report per-entry results; check
the "results" array for individual failures.`

const documentationDoc = `# Google Ads API Overview

This server talks to the Google Ads REST API. Requests are authenticated
with a refreshed OAuth access token plus a developer token; tokens refresh
automatically before expiry.

## Conventions

- **Customer IDs** are 10 digits. Dashes ("123-456-7890") are stripped.
- **Money** is expressed in micros: 1,000,000 micros = 1 currency unit.
- **Resource names** look like "customers/{cid}/campaigns/{id}" and are
  returned by every successful mutate.
- New campaigns, ad groups, and ads are created **PAUSED**.

## Reading data

All reads go through GAQL (Google Ads Query Language) via the search
endpoint. Use run_gaql_query for arbitrary queries, or the prebuilt
reporting tools (get_campaign_performance, get_keyword_performance,
get_search_terms_report, get_ad_performance).

## Writing data

Mutates are transactional per request. Batch keyword additions enable
partial failure: valid entries land, invalid ones are reported by
position in the "results" array.

## Transient failures

Rate limits and transient server errors are retried automatically with
exponential backoff. A tool only reports failure after retries are
exhausted or the error is not retryable.`

const errorCodesDoc = `# Error Classification Reference

Every Google Ads API failure is classified into one of these kinds:

| Kind | Retried | Meaning |
|------|---------|---------|
| transient | yes | Temporary server-side fault (INTERNAL_ERROR, TRANSIENT_ERROR, DEADLINE_EXCEEDED). |
| rate_limited | yes, honoring suggested wait | Quota or rate limit hit (RESOURCE_EXHAUSTED, QuotaError). |
| auth | no | Credentials rejected (AuthenticationError, AuthorizationError). The cached token is invalidated so the next call refreshes. |
| validation | no | The request itself is invalid (RequestError, FieldError, bad GAQL). Fix the input and retry manually. |
| indeterminate | no | A mutate was cancelled in flight; the API may or may not have applied it. Verify state before retrying. |
| unknown | no | Unrecognized failure shape. |

Validation failures include the offending field path and a link into the
error reference, e.g.
https://developers.google.com/google-ads/api/reference/rpc/v20/errors#query-error

Partial-failure batches report one classification per rejected entry,
keyed by its position in the request.`

const gaqlReferenceDoc = `# GAQL Quick Reference

GAQL is SQL-like but selects from one resource per query; joined
attributes come along automatically.

    SELECT campaign.id, campaign.name, metrics.clicks
    FROM campaign
    WHERE segments.date DURING LAST_30_DAYS
      AND campaign.status = 'ENABLED'
    ORDER BY metrics.clicks DESC
    LIMIT 50

## Common resources

- campaign, campaign_budget
- ad_group, ad_group_ad, ad_group_criterion
- keyword_view, search_term_view
- customer, asset

## Date ranges

WHERE segments.date DURING {TODAY | YESTERDAY | LAST_7_DAYS |
LAST_14_DAYS | LAST_30_DAYS | THIS_MONTH | LAST_MONTH}

Or explicit: WHERE segments.date BETWEEN '2026-01-01' AND '2026-01-31'

## Notes

- String literals use single quotes; escape embedded quotes with \'.
- Metrics require a date predicate on most resources.
- REMOVED resources are returned unless filtered out:
  WHERE campaign.status != 'REMOVED'`
