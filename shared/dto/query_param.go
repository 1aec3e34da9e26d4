package dto

import (
	"guesthouse/shared/constant"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positive(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0
	}

	return n
}

// ParseQueryParams reads paging and sorting from values. Malformed numbers are
// dropped and the limit is capped at MaxValueLimit.
func ParseQueryParams(values url.Values) QueryParams {
	params := QueryParams{
		Page:   positive(values.Get(constant.RequestParamPage)),
		Limit:  min(positive(values.Get(constant.RequestParamLimit)), constant.MaxValueLimit),
		SortBy: values.Get(constant.RequestParamSortBy),
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		params.SortDir = dir
	}

	return params
}

// FromRequest replaces q with the request's query parameters. withDefaults
// fills a missing page or limit so list endpoints never scan unbounded.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	*q = ParseQueryParams(r.URL.Query())

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// RestrictSortBy clears SortBy and SortDir unless SortBy names one of the allowed columns.
func (q *QueryParams) RestrictSortBy(allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy, q.SortDir = "", ""

		return
	}

	if q.SortDir == "" {
		q.SortDir = SortDirAsc
	}
}
