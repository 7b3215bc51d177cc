package utils

import (
	"net/url"
	"strconv"
	"strings"

	"allocation-system/pkg/types"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Зарезервированные ключи query-строки; всё остальное уходит в Filter.
var reservedQueryKeys = map[string]bool{
	"limit": true, "page": true, "offset": true,
	"search": true, "sort": true, "withPagination": true,
}

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	if values.Get("withPagination") == "false" {
		filterReq.WithPagination = false
	} else {
		filterReq.WithPagination = true
	}

	filterReq.Search = values.Get("search")

	if sortStr := values.Get("sort"); sortStr != "" {
		for _, pair := range strings.Split(sortStr, ",") {
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) == 2 {
				filterReq.Sort[parts[0]] = parts[1]
			} else {
				filterReq.Sort[parts[0]] = "asc"
			}
		}
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" || reservedQueryKeys[key] {
			continue
		}
		filterReq.Filter[key] = vals[0]
	}

	return filterReq
}
