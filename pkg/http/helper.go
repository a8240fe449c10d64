package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// Page returns the offset/limit window of items.
func Page[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		return []T{}
	}
	end := min(int(offset)+limit, len(items))
	return items[offset:end]
}

// DecodeJSON reads a single JSON object into v. Unknown fields and trailing
// data are rejected. An empty body yields an error matching io.EOF.
func DecodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return apperrors.New(apperrors.CodeInvalidInput,
				fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit), http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apperrors.Wrap(io.EOF, apperrors.CodeInvalidInput, "Request body is empty", http.StatusBadRequest)
		default:
			return apperrors.InvalidInput("Invalid request body: " + err.Error())
		}
	}
	if decoder.More() {
		return apperrors.InvalidInput("Request body must contain a single JSON object")
	}
	return nil
}

// RequireQuery returns the named query parameters, failing on the first
// missing one.
func RequireQuery(r *http.Request, names ...string) (map[string]string, error) {
	query := r.URL.Query()
	values := make(map[string]string, len(names))
	for _, name := range names {
		v := query.Get(name)
		if v == "" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("'%s' query parameter is required", name))
		}
		values[name] = v
	}
	return values, nil
}
