package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "assetshare/pkg/errors"
)

// ParseID reads a positive integer path parameter.
func ParseID(raw, resource string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("Invalid " + resource + " ID: " + raw)
	}
	return id, nil
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func DecodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return apperrors.InvalidInput("Invalid request body")
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}
