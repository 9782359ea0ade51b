package apperr

import "net/http"

// HTTPStatus maps a kind to the status code the HTTP surface answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput, KindInvalidTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
