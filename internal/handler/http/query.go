package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
)

// queryInts reads optional integer query parameters. Missing ones stay zero.
func queryInts(r *http.Request, dst map[string]*int) error {
	var errs validator.ValidationErrors
	for name, ptr := range dst {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: name, Message: name + " must be a number"})
			continue
		}
		*ptr = v
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
