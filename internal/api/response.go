package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds JSON request bodies. Image uploads carry base64
// payloads and get a larger limit.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		// The status line is already sent; a failed write means the client left.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body of at most limit bytes into target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any, limit int64) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(target)
}

// checkRequest runs struct validation and renders the first failure as a message.
func checkRequest(req any) (string, bool) {
	err := validate.Struct(req)
	if err == nil {
		return "", true
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return "invalid request", false
	}
	fe := fields[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " required", false
	case "email":
		return fe.Field() + " must be an email address", false
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()), false
	default:
		return fe.Field() + " is invalid", false
	}
}
