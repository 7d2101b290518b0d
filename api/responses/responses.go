package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
)

// WriteSuccess renders a 200 success envelope. Extra carries the
// operation-specific fields merged next to "success": true.
func WriteSuccess(w http.ResponseWriter, extra map[string]any) {
	WriteSuccessStatus(w, http.StatusOK, extra)
}

// WriteSuccessStatus renders a success envelope with an explicit status.
func WriteSuccessStatus(w http.ResponseWriter, status int, extra map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range extra {
		payload[k] = v
	}
	WriteJSON(w, status, payload)
}

// WriteError maps err to its HTTP status and renders the flat
// {"success": false, "error": message} envelope. Map-shaped details are
// merged into the envelope so flags like requiresGoogleLogin sit at the
// top level, as clients expect.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := map[string]any{
		"success": false,
		"error":   msg,
	}

	if meta.DetailsAllowed {
		if details, ok := typed.Details().(map[string]any); ok {
			for k, v := range details {
				if k == "success" || k == "error" {
					continue
				}
				payload[k] = v
			}
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}

		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	WriteJSON(w, meta.HTTPStatus, payload)
}

// WriteJSON renders an arbitrary payload. Handlers with bespoke shapes,
// like the auth status check, use it directly.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
