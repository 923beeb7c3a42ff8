package response

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog/log"
)

type ErrorBody struct {
	Kind    er.Kind `json:"kind"`
	Message string  `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func SuccessJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// ErrorJSON AppError 依 Code 回應, 其他錯誤一律 500 且不回傳細節
func ErrorJSON(w http.ResponseWriter, err error) {
	appErr, ok := er.As(err)
	if !ok {
		log.Error().Err(err).Msg("unexpected error")
		appErr = er.Wrap(er.Unexpected, er.ErrStrMap[er.InternalErrorCode], err)
	}

	msg := appErr.Msg
	if appErr.Kind == er.Unexpected {
		if appErr.Err != nil {
			log.Error().Err(appErr.Err).Str("msg", appErr.Msg).Msg("unexpected error")
		}
		msg = er.ErrStrMap[er.InternalErrorCode]
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(appErr.Code))
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorBody{Kind: appErr.Kind, Message: msg}})
}

// DecodeJSON body 不是合法 JSON 時回傳 er.Validation
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return er.New(er.Validation, "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return er.Wrap(er.Validation, "invalid request body", err)
	}
	return nil
}
