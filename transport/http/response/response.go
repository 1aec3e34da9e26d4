package response

import (
	"encoding/json"
	"fmt"
	"guesthouse/shared/constant"
	"guesthouse/shared/failure"
	"guesthouse/shared/logger"
	"net/http"
	"strconv"
)

type Data[T any] struct {
	Success bool `json:"success"`
	Data    *T   `json:"data,omitempty"`
}

type Error struct {
	Success bool    `json:"success"`
	Error   *string `json:"error,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

type Message struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}

func ok(code int) bool {
	return code < http.StatusBadRequest
}

// WithMessage answers with a plain text message.
func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Success: ok(code), Message: &message})
}

// WithJSON wraps payload in the data envelope.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Success: ok(code), Data: &payload})
}

// WithError maps err to its status and reason. Anything that is not a
// failure.Failure is logged and answered generically.
func WithError(writer http.ResponseWriter, err error) {
	message := constant.ResponseErrorInternal

	if failure.IsFailure(err) {
		message = err.Error()
	} else {
		logger.ErrorWithStack(err)
	}

	write(writer, failure.GetCode(err), Error{Error: &message, Reason: failure.GetReason(err)})
}

// WithFile sends content as an attachment named fileName.
func WithFile(writer http.ResponseWriter, contentType, fileName string, content []byte) {
	header := writer.Header()
	header.Set(constant.RequestHeaderContentType, contentType)
	header.Set(constant.RequestHeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	header.Set("Content-Length", strconv.Itoa(len(content)))

	send(writer, http.StatusOK, content)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	send(writer, code, body)
}

func send(writer http.ResponseWriter, code int, body []byte) {
	writer.WriteHeader(code)

	if _, err := writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
