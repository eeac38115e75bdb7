package helpers

import (
	"encoding/json"
	"net/http"

	"blogtalks/internal/apperrors"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: data, Error: ""})
	if err != nil {
		return
	}
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: nil, Error: errMsg})
	if err != nil {
		return
	}
}

// DomainError переводит доменную ошибку в HTTP-ответ по таксономии apperrors.
func DomainError(w http.ResponseWriter, err error) {
	status := apperrors.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "внутренняя ошибка сервера"
	}
	Error(w, status, msg)
}
