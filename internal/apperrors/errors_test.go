package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidation("title", ""), http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrAccessDenied, http.StatusForbidden},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{errors.New("что-то ещё"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := Status(c.err); got != c.want {
			t.Errorf("Status(%v) = %d, ожидалось %d", c.err, got, c.want)
		}
	}
}

func TestStatus_WrappedError(t *testing.T) {
	err := fmt.Errorf("%w: адрес уже зарегистрирован", ErrConflict)
	if got := Status(err); got != http.StatusConflict {
		t.Errorf("обёрнутый ErrConflict должен давать 409, получили %d", got)
	}
}

func TestValidationError_FirstField(t *testing.T) {
	var ve *ValidationError
	err := NewValidation("banner", "для публикации нужен баннер")
	if !errors.As(err, &ve) || ve.Field != "banner" {
		t.Fatalf("ошибка должна называть поле banner: %v", err)
	}
}
