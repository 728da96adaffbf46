package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// handlerまで運ぶエラー
// Details / Code は DBエラーのときだけ入る。
type HTTPError struct {
	Status  int
	Message string
	Details string
	Code    string
}

func (e *HTTPError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d: %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

const dbErrorMessage = "Erreur base de données"

// DBエラーを500にする（PostgresならSQLSTATEをcodeに入れる）
func NewDBError(err error) error {
	he := &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: dbErrorMessage,
	}
	if err == nil {
		return he
	}
	he.Details = err.Error()

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		he.Details = pgErr.Message
		he.Code = pgErr.Code
	}
	return he
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
