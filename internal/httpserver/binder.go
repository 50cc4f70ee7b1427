package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/service"
)

// strictJSONSerializer rejects fields the target struct does not declare, so a
// typo or a field the caller may not set (role on /me) is a validation error
// rather than silently dropped.
type strictJSONSerializer struct {
	echo.DefaultJSONSerializer
}

func (strictJSONSerializer) Deserialize(c echo.Context, i any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		var ute *json.UnmarshalTypeError
		switch {
		case errors.As(err, &ute):
			return &service.Error{Kind: service.ErrValidation, Message: fmt.Sprintf("%s must be %s", ute.Field, ute.Type)}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return &service.Error{Kind: service.ErrValidation, Message: strings.TrimPrefix(err.Error(), "json: ")}
		}
		return &service.Error{Kind: service.ErrValidation, Message: "invalid body"}
	}
	return nil
}

// bindError keeps the message of a decoding failure; anything else is a
// generic invalid body.
func bindError(err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		return se
	}
	return &service.Error{Kind: service.ErrValidation, Message: "invalid body"}
}
