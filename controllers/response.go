package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"mangrove-be/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError writes the standard failure body for err.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"success": false,
		"error":   apperrors.PublicMessage(err),
	})
}

// invalidInput turns a binding failure into a ValidationError, spelling out
// validator field errors as "<field> is required" style messages.
func invalidInput(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation(err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, field+" must be one of "+strings.ReplaceAll(fe.Param(), " ", ", "))
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		case "max":
			msgs = append(msgs, field+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return apperrors.Validation(strings.Join(msgs, "; "))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func parseObjectID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("Invalid " + what + " ID")
	}
	return id, nil
}

// coordinate accepts a JSON number or a numeric string, since form based
// clients post latitude and longitude as text.
type coordinate float64

func (c *coordinate) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	if raw == "" {
		return errors.New("coordinate must be a number")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.New("coordinate must be a number")
	}
	*c = coordinate(f)
	return nil
}
