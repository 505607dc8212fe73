package handlers

import (
	"encoding/json"
	"errors"

	"github.com/geocoder89/heartspace/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// normalizer is implemented by request bodies that clean their own fields
// (trimming, lowercasing) before the binding rules run.
type normalizer interface {
	Normalize()
}

func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := decodeJSON(ctx, out)

	if err == nil {
		if n, ok := out.(normalizer); ok {
			n.Normalize()
		}
		err = binding.Validator.ValidateStruct(out)
	}

	if err != nil {
		RespondBadRequest(ctx, "Invalid request body", validation.Describe(err, out))

		return false
	}

	return true
}

func decodeJSON(ctx *gin.Context, out interface{}) error {
	if ctx.Request == nil || ctx.Request.Body == nil {
		return errors.New("invalid request")
	}

	return json.NewDecoder(ctx.Request.Body).Decode(out)
}
