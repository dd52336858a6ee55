package handler

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/adapter"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/request"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/response"
	"github.com/sangkips/alankar-api/pkg/apperror"
	"github.com/sangkips/alankar-api/pkg/utils"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	}
}

// respondBindError answers a failed bind with field errors when the
// validator produced them and a plain bad request otherwise.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   strings.TrimPrefix(fe.Namespace(), strings.SplitN(fe.Namespace(), ".", 2)[0]+"."),
			Message: validationMessage(fe),
		})
	}
	response.ValidationError(c, fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	default:
		return "Invalid value"
	}
}

// uuidParam parses a path parameter, answering 400 when it is malformed
func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// schemaVersion reads X-Schema-Version, answering 400 for unknown versions
func schemaVersion(c *gin.Context) (adapter.SchemaVersion, bool) {
	v, err := adapter.ParseSchemaVersion(c.GetHeader(adapter.HeaderSchemaVersion))
	if err != nil {
		response.BadRequest(c, err.Error())
		return "", false
	}
	return v, true
}

// parseDay reads an optional YYYY-MM-DD query value
func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(request.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
