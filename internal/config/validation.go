package config

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(yamlFieldName)
	})
	return validate
}

// Validate checks cfg. All violations are reported in one ValidationError,
// keyed by their YAML path.
func (c *Config) Validate() error {
	err := structValidator().Struct(c)
	if err == nil {
		return c.validateDependencies()
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.InternalError("configuration validation failed").WithCause(err).Build()
	}

	problems := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		problems = append(problems, fmt.Sprintf("%s: %s", fieldPath(ve.Namespace()), describe(ve)))
	}
	sort.Strings(problems)
	return errors.ValidationError("invalid configuration: " + strings.Join(problems, "; ")).
		WithContext("problems", problems).
		Build()
}

func (c *Config) validateDependencies() error {
	seen := make(map[string]struct{}, len(c.Links.Dependencies))
	for _, dep := range c.Links.Dependencies {
		if _, dup := seen[dep.Module]; dup {
			return errors.ValidationError("dependency listed twice").
				WithContext("module", dep.Module).
				Build()
		}
		seen[dep.Module] = struct{}{}
	}
	return nil
}

func describe(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + ve.Param()
	case "min":
		return "must be at least " + ve.Param()
	case "max":
		return "must be at most " + ve.Param()
	case "eq":
		return "must be " + ve.Param()
	case "excludesall":
		return "must not contain path separators"
	default:
		return "failed " + ve.Tag()
	}
}

// fieldPath drops the root struct name: "Config.output.dir" becomes
// "output.dir".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
