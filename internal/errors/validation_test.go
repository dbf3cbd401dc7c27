package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("name", "is required").
		Fieldf("level", "must be between %d and %d", 1, 20).
		RequiredField("class").
		InvalidField("status", "unknown status")

	err := vb.Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal(errors.CategoryValidation, errors.CategoryOf(err))
	s.Contains(err.Error(), "class: is required; level: must be between 1 and 20")
	s.NotNil(errors.GetMeta(err)["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateHelpers() {
	testCases := []struct {
		name      string
		apply     func(vb *errors.ValidationBuilder)
		shouldErr bool
	}{
		{"required ok", func(vb *errors.ValidationBuilder) { errors.ValidateRequired("title", "Lost Mine", vb) }, false},
		{"required blank", func(vb *errors.ValidationBuilder) { errors.ValidateRequired("title", "   ", vb) }, true},
		{"range ok", func(vb *errors.ValidationBuilder) { errors.ValidateRange("str", 20, 1, 20, vb) }, false},
		{"range low", func(vb *errors.ValidationBuilder) { errors.ValidateRange("str", 0, 1, 20, vb) }, true},
		{"float range ok", func(vb *errors.ValidationBuilder) { errors.ValidateFloatRange("style", 0.8, 0, 1, vb) }, false},
		{"float range high", func(vb *errors.ValidationBuilder) { errors.ValidateFloatRange("style", 1.5, 0, 1, vb) }, true},
		{"enum ok", func(vb *errors.ValidationBuilder) {
			errors.ValidateEnum("status", "paused", []string{"active", "paused", "completed"}, vb)
		}, false},
		{"enum bad", func(vb *errors.ValidationBuilder) {
			errors.ValidateEnum("status", "archived", []string{"active", "paused", "completed"}, vb)
		}, true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			tc.apply(vb)
			if tc.shouldErr {
				s.Error(vb.Build())
			} else {
				s.NoError(vb.Build())
			}
		})
	}
}
