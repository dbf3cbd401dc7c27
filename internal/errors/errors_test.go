package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "character not found",
			expected: "NOT_FOUND: character not found",
		},
		{
			name:     "aborted error",
			code:     errors.CodeAborted,
			message:  "version mismatch",
			expected: "ABORTED: version mismatch",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
		})
	}
}

func (s *ErrorsTestSuite) TestWrapKeepsCodeAndCategory() {
	base := errors.NotFound("session not found").WithCategory(errors.CategoryStore)
	wrapped := errors.Wrap(base, "failed to load session")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal(errors.CategoryStore, wrapped.Category)
	s.True(errors.IsNotFound(wrapped))
	s.Equal("NOT_FOUND: failed to load session: NOT_FOUND: session not found", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWrapPlainError() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to get character")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal(baseErr, wrapped.Unwrap())
	s.Nil(errors.Wrap(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestProviderAndStoreCategories() {
	s.Run("plain provider failure becomes unavailable", func() {
		err := errors.Provider(fmt.Errorf("HTTP 502"), "llm completion failed")
		s.Equal(errors.CodeUnavailable, err.Code)
		s.True(errors.IsProvider(err))
		s.False(errors.IsStore(err))
	})

	s.Run("provider keeps an explicit code", func() {
		err := errors.Provider(errors.ResourceExhausted("rate limited"), "llm completion failed")
		s.Equal(errors.CodeResourceExhausted, err.Code)
	})

	s.Run("store category survives further wrapping", func() {
		err := errors.Wrap(errors.Store(fmt.Errorf("disk full"), "failed to save"), "apply mutation")
		s.True(errors.IsStore(err))
		s.Equal(errors.CategoryStore, errors.CategoryOf(fmt.Errorf("outer: %w", err)))
	})

	s.Run("uncategorized", func() {
		s.Equal(errors.CategoryNone, errors.CategoryOf(fmt.Errorf("plain")))
		s.Equal(errors.CategoryNone, errors.CategoryOf(nil))
	})
}

func (s *ErrorsTestSuite) TestIs() {
	err := errors.Wrap(errors.Aborted("stale"), "update character")
	s.True(errors.Is(err, errors.Aborted("")))
	s.False(errors.Is(err, errors.NotFound("")))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	s.Equal(http.StatusNotFound, errors.CodeNotFound.HTTPStatus())
	s.Equal(http.StatusConflict, errors.CodeAborted.HTTPStatus())
	s.Equal(http.StatusConflict, errors.CodeAlreadyExists.HTTPStatus())
	s.Equal(http.StatusBadGateway, errors.CodeUnavailable.HTTPStatus())
	s.Equal(http.StatusInternalServerError, errors.Code("WHATEVER").HTTPStatus())
}

func (s *ErrorsTestSuite) TestToGRPCError() {
	st, ok := status.FromError(errors.ToGRPCError(errors.NotFound("campaign not found")))
	s.Require().True(ok)
	s.Equal(codes.NotFound, st.Code())
	s.Equal("campaign not found", st.Message())

	st, ok = status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
	s.Require().True(ok)
	s.Equal(codes.Internal, st.Code())

	s.NoError(errors.ToGRPCError(nil))
}

func (s *ErrorsTestSuite) TestGetters() {
	err := errors.InvalidArgument("bad expression").WithMeta("expression", "2x6")
	s.Equal("bad expression", errors.GetMessage(err))
	s.Equal("2x6", errors.GetMeta(err)["expression"])
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal("plain", errors.GetMessage(fmt.Errorf("plain")))
}
