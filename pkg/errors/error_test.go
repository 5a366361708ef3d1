package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeFetchFailed, "failed to fetch %s", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeFetchFailed, err.Code)
	suite.Equal("failed to fetch AAPL", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeParseFailed, "failed to parse response", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeParseFailed, err.Code)
	suite.Equal("failed to parse response", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeFetchFailed, cause, "failed to fetch %s", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeFetchFailed, err.Code)
	suite.Equal("failed to fetch AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFetchFailed, "fetch failed", cause)
	suite.Equal("[500] fetch failed: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFetchFailed, "fetch failed", cause)
	suite.Equal(cause, errors.Unwrap(err))
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeFormulaSyntax, "bad formula")
	suite.Equal(ErrCodeFormulaSyntax, GetCode(err))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain error")))
}

func (suite *ErrorTestSuite) TestGetCodeWrappedChain() {
	inner := New(ErrCodeNoMatch, "no trading day close enough")
	wrapped := fmt.Errorf("annotating: %w", inner)
	suite.Equal(ErrCodeNoMatch, GetCode(wrapped))
	suite.True(HasCode(wrapped, ErrCodeNoMatch))
}

func (suite *ErrorTestSuite) TestIsFetchError() {
	suite.True(IsFetchError(New(ErrCodeFetchFailed, "boom")))
	suite.False(IsFetchError(New(ErrCodeNoMatch, "nope")))
	suite.False(IsFetchError(errors.New("plain")))
}

func (suite *ErrorTestSuite) TestIsFormulaError() {
	suite.True(IsFormulaError(New(ErrCodeFormulaSyntax, "syntax")))
	suite.True(IsFormulaError(New(ErrCodeFormulaUnknownColumn, "foo")))
	suite.True(IsFormulaError(New(ErrCodeFormulaEvaluation, "eval")))
	suite.True(IsFormulaError(New(ErrCodeFormulaNonNumeric, "bool")))
	suite.False(IsFormulaError(New(ErrCodeFetchFailed, "fetch")))
}
