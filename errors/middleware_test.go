package errors_test

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/tideline/errors"
)

var _ = Describe("CustomHTTPErrorHandler", func() {
	handle := func(err error) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		errors.CustomHTTPErrorHandler(err, e.NewContext(req, rec))
		return rec
	}

	DescribeTable("maps errors to status codes",
		func(err error, code int) {
			Expect(handle(err).Code).To(Equal(code))
		},
		Entry("not found", errors.NotFound, http.StatusNotFound),
		Entry("wrapped bad request", fmt.Errorf("%w: invalid start", errors.BadRequest), http.StatusBadRequest),
		Entry("wrapped twice", fmt.Errorf("loading: %w", fmt.Errorf("data %w", errors.NotFound)), http.StatusNotFound),
		Entry("echo error", echo.NewHTTPError(http.StatusTeapot), http.StatusTeapot),
		Entry("unknown error", stdErrors.New("boom"), http.StatusInternalServerError),
	)

	It("keeps the wrapped message", func() {
		rec := handle(fmt.Errorf("%w: invalid start", errors.BadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("bad request: invalid start"))
	})

	It("unwraps to the underlying error", func() {
		Expect(stdErrors.Unwrap(errors.NotFound)).To(MatchError("not found"))
	})
})
